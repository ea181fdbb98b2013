// Package catalog holds the static card set: suspects, weapons and locations.
package catalog

// Category names one of the three card groups.
type Category string

// Card categories in display order.
const (
	Suspects  Category = "suspects"
	Weapons   Category = "weapons"
	Locations Category = "locations"
)

// Categories lists the categories in the order they are rendered and deduced.
var Categories = []Category{Suspects, Weapons, Locations} //nolint:gochecknoglobals // immutable lookup order

// Item is a single card. IDs are unique across the whole catalog because the
// grid is keyed by item id alone.
type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Catalog is the ordered card set for one game.
type Catalog struct {
	Suspects  []Item `json:"suspects"`
	Weapons   []Item `json:"weapons"`
	Locations []Item `json:"locations"`
}

// New builds a catalog from three item sequences. Slices are copied.
func New(suspects, weapons, locations []Item) Catalog {
	return Catalog{
		Suspects:  append([]Item(nil), suspects...),
		Weapons:   append([]Item(nil), weapons...),
		Locations: append([]Item(nil), locations...),
	}
}

// Items returns the items of one category in catalog order.
func (c Catalog) Items(cat Category) []Item {
	switch cat {
	case Suspects:
		return c.Suspects
	case Weapons:
		return c.Weapons
	case Locations:
		return c.Locations
	default:
		return nil
	}
}

// All returns every item: suspects, then weapons, then locations.
func (c Catalog) All() []Item {
	out := make([]Item, 0, len(c.Suspects)+len(c.Weapons)+len(c.Locations))
	out = append(out, c.Suspects...)
	out = append(out, c.Weapons...)
	out = append(out, c.Locations...)
	return out
}

// Lookup finds an item by id and reports its category.
func (c Catalog) Lookup(id string) (Item, Category, bool) {
	for _, cat := range Categories {
		for _, it := range c.Items(cat) {
			if it.ID == id {
				return it, cat, true
			}
		}
	}
	return Item{}, "", false
}

// Len returns the number of items across all categories.
func (c Catalog) Len() int {
	return len(c.Suspects) + len(c.Weapons) + len(c.Locations)
}
