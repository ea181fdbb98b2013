// Package deduce derives the envelope candidates from a grid snapshot.
//
// It is plain elimination: an item held by any player cannot be in the
// envelope, everything else stays a candidate. Results are recomputed from
// the snapshot on every call.
package deduce

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/okian/detetive/internal/domain/catalog"
	"github.com/okian/detetive/internal/domain/grid"
)

// Result holds the remaining candidate names per category in catalog order.
type Result struct {
	Suspects  []string `json:"suspects"`
	Weapons   []string `json:"weapons"`
	Locations []string `json:"locations"`
}

// Solution is the envelope triple once every category is down to one item.
type Solution struct {
	Suspect  catalog.Item `json:"suspect"`
	Weapon   catalog.Item `json:"weapon"`
	Location catalog.Item `json:"location"`
}

// Names returns the candidate list of one category.
func (r Result) Names(cat catalog.Category) []string {
	switch cat {
	case catalog.Suspects:
		return r.Suspects
	case catalog.Weapons:
		return r.Weapons
	case catalog.Locations:
		return r.Locations
	default:
		return nil
	}
}

// Excluded reports whether any player holds the item.
func Excluded(g *grid.Grid, itemID string) bool {
	for _, m := range g.Row(itemID) {
		if m.Held() {
			return true
		}
	}
	return false
}

// excludedSet collects the held items among items.
func excludedSet(g *grid.Grid, items []catalog.Item) mapset.Set[string] {
	out := mapset.New[string]()
	for _, it := range items {
		if Excluded(g, it.ID) {
			out.Put(it.ID)
		}
	}
	return out
}

// Candidates returns the items not held by anyone, in catalog order.
func Candidates(g *grid.Grid, items []catalog.Item) []catalog.Item {
	excluded := excludedSet(g, items)
	out := make([]catalog.Item, 0, len(items)-excluded.Size())
	for _, it := range items {
		if !excluded.Has(it.ID) {
			out = append(out, it)
		}
	}
	return out
}

// Deduce computes the candidate names for all three categories.
func Deduce(g *grid.Grid, cat catalog.Catalog) Result {
	return Result{
		Suspects:  names(Candidates(g, cat.Suspects)),
		Weapons:   names(Candidates(g, cat.Weapons)),
		Locations: names(Candidates(g, cat.Locations)),
	}
}

// IsSoleCandidate is true when the item is not held by anyone and is the
// only such item in its category.
func IsSoleCandidate(g *grid.Grid, itemID string, categoryItems []catalog.Item) bool {
	if Excluded(g, itemID) {
		return false
	}
	left := Candidates(g, categoryItems)
	return len(left) == 1 && left[0].ID == itemID
}

// Solve returns the envelope when each category has exactly one candidate.
func Solve(g *grid.Grid, cat catalog.Catalog) (Solution, bool) {
	s := Candidates(g, cat.Suspects)
	w := Candidates(g, cat.Weapons)
	l := Candidates(g, cat.Locations)
	if len(s) != 1 || len(w) != 1 || len(l) != 1 {
		return Solution{}, false
	}
	return Solution{Suspect: s[0], Weapon: w[0], Location: l[0]}, true
}

func names(items []catalog.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}
