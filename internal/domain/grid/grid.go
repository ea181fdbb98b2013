// Package grid stores the per-cell marks for one game.
//
// A Grid is an immutable snapshot: Set returns a new Grid and never touches
// the receiver, so a snapshot handed to a reader stays stable while the game
// moves on. Rows untouched by a Set are shared between snapshots.
package grid

import (
	"slices"

	"github.com/okian/detetive/internal/domain/catalog"
	"github.com/okian/detetive/internal/domain/mark"
)

// Grid maps (item id, player id) to a mark and remembers the roster order.
type Grid struct {
	players []string
	cells   map[string]map[string]mark.Mark
}

// Initialize builds a grid with every item of the catalog times every player
// set to mark.Empty. Calling it twice with the same input yields equal grids.
func Initialize(cat catalog.Catalog, players []string) *Grid {
	g := &Grid{
		players: slices.Clone(players),
		cells:   make(map[string]map[string]mark.Mark, cat.Len()),
	}
	for _, it := range cat.All() {
		row := make(map[string]mark.Mark, len(players))
		for _, p := range players {
			row[p] = mark.Empty
		}
		g.cells[it.ID] = row
	}
	return g
}

// Get returns the mark for a cell. Missing cells, and a nil grid, read as
// mark.Empty.
func (g *Grid) Get(itemID, playerID string) mark.Mark {
	if g == nil {
		return mark.Empty
	}
	return g.cells[itemID][playerID]
}

// Set returns a new grid with exactly one cell changed.
func (g *Grid) Set(itemID, playerID string, m mark.Mark) *Grid {
	if g == nil {
		g = &Grid{}
	}
	next := &Grid{
		players: g.players,
		cells:   make(map[string]map[string]mark.Mark, len(g.cells)+1),
	}
	for id, row := range g.cells {
		next.cells[id] = row
	}
	row := make(map[string]mark.Mark, len(g.cells[itemID])+1)
	for p, v := range g.cells[itemID] {
		row[p] = v
	}
	row[playerID] = m
	next.cells[itemID] = row
	return next
}

// Players returns the roster order the grid was built with.
func (g *Grid) Players() []string {
	if g == nil {
		return nil
	}
	return slices.Clone(g.players)
}

// HasPlayer reports whether id is part of the roster.
func (g *Grid) HasPlayer(id string) bool {
	return g != nil && slices.Contains(g.players, id)
}

// HasItem reports whether the grid has a row for itemID.
func (g *Grid) HasItem(itemID string) bool {
	if g == nil {
		return false
	}
	_, ok := g.cells[itemID]
	return ok
}

// Row returns a copy of the marks recorded for one item keyed by player id.
func (g *Grid) Row(itemID string) map[string]mark.Mark {
	out := make(map[string]mark.Mark)
	if g == nil {
		return out
	}
	for p, v := range g.cells[itemID] {
		out[p] = v
	}
	return out
}

// Len returns the number of item rows.
func (g *Grid) Len() int {
	if g == nil {
		return 0
	}
	return len(g.cells)
}

// Equal reports whether both grids hold the same roster and marks. Absent
// cells compare equal to mark.Empty.
func (g *Grid) Equal(o *Grid) bool {
	if !slices.Equal(g.Players(), o.Players()) {
		return false
	}
	return g.covers(o) && o.covers(g)
}

func (g *Grid) covers(o *Grid) bool {
	if g == nil {
		return true
	}
	for id, row := range g.cells {
		for p, v := range row {
			if o.Get(id, p) != v {
				return false
			}
		}
	}
	return true
}
