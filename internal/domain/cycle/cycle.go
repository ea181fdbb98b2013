// Package cycle advances a single cell through the mark cycle and applies the
// cross-player exclusion that follows a confirmed holder.
package cycle

import (
	"github.com/okian/detetive/internal/domain/grid"
	"github.com/okian/detetive/internal/domain/mark"
)

// Exclusion records one cell forced to NO by another player's confirmation.
type Exclusion struct {
	PlayerID string    `json:"player_id"`
	Previous mark.Mark `json:"previous"`
}

// Outcome describes what a single cycle did.
type Outcome struct {
	ItemID     string      `json:"item_id"`
	PlayerID   string      `json:"player_id"`
	Previous   mark.Mark   `json:"previous"`
	Next       mark.Mark   `json:"next"`
	Exclusions []Exclusion `json:"exclusions,omitempty"`
}

// Cycle advances (itemID, playerID) to its next mark. When the new mark is
// YES or REVEALED every other roster player is set to NO for that item,
// whatever they held before. Leaving YES/REVEALED later restores nothing.
// An item or player the grid does not know leaves the grid as it is and
// reports an Outcome with Previous == Next.
func Cycle(g *grid.Grid, itemID, playerID string) (*grid.Grid, Outcome) {
	if !g.HasItem(itemID) || !g.HasPlayer(playerID) {
		return g, Outcome{ItemID: itemID, PlayerID: playerID}
	}

	prev := g.Get(itemID, playerID)
	next := prev.Next()

	out := Outcome{
		ItemID:   itemID,
		PlayerID: playerID,
		Previous: prev,
		Next:     next,
	}

	g = g.Set(itemID, playerID, next)
	if !next.Held() {
		return g, out
	}

	for _, p := range g.Players() {
		if p == playerID {
			continue
		}
		out.Exclusions = append(out.Exclusions, Exclusion{PlayerID: p, Previous: g.Get(itemID, p)})
		g = g.Set(itemID, p, mark.No)
	}
	return g, out
}
