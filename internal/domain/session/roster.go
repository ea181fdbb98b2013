package session

import (
	"fmt"

	"github.com/okian/detetive/internal/domain/catalog"
	"github.com/okian/detetive/internal/domain/grid"
	"github.com/okian/detetive/internal/domain/model"
)

// Roster bounds.
const (
	MinPlayers         = 3
	MaxPlayers         = 6
	DefaultPlayerCount = MinPlayers
)

const userName = "Você"

// DefaultPalette is the color token list players cycle through by seat index.
var DefaultPalette = []string{"red", "blue", "green", "yellow", "purple", "orange"} //nolint:gochecknoglobals // default palette

// NewSession builds the roster for playerCount seats and a fresh grid over
// the catalog. Seat 0 is the user; the rest are numbered from 2.
func NewSession(playerCount int, cat catalog.Catalog, palette []string) ([]model.Player, *grid.Grid, error) {
	if playerCount < MinPlayers || playerCount > MaxPlayers {
		return nil, nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidPlayerCount, playerCount, MinPlayers, MaxPlayers)
	}
	if len(palette) == 0 {
		palette = DefaultPalette
	}

	players := make([]model.Player, playerCount)
	ids := make([]string, playerCount)
	for i := range players {
		name := fmt.Sprintf("Jog. %d", i+1)
		if i == 0 {
			name = userName
		}
		players[i] = model.Player{
			ID:     fmt.Sprintf("p%d", i),
			Name:   name,
			Color:  palette[i%len(palette)],
			IsUser: i == 0,
		}
		ids[i] = players[i].ID
	}
	return players, grid.Initialize(cat, ids), nil
}
