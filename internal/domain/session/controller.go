// Package session holds the state of one companion session: which screen is
// active, the roster, and the grid. A Controller is single-writer; callers
// that share one across goroutines must serialize access.
package session

import (
	"fmt"
	"slices"

	"github.com/okian/detetive/internal/domain/catalog"
	"github.com/okian/detetive/internal/domain/cycle"
	"github.com/okian/detetive/internal/domain/deduce"
	"github.com/okian/detetive/internal/domain/grid"
	"github.com/okian/detetive/internal/domain/model"
)

// Screen is the top-level view the session is on.
type Screen string

// Screens in flow order.
const (
	ScreenHome  Screen = "HOME"
	ScreenSetup Screen = "SETUP"
	ScreenGame  Screen = "GAME"
)

// Controller drives the HOME -> SETUP -> GAME flow and owns the grid.
type Controller struct {
	cat     catalog.Catalog
	palette []string

	screen      Screen
	playerCount int
	players     []model.Player
	grid        *grid.Grid
	version     uint64
}

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithCatalog replaces the default Detetive catalog.
func WithCatalog(cat catalog.Catalog) Option {
	return func(c *Controller) {
		if cat.Len() > 0 {
			c.cat = cat
		}
	}
}

// WithPalette sets the color tokens assigned to seats.
func WithPalette(palette []string) Option {
	return func(c *Controller) {
		if len(palette) > 0 {
			c.palette = slices.Clone(palette)
		}
	}
}

// WithDefaultPlayerCount sets the count preselected on the setup screen.
func WithDefaultPlayerCount(n int) Option {
	return func(c *Controller) {
		if n >= MinPlayers && n <= MaxPlayers {
			c.playerCount = n
		}
	}
}

// NewController returns a controller on the HOME screen.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		cat:         catalog.Default(),
		palette:     DefaultPalette,
		screen:      ScreenHome,
		playerCount: DefaultPlayerCount,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartNewGame moves from HOME to SETUP.
func (c *Controller) StartNewGame() error {
	if c.screen != ScreenHome {
		return fmt.Errorf("%w: start from %s", ErrWrongScreen, c.screen)
	}
	c.screen = ScreenSetup
	c.version++
	return nil
}

// SelectPlayerCount picks the number of seats while on SETUP.
func (c *Controller) SelectPlayerCount(n int) error {
	if c.screen != ScreenSetup {
		return fmt.Errorf("%w: select player count on %s", ErrWrongScreen, c.screen)
	}
	if n < MinPlayers || n > MaxPlayers {
		return fmt.Errorf("%w: %d", ErrInvalidPlayerCount, n)
	}
	c.playerCount = n
	c.version++
	return nil
}

// SubmitSetup builds the roster and a fresh grid and enters GAME.
func (c *Controller) SubmitSetup() error {
	if c.screen != ScreenSetup {
		return fmt.Errorf("%w: submit setup on %s", ErrWrongScreen, c.screen)
	}
	players, g, err := NewSession(c.playerCount, c.cat, c.palette)
	if err != nil {
		return err
	}
	c.players = players
	c.grid = g
	c.screen = ScreenGame
	c.version++
	return nil
}

// Home returns to HOME and discards the game in progress.
func (c *Controller) Home() {
	c.screen = ScreenHome
	c.players = nil
	c.grid = nil
	c.version++
}

// NewGame discards any state and runs the whole setup flow for n seats.
func (c *Controller) NewGame(n int) error {
	if n < MinPlayers || n > MaxPlayers {
		return fmt.Errorf("%w: %d", ErrInvalidPlayerCount, n)
	}
	c.Home()
	if err := c.StartNewGame(); err != nil {
		return err
	}
	if err := c.SelectPlayerCount(n); err != nil {
		return err
	}
	return c.SubmitSetup()
}

// Cycle advances one cell. Ids must name a catalog item and a roster player.
func (c *Controller) Cycle(itemID, playerID string) (cycle.Outcome, error) {
	if c.screen != ScreenGame || c.grid == nil {
		return cycle.Outcome{}, ErrNotInGame
	}
	if _, _, ok := c.cat.Lookup(itemID); !ok {
		return cycle.Outcome{}, fmt.Errorf("%w: %q", ErrUnknownItem, itemID)
	}
	if !c.grid.HasPlayer(playerID) {
		return cycle.Outcome{}, fmt.Errorf("%w: %q", ErrUnknownPlayer, playerID)
	}
	next, out := cycle.Cycle(c.grid, itemID, playerID)
	c.grid = next
	c.version++
	return out, nil
}

// Deduction recomputes the candidates from the current grid.
func (c *Controller) Deduction() deduce.Result {
	return deduce.Deduce(c.grid, c.cat)
}

// IsSoleCandidate reports whether the item is the last candidate left in its
// category.
func (c *Controller) IsSoleCandidate(itemID string) bool {
	_, cat, ok := c.cat.Lookup(itemID)
	if !ok || c.grid == nil {
		return false
	}
	return deduce.IsSoleCandidate(c.grid, itemID, c.cat.Items(cat))
}

// Solution returns the envelope once it is fully deduced.
func (c *Controller) Solution() (deduce.Solution, bool) {
	if c.grid == nil {
		return deduce.Solution{}, false
	}
	return deduce.Solve(c.grid, c.cat)
}

// Screen returns the active screen.
func (c *Controller) Screen() Screen { return c.screen }

// PlayerCount returns the selected number of seats.
func (c *Controller) PlayerCount() int { return c.playerCount }

// Players returns a copy of the roster; empty outside GAME.
func (c *Controller) Players() []model.Player { return slices.Clone(c.players) }

// Grid returns the current grid snapshot; nil outside GAME.
func (c *Controller) Grid() *grid.Grid { return c.grid }

// Catalog returns the card set in use.
func (c *Controller) Catalog() catalog.Catalog { return c.cat }

// Version increases on every state change.
func (c *Controller) Version() uint64 { return c.version }
