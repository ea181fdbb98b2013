// Package types contains the read shapes returned by the API.
package types

import (
	"time"

	"github.com/okian/detetive/internal/domain/catalog"
	"github.com/okian/detetive/internal/domain/cycle"
	"github.com/okian/detetive/internal/domain/deduce"
	"github.com/okian/detetive/internal/domain/mark"
	"github.com/okian/detetive/internal/domain/model"
	"github.com/okian/detetive/internal/domain/session"
)

// Row is one item line of the grid.
type Row struct {
	ItemID        string               `json:"item_id"`
	Name          string               `json:"name"`
	Category      catalog.Category     `json:"category"`
	Marks         map[string]mark.Mark `json:"marks"`
	Excluded      bool                 `json:"excluded"`
	SoleCandidate bool                 `json:"sole_candidate"`
}

// Deduction is the candidate summary panel.
type Deduction struct {
	deduce.Result
	Solved   bool             `json:"solved"`
	Solution *deduce.Solution `json:"solution,omitempty"`
}

// Session is the full read-only snapshot of one session.
type Session struct {
	ID          string         `json:"id"`
	Screen      session.Screen `json:"screen"`
	PlayerCount int            `json:"player_count"`
	Version     uint64         `json:"version"`
	Players     []model.Player `json:"players"`
	Grid        []Row          `json:"grid"`
	Deduction   Deduction      `json:"deduction"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// CycleResult is returned by the cycle endpoint.
type CycleResult struct {
	Outcome   *cycle.Outcome `json:"outcome,omitempty"`
	Duplicate bool           `json:"duplicate"`
	Session   Session        `json:"session"`
}

// NewDeduction builds the summary panel from a controller.
func NewDeduction(c *session.Controller) Deduction {
	d := Deduction{Result: c.Deduction()}
	if sol, ok := c.Solution(); ok {
		d.Solved = true
		d.Solution = &sol
	}
	return d
}

// NewSession snapshots a controller. Rows are only present on GAME.
func NewSession(id string, c *session.Controller, createdAt, updatedAt time.Time) Session {
	v := Session{
		ID:          id,
		Screen:      c.Screen(),
		PlayerCount: c.PlayerCount(),
		Version:     c.Version(),
		Players:     c.Players(),
		Grid:        []Row{},
		Deduction:   NewDeduction(c),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	if v.Players == nil {
		v.Players = []model.Player{}
	}

	g := c.Grid()
	if g == nil {
		return v
	}
	cat := c.Catalog()
	for _, category := range catalog.Categories {
		for _, it := range cat.Items(category) {
			v.Grid = append(v.Grid, Row{
				ItemID:        it.ID,
				Name:          it.Name,
				Category:      category,
				Marks:         g.Row(it.ID),
				Excluded:      deduce.Excluded(g, it.ID),
				SoleCandidate: c.IsSoleCandidate(it.ID),
			})
		}
	}
	return v
}
