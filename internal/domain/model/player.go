// Package model contains domain models passed between layers.
package model

// Player is one seat at the table. Exactly one player per game is the user.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	IsUser bool   `json:"is_user"`
}
