// Package models defines the client-side view of the API resources.
package models

import "time"

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type Deck struct {
	ID        int64     `json:"id"`
	ParentID  *int64    `json:"parent_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeckSummary is a deck with the number of cards in its whole subtree.
type DeckSummary struct {
	Deck
	CardCount int64 `json:"cardCount"`
}

type Flashcard struct {
	ID        int64     `json:"id"`
	DeckID    int64     `json:"deck_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	CreatedAt time.Time `json:"created_at"`
}
