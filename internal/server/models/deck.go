package models

import "time"

// Deck is a named collection of flashcards. Decks form a tree per user
// through ParentID.
type Deck struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ParentID  *int64    `json:"parent_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeckSummary is a deck plus the number of cards in it and all of its sub-decks.
type DeckSummary struct {
	Deck
	CardCount int64 `json:"cardCount"`
}
