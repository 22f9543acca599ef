package services

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/bcheng02/flash-cards/internal/common"
	"github.com/bcheng02/flash-cards/internal/dbx"
	"github.com/bcheng02/flash-cards/internal/server/models"
	"github.com/bcheng02/flash-cards/internal/server/repositories/decks"
	"github.com/bcheng02/flash-cards/internal/server/repositories/flashcards"
	"github.com/bcheng02/flash-cards/internal/server/repositories/revocations"
	"github.com/bcheng02/flash-cards/internal/server/repositories/users"
)

// memStore is an in-memory stand-in for the Postgres schema.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
	decks  map[int64]*models.Deck
	cards  map[int64]*models.Flashcard

	failWith error
}

func newMemStore() *memStore {
	return &memStore{
		users: map[int64]*models.User{},
		decks: map[int64]*models.Deck{},
		cards: map[int64]*models.Flashcard{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

type fakeRepoManager struct {
	store       *memStore
	revocations revocations.Repository
}

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (f *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return (*memUsers)(f.store) }
func (f *fakeRepoManager) Decks(dbx.DBTX) decks.Repository              { return (*memDecks)(f.store) }
func (f *fakeRepoManager) Flashcards(dbx.DBTX) flashcards.Repository    { return (*memCards)(f.store) }

func (f *fakeRepoManager) Revocations(dbx.DBTX) revocations.Repository {
	if f.revocations == nil {
		return revocations.Nop{}
	}
	return f.revocations
}

// --- users ---

type memUsers memStore

func (r *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	m := (*memStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return nil, common.ErrorDuplicateUsername
		}
	}
	u.ID = m.id()
	u.CreatedAt = time.Now()
	cp := *u
	m.users[u.ID] = &cp
	return u, nil
}

func (r *memUsers) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m := (*memStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	m := (*memStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	u, ok := m.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

// --- decks ---

type memDecks memStore

func (r *memDecks) Create(_ context.Context, d *models.Deck) (*models.Deck, error) {
	m := (*memStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	d.ID = m.id()
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	cp := *d
	m.decks[d.ID] = &cp
	return d, nil
}

func (r *memDecks) GetByID(_ context.Context, id int64) (*models.Deck, error) {
	m := (*memStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.decks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *memDecks) ListByUser(_ context.Context, userID int64) ([]models.Deck, error) {
	m := (*memStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []models.Deck{}
	for id := int64(1); id <= m.nextID; id++ {
		if d, ok := m.decks[id]; ok && d.UserID == userID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *memDecks) Update(_ context.Context, d *models.Deck) (*models.Deck, error) {
	m := (*memStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.decks[d.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	existing.Name = d.Name
	existing.ParentID = d.ParentID
	existing.UpdatedAt = time.Now()
	cp := *existing
	return &cp, nil
}

func (r *memDecks) Delete(_ context.Context, id int64) error {
	m := (*memStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.decks[id]; !ok {
		return common.ErrorNotFound
	}
	for _, sub := range m.subtree(id) {
		delete(m.decks, sub)
		for cid, c := range m.cards {
			if c.DeckID == sub {
				delete(m.cards, cid)
			}
		}
	}
	return nil
}

func (r *memDecks) Owner(_ context.Context, id int64) (int64, error) {
	m := (*memStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	d, ok := m.decks[id]
	if !ok {
		return 0, common.ErrorNotFound
	}
	return d.UserID, nil
}

func (r *memDecks) CountCards(_ context.Context, id int64) (int64, error) {
	m := (*memStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	in := map[int64]bool{}
	for _, sub := range m.subtree(id) {
		in[sub] = true
	}
	var n int64
	for _, c := range m.cards {
		if in[c.DeckID] {
			n++
		}
	}
	return n, nil
}

func (r *memDecks) InSubtree(_ context.Context, rootID, candidateID int64) (bool, error) {
	m := (*memStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sub := range m.subtree(rootID) {
		if sub == candidateID {
			return true, nil
		}
	}
	return false, nil
}

// subtree returns root and all its descendants; callers hold the lock.
func (m *memStore) subtree(root int64) []int64 {
	out := []int64{root}
	for i := 0; i < len(out); i++ {
		for id, d := range m.decks {
			if d.ParentID != nil && *d.ParentID == out[i] {
				out = append(out, id)
			}
		}
	}
	return out
}

// --- flashcards ---

type memCards memStore

func (r *memCards) Create(_ context.Context, c *models.Flashcard) (*models.Flashcard, error) {
	m := (*memStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.id()
	c.CreatedAt = time.Now()
	cp := *c
	m.cards[c.ID] = &cp
	return c, nil
}

func (r *memCards) GetByID(_ context.Context, id int64) (*models.Flashcard, error) {
	m := (*memStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCards) ListByDeck(_ context.Context, deckID int64) ([]models.Flashcard, error) {
	m := (*memStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Flashcard{}
	for id := int64(1); id <= m.nextID; id++ {
		if c, ok := m.cards[id]; ok && c.DeckID == deckID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memCards) Update(_ context.Context, c *models.Flashcard) (*models.Flashcard, error) {
	m := (*memStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.cards[c.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	existing.Front = c.Front
	existing.Back = c.Back
	cp := *existing
	return &cp, nil
}

func (r *memCards) Delete(_ context.Context, id int64) error {
	m := (*memStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cards[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.cards, id)
	return nil
}

func (r *memCards) Owner(_ context.Context, id int64) (int64, error) {
	m := (*memStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[id]
	if !ok {
		return 0, common.ErrorNotFound
	}
	d, ok := m.decks[c.DeckID]
	if !ok {
		return 0, common.ErrorNotFound
	}
	return d.UserID, nil
}
