package httpapi

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bcheng02/flash-cards/internal/common"
	"github.com/bcheng02/flash-cards/internal/server/auth"
	"github.com/bcheng02/flash-cards/internal/server/models"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeUsers keeps plaintext passwords in memory and mints real tokens.
type fakeUsers struct {
	mu        sync.Mutex
	tokens    *auth.Manager
	byName    map[string]*models.User
	passwords map[string]string
	nextID    int64

	loggedOut []string
	logoutErr error
}

func newFakeUsers(tokens *auth.Manager) *fakeUsers {
	return &fakeUsers{tokens: tokens, byName: map[string]*models.User{}, passwords: map[string]string{}}
}

func (f *fakeUsers) Register(_ context.Context, username, password string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if username == "" || password == "" {
		return nil, common.ErrorMissingCredentials
	}
	if _, ok := f.byName[username]; ok {
		return nil, common.ErrorDuplicateUsername
	}
	f.nextID++
	u := &models.User{ID: f.nextID, Username: username}
	f.byName[username] = u
	f.passwords[username] = password
	return u, nil
}

func (f *fakeUsers) Login(_ context.Context, username, password string) (*models.User, *auth.TokenPair, error) {
	f.mu.Lock()
	u, ok := f.byName[username]
	pw := f.passwords[username]
	f.mu.Unlock()
	if !ok || pw != password {
		return nil, nil, common.ErrorInvalidCredentials
	}
	pair, err := f.tokens.Issue(u.ID)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

func (f *fakeUsers) Refresh(_ context.Context, refreshToken string) (*auth.TokenPair, error) {
	if refreshToken == "" {
		return nil, common.ErrorNoToken
	}
	claims, err := f.tokens.ParseToken(refreshToken, auth.RefreshToken)
	if err != nil {
		return nil, common.ErrorInvalidToken
	}
	return f.tokens.Issue(claims.UserID)
}

func (f *fakeUsers) Logout(_ context.Context, refreshToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedOut = append(f.loggedOut, refreshToken)
	return f.logoutErr
}

func (f *fakeUsers) Me(_ context.Context, userID int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byName {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

// fakeDecks is a flat, owner-checked deck store.
type fakeDecks struct {
	mu     sync.Mutex
	decks  map[int64]models.Deck
	nextID int64
}

func newFakeDecks() *fakeDecks {
	return &fakeDecks{decks: map[int64]models.Deck{}}
}

func (f *fakeDecks) owned(userID, id int64) (models.Deck, error) {
	d, ok := f.decks[id]
	if !ok || d.UserID != userID {
		return models.Deck{}, common.ErrorForbidden
	}
	return d, nil
}

func (f *fakeDecks) List(_ context.Context, userID int64) ([]models.Deck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Deck{}
	for id := int64(1); id <= f.nextID; id++ {
		if d, ok := f.decks[id]; ok && d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDecks) Get(_ context.Context, userID, id int64) (*models.Deck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, err := f.owned(userID, id)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (f *fakeDecks) Summary(ctx context.Context, userID, id int64) (*models.DeckSummary, error) {
	d, err := f.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return &models.DeckSummary{Deck: *d, CardCount: 3}, nil
}

func (f *fakeDecks) Create(_ context.Context, userID int64, name string, parentID *int64) (*models.Deck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if name == "" {
		return nil, common.ErrorValidation
	}
	f.nextID++
	d := models.Deck{ID: f.nextID, UserID: userID, ParentID: parentID, Name: name}
	f.decks[d.ID] = d
	return &d, nil
}

func (f *fakeDecks) Update(_ context.Context, userID, id int64, name string, parentID *int64) (*models.Deck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, err := f.owned(userID, id)
	if err != nil {
		return nil, err
	}
	d.Name, d.ParentID = name, parentID
	f.decks[id] = d
	return &d, nil
}

func (f *fakeDecks) Delete(_ context.Context, userID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.owned(userID, id); err != nil {
		return err
	}
	delete(f.decks, id)
	return nil
}

// fakeCards delegates ownership to the deck fake.
type fakeCards struct {
	decks *fakeDecks
	mu    sync.Mutex
	cards map[int64]models.Flashcard
	next  int64
}

func newFakeCards(decks *fakeDecks) *fakeCards {
	return &fakeCards{decks: decks, cards: map[int64]models.Flashcard{}}
}

func (f *fakeCards) List(ctx context.Context, userID, deckID int64) ([]models.Flashcard, error) {
	if _, err := f.decks.Get(ctx, userID, deckID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Flashcard{}
	for id := int64(1); id <= f.next; id++ {
		if c, ok := f.cards[id]; ok && c.DeckID == deckID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCards) Create(ctx context.Context, userID, deckID int64, front, back string) (*models.Flashcard, error) {
	if _, err := f.decks.Get(ctx, userID, deckID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	c := models.Flashcard{ID: f.next, DeckID: deckID, Front: front, Back: back}
	f.cards[c.ID] = c
	return &c, nil
}

func (f *fakeCards) card(ctx context.Context, userID, id int64) (models.Flashcard, error) {
	f.mu.Lock()
	c, ok := f.cards[id]
	f.mu.Unlock()
	if !ok {
		return models.Flashcard{}, common.ErrorForbidden
	}
	if _, err := f.decks.Get(ctx, userID, c.DeckID); err != nil {
		return models.Flashcard{}, err
	}
	return c, nil
}

func (f *fakeCards) Get(ctx context.Context, userID, id int64) (*models.Flashcard, error) {
	c, err := f.card(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (f *fakeCards) Update(ctx context.Context, userID, id int64, front, back string) (*models.Flashcard, error) {
	c, err := f.card(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	c.Front, c.Back = front, back
	f.mu.Lock()
	f.cards[id] = c
	f.mu.Unlock()
	return &c, nil
}

func (f *fakeCards) Delete(ctx context.Context, userID, id int64) error {
	if _, err := f.card(ctx, userID, id); err != nil {
		return err
	}
	f.mu.Lock()
	delete(f.cards, id)
	f.mu.Unlock()
	return nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

var errDBDown = errors.New("connection refused")
