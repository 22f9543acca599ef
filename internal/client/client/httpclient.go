package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"github.com/bcheng02/flash-cards/internal/client/models"
	"github.com/bcheng02/flash-cards/internal/common"
	"golang.org/x/sync/singleflight"
)

const refreshKey = "refresh"

// request describes one API call so it can be sent again after a refresh.
// Public requests carry no bearer token and are never retried; retried is
// set on the single replay.
type request struct {
	method  string
	path    string
	body    any
	public  bool
	retried bool
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type loginResponse struct {
	AccessToken string      `json:"accessToken"`
	User        models.User `json:"user"`
}

type registerResponse struct {
	User models.User `json:"user"`
}

type deckBody struct {
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id"`
}

type cardBody struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu          sync.RWMutex
	accessToken string

	refreshes singleflight.Group
}

// NewHTTPClient returns a client for the API at baseURL. The refresh cookie
// lives in an in-memory jar owned by the client.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

func (c *HTTPClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func (c *HTTPClient) setToken(t string) {
	c.mu.Lock()
	c.accessToken = t
	c.mu.Unlock()
}

func (c *HTTPClient) State() State {
	if c.token() == "" {
		return Unauthenticated
	}
	return Authenticated
}

// do sends r and, if the access token is rejected, renews the session once
// and sends r once more.
func (c *HTTPClient) do(ctx context.Context, r request, out any) error {
	used := c.token()
	err := c.send(ctx, r, used, out)
	if r.public || r.retried || !sessionRejected(err) {
		return err
	}
	r.retried = true

	// Skip the refresh if a concurrent call renewed the session while this
	// one was in flight.
	if current := c.token(); current == "" || current == used {
		if refreshErr := c.refresh(ctx, used); refreshErr != nil {
			return err
		}
	}
	return c.do(ctx, r, out)
}

// refresh exchanges the refresh cookie for a new access token. Concurrent
// callers share one in-flight call. On failure the held token is dropped.
// rejected is the token the caller was refused with; if it has already been
// replaced there is nothing to do.
func (c *HTTPClient) refresh(ctx context.Context, rejected string) error {
	_, err, _ := c.refreshes.Do(refreshKey, func() (any, error) {
		if current := c.token(); current != "" && current != rejected {
			return nil, nil
		}
		var resp tokenResponse
		err := c.send(context.WithoutCancel(ctx), request{method: http.MethodPost, path: "/auth/refresh", public: true}, "", &resp)
		if err != nil {
			c.setToken("")
			return nil, err
		}
		c.setToken(resp.AccessToken)
		return nil, nil
	})
	return err
}

func (c *HTTPClient) send(ctx context.Context, r request, token string, out any) error {
	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !r.public && token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", r.method, r.path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{
		Status:    resp.StatusCode,
		Challenge: resp.Header.Get(common.WWWAuthenticateHeaderName),
	}
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	} else {
		apiErr.Message = strings.ToLower(http.StatusText(resp.StatusCode))
	}
	return apiErr
}

// Init fetches the current user, refreshing once if needed. The cookie jar
// lives only as long as the client, so a freshly started process has no
// refresh cookie and Init returns ErrUnauthorized; within one process it
// resumes a session whose access token was dropped.
func (c *HTTPClient) Init(ctx context.Context) (*models.User, error) {
	return c.Me(ctx)
}

func (c *HTTPClient) Register(ctx context.Context, username, password string) (*models.User, error) {
	var resp registerResponse
	r := request{method: http.MethodPost, path: "/auth/register", body: credentials{username, password}, public: true}
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*models.User, error) {
	var resp loginResponse
	r := request{method: http.MethodPost, path: "/auth/login", body: credentials{username, password}, public: true}
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	c.setToken(resp.AccessToken)
	return &resp.User, nil
}

// Logout asks the server to clear the refresh cookie. The in-memory token is
// dropped even if the call fails.
func (c *HTTPClient) Logout(ctx context.Context) error {
	defer c.setToken("")
	return c.do(ctx, request{method: http.MethodPost, path: "/auth/logout", public: true}, nil)
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/me"}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) ListDecks(ctx context.Context) ([]models.Deck, error) {
	var decks []models.Deck
	if err := c.do(ctx, request{method: http.MethodGet, path: "/decks"}, &decks); err != nil {
		return nil, err
	}
	return decks, nil
}

func (c *HTTPClient) CreateDeck(ctx context.Context, name string, parentID *int64) (*models.Deck, error) {
	var d models.Deck
	if err := c.do(ctx, request{method: http.MethodPost, path: "/decks", body: deckBody{name, parentID}}, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateDeck renames the deck and sets its parent; a nil parentID moves it
// to the top level.
func (c *HTTPClient) UpdateDeck(ctx context.Context, id int64, name string, parentID *int64) (*models.Deck, error) {
	var d models.Deck
	r := request{method: http.MethodPut, path: fmt.Sprintf("/decks/%d", id), body: deckBody{name, parentID}}
	if err := c.do(ctx, r, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// DeleteDeck removes the deck with its sub-decks and cards.
func (c *HTTPClient) DeleteDeck(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/decks/%d", id)}, nil)
}

func (c *HTTPClient) DeckSummary(ctx context.Context, id int64) (*models.DeckSummary, error) {
	var s models.DeckSummary
	if err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/decks/%d/summary", id)}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) ListCards(ctx context.Context, deckID int64) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	if err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/decks/%d/flashcards", deckID)}, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (c *HTTPClient) CreateCard(ctx context.Context, deckID int64, front, back string) (*models.Flashcard, error) {
	var card models.Flashcard
	r := request{method: http.MethodPost, path: fmt.Sprintf("/decks/%d/flashcards", deckID), body: cardBody{front, back}}
	if err := c.do(ctx, r, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *HTTPClient) UpdateCard(ctx context.Context, id int64, front, back string) (*models.Flashcard, error) {
	var card models.Flashcard
	r := request{method: http.MethodPut, path: fmt.Sprintf("/flashcards/%d", id), body: cardBody{front, back}}
	if err := c.do(ctx, r, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *HTTPClient) DeleteCard(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/flashcards/%d", id)}, nil)
}
