package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type deckRequest struct {
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id"`
}

type flashcardRequest struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

func (s *HTTPServer) listDecks(c *gin.Context) {
	decks, err := s.decks.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, decks)
}

func (s *HTTPServer) createDeck(c *gin.Context) {
	var req deckRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}

	deck, err := s.decks.Create(c.Request.Context(), currentUserID(c), req.Name, req.ParentID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, deck)
}

func (s *HTTPServer) getDeck(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	deck, err := s.decks.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, deck)
}

func (s *HTTPServer) deckSummary(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	summary, err := s.decks.Summary(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *HTTPServer) updateDeck(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	var req deckRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}

	deck, err := s.decks.Update(c.Request.Context(), currentUserID(c), id, req.Name, req.ParentID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, deck)
}

func (s *HTTPServer) deleteDeck(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := s.decks.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *HTTPServer) listFlashcards(c *gin.Context) {
	deckID, err := pathID(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	cards, err := s.cards.List(c.Request.Context(), currentUserID(c), deckID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

func (s *HTTPServer) createFlashcard(c *gin.Context) {
	deckID, err := pathID(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	var req flashcardRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}

	card, err := s.cards.Create(c.Request.Context(), currentUserID(c), deckID, req.Front, req.Back)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

func (s *HTTPServer) getFlashcard(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	card, err := s.cards.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (s *HTTPServer) updateFlashcard(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	var req flashcardRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}

	card, err := s.cards.Update(c.Request.Context(), currentUserID(c), id, req.Front, req.Back)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (s *HTTPServer) deleteFlashcard(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := s.cards.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
