package quiz

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brainbee-training/brainbee-backend/internal/api/http/middleware"
	"github.com/brainbee-training/brainbee-backend/internal/feedback"
	"github.com/brainbee-training/brainbee-backend/internal/sessions"
)

// Generator produces the next question for a category.
type Generator interface {
	NewQuestion(ctx context.Context, category string) (*Question, error)
}

// SessionStore persists per-visitor quiz state between requests.
type SessionStore interface {
	Get(ctx context.Context, sessionID string, dest any) error
	Save(ctx context.Context, sessionID string, state any) error
	Delete(ctx context.Context, sessionID string) error
}

// FeedbackRecorder rates and stores answered questions off the request path.
type FeedbackRecorder interface {
	Record(ctx context.Context, e feedback.Entry, explanation string) error
}

type Handler struct {
	svc      Generator
	store    SessionStore
	recorder FeedbackRecorder
}

func Register(rg *gin.RouterGroup, svc Generator, store SessionStore, recorder FeedbackRecorder) {
	h := &Handler{svc: svc, store: store, recorder: recorder}

	rg.GET("/categories", h.categories)
	rg.POST("/question", h.newQuestion)
	rg.POST("/answer", h.answer)
	rg.POST("/reset", h.reset)
	rg.GET("/history", h.history)
}

func (h *Handler) categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "categories": Categories})
}

type questionReq struct {
	Category string `json:"category"`
}

// questionDTO is the question as served to the browser: no correct answer or
// explanation until the answer comes back.
type questionDTO struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Question string   `json:"question"`
	Options  []Option `json:"options"`
	Source   string   `json:"source"`
}

func (h *Handler) newQuestion(c *gin.Context) {
	var req questionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if !ValidCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "unknown category"})
		return
	}

	q, err := h.svc.NewQuestion(c.Request.Context(), req.Category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "could not generate question"})
		return
	}

	sessionID := middleware.SessionID(c)
	var state SessionState
	if err := h.store.Get(c.Request.Context(), sessionID, &state); err != nil && !errors.Is(err, sessions.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "session unavailable"})
		return
	}

	state.Current = q
	if err := h.store.Save(c.Request.Context(), sessionID, &state); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "session unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "question": questionDTO{
		ID:       q.ID,
		Category: q.Category,
		Question: q.Prompt,
		Options:  q.Options,
		Source:   q.Source,
	}})
}

type answerReq struct {
	Answer string `json:"answer"`
}

func (h *Handler) answer(c *gin.Context) {
	var req answerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	answer := strings.ToUpper(strings.TrimSpace(req.Answer))
	if len(answer) != 1 || answer < "A" || answer > "D" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "answer must be A, B, C or D"})
		return
	}

	sessionID := middleware.SessionID(c)
	var state SessionState
	err := h.store.Get(c.Request.Context(), sessionID, &state)
	if err != nil && !errors.Is(err, sessions.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "session unavailable"})
		return
	}
	if state.Current == nil {
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "no active question"})
		return
	}

	q := state.Current
	fb, correct := Evaluate(q, answer)

	state.History = append(state.History, AnswerRecord{
		Question:      q.Prompt,
		Options:       q.Options,
		Category:      q.Category,
		UserAnswer:    answer,
		CorrectAnswer: q.CorrectAnswer,
		Feedback:      fb,
		IsCorrect:     correct,
		AnsweredAt:    time.Now().UTC(),
	})
	state.Current = nil

	if err := h.store.Save(c.Request.Context(), sessionID, &state); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "session unavailable"})
		return
	}

	h.record(q, answer, correct)

	c.JSON(http.StatusOK, gin.H{
		"ok":             true,
		"correct":        correct,
		"correct_answer": q.CorrectAnswer,
		"feedback":       fb,
	})
}

// record grades and stores the answered question without holding up the
// response.
func (h *Handler) record(q *Question, answer string, correct bool) {
	if h.recorder == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := h.recorder.Record(ctx, feedback.Entry{
			Question:      q.Prompt,
			UserAnswer:    answer,
			CorrectAnswer: q.CorrectAnswer,
			Category:      q.Category,
			IsCorrect:     correct,
		}, q.Explanation)
		if err != nil {
			log.Printf("[quiz] record feedback failed question=%s err=%v", q.ID, err)
		}
	}()
}

// reset drops the visitor's quiz state, current question and history both.
func (h *Handler) reset(c *gin.Context) {
	sessionID := middleware.SessionID(c)

	if err := h.store.Delete(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "session unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) history(c *gin.Context) {
	sessionID := middleware.SessionID(c)

	var state SessionState
	err := h.store.Get(c.Request.Context(), sessionID, &state)
	if err != nil && !errors.Is(err, sessions.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "session unavailable"})
		return
	}

	history := state.History
	if history == nil {
		history = []AnswerRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "history": history, "count": len(history)})
}
