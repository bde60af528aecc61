package quiz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainbee-training/brainbee-backend/internal/api/http/middleware"
	"github.com/brainbee-training/brainbee-backend/internal/feedback"
	"github.com/brainbee-training/brainbee-backend/internal/sessions"
)

type fakeGenerator struct {
	q   *Question
	err error
}

func (f *fakeGenerator) NewQuestion(context.Context, string) (*Question, error) {
	return f.q, f.err
}

type fakeRecorder struct {
	entries chan feedback.Entry
}

func (f *fakeRecorder) Record(_ context.Context, e feedback.Entry, _ string) error {
	f.entries <- e
	return nil
}

func sampleQuestion() *Question {
	return &Question{
		ID:       "q-1",
		Category: "Neuroanatomy",
		Prompt:   "Which structure relays sensory information to the cortex?",
		Options: []Option{
			{Letter: "A", Text: "Cerebellum"},
			{Letter: "B", Text: "Thalamus"},
			{Letter: "C", Text: "Amygdala"},
			{Letter: "D", Text: "Pons"},
		},
		CorrectAnswer: "B",
		Explanation:   "The thalamus relays nearly all sensory input to the cortex.",
		Source:        "generated",
	}
}

type quizTestEnv struct {
	router   *gin.Engine
	recorder *fakeRecorder
	cookies  []*http.Cookie
}

func setupQuizRouter(t *testing.T, gen Generator) *quizTestEnv {
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	store := sessions.NewRepo(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	rec := &fakeRecorder{entries: make(chan feedback.Entry, 1)}

	router := gin.New()
	router.Use(middleware.SessionMiddleware())
	Register(router.Group("/api/v1/quiz"), gen, store, rec)

	return &quizTestEnv{router: router, recorder: rec}
}

// do replays cookies between requests so they hit the same session.
func (env *quizTestEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range env.cookies {
		req.AddCookie(ck)
	}

	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	if set := rr.Result().Cookies(); len(set) > 0 {
		env.cookies = set
	}
	return rr
}

func TestNewQuestionHidesAnswer(t *testing.T) {
	env := setupQuizRouter(t, &fakeGenerator{q: sampleQuestion()})

	rr := env.do(t, "POST", "/api/v1/quiz/question", gin.H{"category": "Neuroanatomy"})

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		OK       bool `json:"ok"`
		Question struct {
			ID       string   `json:"id"`
			Question string   `json:"question"`
			Options  []Option `json:"options"`
		} `json:"question"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "q-1", resp.Question.ID)
	assert.Len(t, resp.Question.Options, 4)
	assert.NotContains(t, rr.Body.String(), "correct_answer")
	assert.NotContains(t, rr.Body.String(), "explanation")
}

func TestNewQuestionUnknownCategory(t *testing.T) {
	env := setupQuizRouter(t, &fakeGenerator{q: sampleQuestion()})

	rr := env.do(t, "POST", "/api/v1/quiz/question", gin.H{"category": "Astrology"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNewQuestionGenerationFailure(t *testing.T) {
	env := setupQuizRouter(t, &fakeGenerator{err: errors.New("llm down")})

	rr := env.do(t, "POST", "/api/v1/quiz/question", gin.H{"category": "Neuroanatomy"})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestAnswerWithoutActiveQuestion(t *testing.T) {
	env := setupQuizRouter(t, &fakeGenerator{q: sampleQuestion()})

	rr := env.do(t, "POST", "/api/v1/quiz/answer", gin.H{"answer": "A"})

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestAnswerInvalidLetter(t *testing.T) {
	env := setupQuizRouter(t, &fakeGenerator{q: sampleQuestion()})

	rr := env.do(t, "POST", "/api/v1/quiz/answer", gin.H{"answer": "E"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAnswerFlow(t *testing.T) {
	env := setupQuizRouter(t, &fakeGenerator{q: sampleQuestion()})

	rr := env.do(t, "POST", "/api/v1/quiz/question", gin.H{"category": "Neuroanatomy"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, "POST", "/api/v1/quiz/answer", gin.H{"answer": "b"})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		OK            bool   `json:"ok"`
		Correct       bool   `json:"correct"`
		CorrectAnswer string `json:"correct_answer"`
		Feedback      string `json:"feedback"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Correct)
	assert.Equal(t, "B", resp.CorrectAnswer)
	assert.Contains(t, resp.Feedback, "Correct!")

	// Feedback is recorded off the request path.
	select {
	case e := <-env.recorder.entries:
		assert.Equal(t, "B", e.UserAnswer)
		assert.True(t, e.IsCorrect)
		assert.Equal(t, "Neuroanatomy", e.Category)
	case <-time.After(2 * time.Second):
		t.Fatal("feedback entry was not recorded")
	}

	// The question is consumed: answering again conflicts.
	rr = env.do(t, "POST", "/api/v1/quiz/answer", gin.H{"answer": "B"})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestAnswerIncorrectFeedback(t *testing.T) {
	env := setupQuizRouter(t, &fakeGenerator{q: sampleQuestion()})

	rr := env.do(t, "POST", "/api/v1/quiz/question", gin.H{"category": "Neuroanatomy"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, "POST", "/api/v1/quiz/answer", gin.H{"answer": "A"})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Correct  bool   `json:"correct"`
		Feedback string `json:"feedback"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Correct)
	assert.Contains(t, resp.Feedback, "Incorrect. The correct answer was B.")
}

func TestHistory(t *testing.T) {
	env := setupQuizRouter(t, &fakeGenerator{q: sampleQuestion()})

	rr := env.do(t, "GET", "/api/v1/quiz/history", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"count":0`)

	env.do(t, "POST", "/api/v1/quiz/question", gin.H{"category": "Neuroanatomy"})
	env.do(t, "POST", "/api/v1/quiz/answer", gin.H{"answer": "B"})

	rr = env.do(t, "GET", "/api/v1/quiz/history", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		OK      bool           `json:"ok"`
		History []AnswerRecord `json:"history"`
		Count   int            `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.History, 1)
	assert.True(t, resp.History[0].IsCorrect)
}

func TestReset(t *testing.T) {
	env := setupQuizRouter(t, &fakeGenerator{q: sampleQuestion()})

	env.do(t, "POST", "/api/v1/quiz/question", gin.H{"category": "Neuroanatomy"})
	env.do(t, "POST", "/api/v1/quiz/answer", gin.H{"answer": "B"})
	env.do(t, "POST", "/api/v1/quiz/question", gin.H{"category": "Neuroanatomy"})

	rr := env.do(t, "POST", "/api/v1/quiz/reset", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	// History is gone and so is the pending question.
	rr = env.do(t, "GET", "/api/v1/quiz/history", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"count":0`)

	rr = env.do(t, "POST", "/api/v1/quiz/answer", gin.H{"answer": "B"})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestCategories(t *testing.T) {
	env := setupQuizRouter(t, &fakeGenerator{q: sampleQuestion()})

	rr := env.do(t, "GET", "/api/v1/quiz/categories", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Categories []string `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, Categories, resp.Categories)
}
