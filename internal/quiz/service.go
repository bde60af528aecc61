package quiz

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/brainbee-training/brainbee-backend/internal/llm"
)

// ContentRetriever supplies grounding text for a category. An empty string is
// a valid result: the generator then falls back to the context-free prompt.
type ContentRetriever interface {
	RelevantContent(ctx context.Context, category string) (string, error)
}

// Bank is the persisted question store used for fallback and archiving.
type Bank interface {
	Save(ctx context.Context, q *Question) error
	RandomByCategory(ctx context.Context, category string) (*Question, error)
}

type Service struct {
	llm       llm.Client
	retriever ContentRetriever
	bank      Bank
}

func NewService(client llm.Client, retriever ContentRetriever, bank Bank) *Service {
	return &Service{llm: client, retriever: retriever, bank: bank}
}

// NewQuestion generates a fresh question for the category. Generation or parse
// failures degrade to a random bank question before surfacing an error.
func (s *Service) NewQuestion(ctx context.Context, category string) (*Question, error) {
	if !ValidCategory(category) {
		return nil, fmt.Errorf("quiz: unknown category %q", category)
	}

	q, genErr := s.generate(ctx, category)
	if genErr == nil {
		s.archive(q)
		return q, nil
	}
	log.Printf("[quiz] generation failed category=%q err=%v, trying question bank", category, genErr)

	if s.bank != nil {
		bq, bankErr := s.bank.RandomByCategory(ctx, category)
		if bankErr == nil {
			return bq, nil
		}
		log.Printf("[quiz] bank fallback failed category=%q err=%v", category, bankErr)
	}

	return nil, fmt.Errorf("quiz: generate question: %w", genErr)
}

func (s *Service) generate(ctx context.Context, category string) (*Question, error) {
	content := ""
	if s.retriever != nil {
		c, err := s.retriever.RelevantContent(ctx, category)
		if err != nil {
			log.Printf("[quiz] retrieval failed category=%q err=%v, generating without context", category, err)
		} else {
			content = c
		}
	}

	resp, err := s.llm.Chat(ctx, systemPrompt(category), userPrompt(category, content),
		llm.WithTemperature(0.6), llm.WithTopP(0.85), llm.WithMaxTokens(1000))
	if err != nil {
		return nil, err
	}

	q, err := ParseResponse(resp)
	if err != nil {
		return nil, err
	}

	q.ID = uuid.New().String()
	q.Category = category
	q.Source = "generated"
	q.CreatedAt = time.Now().UTC()
	return q, nil
}

// archive stores a generated question in the bank, best effort. The bank only
// feeds fallbacks, so a write failure must never block serving the question.
func (s *Service) archive(q *Question) {
	if s.bank == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.bank.Save(ctx, q); err != nil {
			log.Printf("[quiz] archive question failed id=%s err=%v", q.ID, err)
		}
	}()
}
