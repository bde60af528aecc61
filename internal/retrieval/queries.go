package retrieval

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/brainbee-training/brainbee-backend/internal/llm"
)

// Chatter is the chat slice of the LLM client used for query expansion.
type Chatter interface {
	Chat(ctx context.Context, system, user string, opts ...llm.ChatOption) (string, error)
}

const maxExpandedQueries = 5

const queryExpansionSystem = "You are a neuroscience expert helping to find relevant content."

func queryExpansionPrompt(category string) string {
	return fmt.Sprintf(`You are a neuroscience expert. For the category "%s", generate 3-5 search queries that would help find the most relevant content in a neuroscience textbook.

Focus on:
- Key concepts and terminology specific to %s
- Anatomical structures related to %s
- Functional aspects of %s
- Clinical or research applications

Return only the queries, one per line, no explanations.

Examples for "Sensory system":
vision receptors
auditory processing
somatosensory pathways
sensory cortex function
perception mechanisms`, category, category, category, category)
}

// SmartQueries asks the model for category-specific search queries. The
// category name itself always leads the list, and any failure collapses to
// just the category so retrieval can proceed.
func SmartQueries(ctx context.Context, chatter Chatter, category string) []string {
	if chatter == nil {
		return []string{category}
	}

	resp, err := chatter.Chat(ctx, queryExpansionSystem, queryExpansionPrompt(category),
		llm.WithTemperature(0.7), llm.WithMaxTokens(200))
	if err != nil {
		log.Printf("[retrieval] query expansion failed category=%q err=%v", category, err)
		return []string{category}
	}

	queries := []string{category}
	for _, line := range strings.Split(resp, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*• \t"))
		if line == "" || line == category {
			continue
		}
		queries = append(queries, line)
		if len(queries) > maxExpandedQueries {
			break
		}
	}
	return queries
}
