package driving

import (
	"context"

	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
)

// AnswerService resolves policy questions against the loaded knowledge
// corpus.
type AnswerService interface {
	// BuildAnswer answers a question from the corpus. It always returns
	// an answer; when nothing relevant is found the answer text is the
	// fixed refusal line.
	BuildAnswer(ctx context.Context, query domain.Query) *domain.Answer

	// BuildGroundedPrompt renders the LLM prompt that would be used for
	// the given question and source chunks, without calling a generator.
	BuildGroundedPrompt(question string, sources []domain.KnowledgeChunk) string
}
