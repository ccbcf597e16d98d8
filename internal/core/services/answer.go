package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/sopsearch-cli/internal/assembler"
	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
	"github.com/custodia-labs/sopsearch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sopsearch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/sopsearch-cli/internal/knowledge"
	"github.com/custodia-labs/sopsearch-cli/internal/logger"
	"github.com/custodia-labs/sopsearch-cli/internal/ranker"
)

var _ driving.AnswerService = (*AnswerService)(nil)

// DefaultMinScore is the minimal top score below which the corpus is
// considered to hold nothing relevant and the refusal answer is used.
const DefaultMinScore = 35

// DefaultGenerationBudget is the per-minute cap on external
// generation calls.
const DefaultGenerationBudget = 8

// generationTimeout bounds one external generation call. On timeout
// the caller falls back to the already-computed synthesized answer.
const generationTimeout = 45 * time.Second

// groundedPromptTemplate restricts the generation step to the
// supplied context. The refusal phrase matches domain.RefusalAnswer
// so an honest model failure and an empty corpus read the same.
const groundedPromptTemplate = `You answer questions about operating-procedure policy.
Answer ONLY from the context below, in at most three short sentences.
If the context is empty or does not answer the question, reply exactly:
%s

Context:
%s

Question: %s
Answer:`

// AnswerService builds grounded answers for policy questions.
type AnswerService struct {
	store     *knowledge.Store
	ranker    *ranker.Ranker
	assembler *assembler.Assembler
	generator driven.Generator
	limiter   *rate.Limiter
	minScore  float64
}

// NewAnswerService creates a new answer service.
// The generator parameter is optional (can be nil); without it every
// answer is the synthesized form.
func NewAnswerService(
	store *knowledge.Store,
	rnk *ranker.Ranker,
	asm *assembler.Assembler,
	generator driven.Generator,
) *AnswerService {
	return &AnswerService{
		store:     store,
		ranker:    rnk,
		assembler: asm,
		generator: generator,
		limiter:   rate.NewLimiter(rate.Every(time.Minute/DefaultGenerationBudget), DefaultGenerationBudget),
		minScore:  DefaultMinScore,
	}
}

// SetGenerationBudget caps external generation calls per minute.
func (s *AnswerService) SetGenerationBudget(perMinute int) {
	if perMinute <= 0 {
		s.limiter = rate.NewLimiter(0, 0)
		return
	}
	s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

// SetMinScore sets the relevance threshold for the refusal answer.
func (s *AnswerService) SetMinScore(score float64) {
	s.minScore = score
}

// BuildAnswer answers one question from the corpus.
//
// The synthesized answer is always computed first; the external
// generation step is attempted only when a generator is configured,
// the query does not force offline mode, and the call budget allows
// it. Any generation failure falls back to the synthesized answer.
// The result is never an error the user sees: an empty or irrelevant
// corpus produces the fixed refusal answer with no sources.
func (s *AnswerService) BuildAnswer(ctx context.Context, query domain.Query) *domain.Answer {
	logger.Section("Answer Build")
	logger.Debug("Question: %q, market: %s, offline: %t",
		query.Question, query.Preference, query.ForceOffline)

	question := strings.TrimSpace(query.Question)
	if question == "" {
		return refusal()
	}

	chunks := s.store.Chunks()
	if len(chunks) == 0 {
		logger.Info("Empty corpus, returning refusal")
		return refusal()
	}

	ranked := s.ranker.Rank(question, query.Preference, chunks)
	if len(ranked) == 0 || ranked[0].Score < s.minScore {
		logger.Info("No chunk above threshold %.0f, returning refusal", s.minScore)
		return refusal()
	}
	logger.Debug("Top score: %.1f (%s)", ranked[0].Score, ranked[0].Chunk.Title)

	synthesized := s.assembler.Synthesize(ranked)
	if synthesized == "" {
		return refusal()
	}
	sources := s.assembler.Sources(ranked)

	if text, ok := s.tryGenerate(ctx, question, query, sources); ok {
		return &domain.Answer{Text: text, Sources: sources, Generated: true}
	}

	return &domain.Answer{Text: synthesized, Sources: sources}
}

// BuildGroundedPrompt renders the instruction and context block
// handed to the generation service.
func (s *AnswerService) BuildGroundedPrompt(question string, sources []domain.KnowledgeChunk) string {
	context := s.assembler.GroundedContext(sources)
	return fmt.Sprintf(groundedPromptTemplate, domain.RefusalAnswer, context, question)
}

// tryGenerate runs the optional external generation step. ok is false
// whenever the synthesized fallback should be used instead.
func (s *AnswerService) tryGenerate(
	ctx context.Context, question string, query domain.Query, sources []domain.KnowledgeChunk,
) (text string, ok bool) {
	if query.ForceOffline {
		logger.Debug("Offline mode forced, skipping generation")
		return "", false
	}
	if s.generator == nil {
		return "", false
	}
	if !s.limiter.Allow() {
		logger.Warn("Generation budget exhausted, using synthesized answer")
		return "", false
	}

	prompt := s.BuildGroundedPrompt(question, sources)
	logger.Debug("Generation prompt: %d chars, model %s", len(prompt), s.generator.ModelName())

	genCtx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	result, err := s.generator.Generate(genCtx, prompt, driven.GenerateOptions{
		MaxTokens:   512,
		Temperature: 0.2,
	})
	if err != nil {
		logger.Warn("Generation failed: %v (using synthesized answer)", err)
		return "", false
	}

	result = strings.TrimSpace(result)
	if !usableGeneration(result) {
		logger.Warn("Generation output unusable, using synthesized answer")
		return "", false
	}

	return result, true
}

// usableGeneration rejects generation output that is empty, echoes
// the instruction block, or fails a length sanity check.
func usableGeneration(text string) bool {
	if text == "" {
		return false
	}
	if len(text) > 4000 {
		return false
	}
	if strings.Contains(text, "Context:") && strings.Contains(text, "Question:") {
		return false
	}
	return true
}

// refusal is the fixed terminal answer: no sources, never generated.
func refusal() *domain.Answer {
	return &domain.Answer{Text: domain.RefusalAnswer}
}
