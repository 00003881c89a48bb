package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"bookrag/internal/domain"
	"bookrag/internal/port"
)

const demoExcerptLen = 100

const quotaMessage = `The AI provider reports its usage quota is exhausted.

To keep chatting you can:
1. Switch to Gemini's free tier: get a key at https://aistudio.google.com/apikey and set generation.provider to "gemini"
2. Add credits to your current provider account and retry later

Your question was not lost; ask it again once a provider is available.`

const genericFailureMessage = `Something went wrong while generating a response.

Please check the provider configuration, or enable demo mode to get canned answers without an AI provider.`

// Generator produces the response text for an assembled prompt. It never
// returns an error: with no live provider it renders a deterministic demo
// response, and live provider failures collapse into user-facing fallback
// text. The underlying cause is logged before the friendly string goes out.
type Generator struct {
	llm    port.LLM // nil means demo mode
	params port.GenerationParams
	log    *slog.Logger
}

func NewGenerator(llm port.LLM, params port.GenerationParams, log *slog.Logger) *Generator {
	if log == nil {
		log = slog.Default()
	}
	return &Generator{llm: llm, params: params, log: log}
}

// Live reports whether a provider is configured.
func (g *Generator) Live() bool {
	return g.llm != nil
}

// Generate returns the assistant's reply for the prompt. snippets carries
// the context that went into the prompt so the demo path can echo an
// excerpt of it.
func (g *Generator) Generate(ctx context.Context, prompt domain.Prompt, snippets []domain.ContextSnippet) string {
	if g.llm == nil {
		return demoResponse(prompt.User, snippets)
	}

	text, err := g.llm.Complete(ctx, prompt, g.params)
	if err != nil {
		g.log.Error("generation failed", "model", g.llm.ModelName(), "error", err)
		if isQuotaError(err) {
			return quotaMessage
		}
		return genericFailureMessage
	}
	if text == "" {
		g.log.Warn("provider returned empty completion", "model", g.llm.ModelName())
		return genericFailureMessage
	}
	return text
}

// demoResponse is the guaranteed-available path. It is labeled as non-AI
// output and reflects whether context was supplied.
func demoResponse(userMessage string, snippets []domain.ContextSnippet) string {
	if len(snippets) > 0 && snippets[0].Text != "" {
		excerpt := snippets[0].Text
		if len(excerpt) > demoExcerptLen {
			excerpt = excerpt[:demoExcerptLen]
		}
		return fmt.Sprintf(`Demo mode response (no AI provider configured)

You asked: %q

Based on this passage: %q...

This is a canned answer generated without any AI call. Configure a Gemini or OpenAI API key to get real, context-aware responses.`, userMessage, excerpt)
	}

	return fmt.Sprintf(`Demo mode response (no AI provider configured)

You asked: %q

No book passages were retrieved for this question. Configure a Gemini or OpenAI API key to get real, context-aware responses.`, userMessage)
}

// quota and rate-limit failures have no clean error code across providers;
// classification matches on the message text.
var quotaPatterns = []string{
	"quota",
	"429",
	"rate limit",
	"insufficient_quota",
	"resource exhausted",
	"resource_exhausted",
}

func isQuotaError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, p := range quotaPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
