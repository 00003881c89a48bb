package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"bookrag/internal/adapter/cache"
	"bookrag/internal/domain"
	"bookrag/internal/port"
)

var languageNames = map[string]string{
	"en": "English",
	"ur": "Urdu",
	"ar": "Arabic",
	"es": "Spanish",
	"zh": "Chinese",
}

// Translator renders chapter content into another language. Results are
// cached by content hash plus the exact (source, target) language pair.
// Translation uses a lower temperature than chat for accuracy.
type Translator struct {
	cache  *cache.ContentCache
	llm    port.LLM // nil means demo mode
	params port.GenerationParams
	log    *slog.Logger
}

func NewTranslator(c *cache.ContentCache, llm port.LLM, log *slog.Logger) *Translator {
	if log == nil {
		log = slog.Default()
	}
	return &Translator{
		cache:  c,
		llm:    llm,
		params: port.GenerationParams{Temperature: 0.3, MaxOutputTokens: 2000},
		log:    log,
	}
}

// TranslateResult carries the translation and cache provenance.
type TranslateResult struct {
	Content string
	Cached  bool
}

func (t *Translator) Translate(ctx context.Context, content, sourceLang, targetLang string) (TranslateResult, error) {
	if sourceLang == "" {
		sourceLang = "en"
	}
	if targetLang == "" {
		targetLang = "ur"
	}

	value, cached, err := t.cache.GetOrCompute(ctx, content, []string{sourceLang, targetLang}, func(ctx context.Context) (string, error) {
		return t.render(ctx, content, sourceLang, targetLang), nil
	})
	if err != nil {
		return TranslateResult{}, err
	}
	return TranslateResult{Content: value, Cached: cached}, nil
}

func (t *Translator) render(ctx context.Context, content, sourceLang, targetLang string) string {
	if t.llm == nil {
		return demoTranslate(content, targetLang)
	}

	prompt := domain.Prompt{
		System: translateSystemPrompt(sourceLang, targetLang),
		User:   "Translate this content:\n\n" + content,
	}
	out, err := t.llm.Complete(ctx, prompt, t.params)
	if err != nil || out == "" {
		t.log.Warn("translation provider failed, using demo rendering", "error", err)
		return demoTranslate(content, targetLang)
	}
	return out
}

func translateSystemPrompt(sourceLang, targetLang string) string {
	targetName := languageNames[targetLang]
	if targetName == "" {
		targetName = targetLang
	}
	return fmt.Sprintf(`You are a professional translator specializing in technical documentation.
Translate the following technical content from %s to %s.

Requirements:
1. Maintain markdown formatting
2. Keep code snippets and technical terms in English
3. Translate explanatory text accurately
4. Preserve headings, lists, and structure
5. Use appropriate technical terminology in %s
6. Keep proper nouns and product names in English`, sourceLang, targetName, targetName)
}

const demoTranslateExcerptLen = 200

func demoTranslate(content, targetLang string) string {
	targetName := languageNames[targetLang]
	if targetName == "" {
		targetName = targetLang
	}

	excerpt := content
	if len(excerpt) > demoTranslateExcerptLen {
		excerpt = excerpt[:demoTranslateExcerptLen] + "..."
	}

	return fmt.Sprintf(`# Translated content (demo mode)

**Target language: %s**

%s

---
*This is a demo-mode translation; the content is unchanged. Configure an AI provider to get a real %s translation.*

**Original excerpt:**
%s`, targetName, content, targetName, excerpt)
}
