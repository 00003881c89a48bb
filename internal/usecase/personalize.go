package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"bookrag/internal/adapter/cache"
	"bookrag/internal/domain"
	"bookrag/internal/port"
)

// Complexity levels, ordered. Averaged experience maps onto them with
// thresholds at 1.5 / 2.5 / 3.5; boundary values resolve upward.
const (
	ComplexityBeginner     = "beginner"
	ComplexityIntermediate = "intermediate"
	ComplexityAdvanced     = "advanced"
	ComplexityExpert       = "expert"
)

var experienceLevels = map[string]int{
	ComplexityBeginner:     1,
	ComplexityIntermediate: 2,
	ComplexityAdvanced:     3,
	ComplexityExpert:       4,
}

// ReaderProfile describes who the content is being adapted for.
type ReaderProfile struct {
	UserID             string
	SoftwareExperience string
	HardwareExperience string
	// DeclaredComplexity overrides the derived level unless empty or "auto".
	DeclaredComplexity string
	Languages          string
	Industry           string
	Goals              string
}

// ComplexityFor returns the reader's target complexity level.
func ComplexityFor(p ReaderProfile) string {
	if p.DeclaredComplexity != "" && p.DeclaredComplexity != "auto" {
		return p.DeclaredComplexity
	}

	software := experienceLevels[strings.ToLower(p.SoftwareExperience)]
	if software == 0 {
		software = 1
	}
	hardware := experienceLevels[strings.ToLower(p.HardwareExperience)]
	if hardware == 0 {
		hardware = 1
	}
	avg := float64(software+hardware) / 2

	switch {
	case avg >= 3.5:
		return ComplexityExpert
	case avg >= 2.5:
		return ComplexityAdvanced
	case avg >= 1.5:
		return ComplexityIntermediate
	default:
		return ComplexityBeginner
	}
}

// Personalizer rewrites chapter content for a reader's level. Results are
// cached by content hash plus (user, chapter, complexity) discriminants;
// a cached entry is returned as-is without touching the provider.
type Personalizer struct {
	cache  *cache.ContentCache
	llm    port.LLM // nil means demo mode
	params port.GenerationParams
	log    *slog.Logger
}

func NewPersonalizer(c *cache.ContentCache, llm port.LLM, log *slog.Logger) *Personalizer {
	if log == nil {
		log = slog.Default()
	}
	return &Personalizer{
		cache:  c,
		llm:    llm,
		params: port.GenerationParams{Temperature: 0.7, MaxOutputTokens: 2000},
		log:    log,
	}
}

// PersonalizeResult carries the adapted content and cache provenance.
type PersonalizeResult struct {
	Content    string
	Complexity string
	Cached     bool
}

func (p *Personalizer) Personalize(ctx context.Context, content, chapterPath string, profile ReaderProfile) (PersonalizeResult, error) {
	complexity := ComplexityFor(profile)
	discriminants := []string{profile.UserID, chapterPath, complexity}

	value, cached, err := p.cache.GetOrCompute(ctx, content, discriminants, func(ctx context.Context) (string, error) {
		return p.render(ctx, content, profile, complexity), nil
	})
	if err != nil {
		return PersonalizeResult{}, err
	}
	return PersonalizeResult{Content: value, Complexity: complexity, Cached: cached}, nil
}

// render never fails: a live provider error falls back to the demo
// rendering so a value is always cached and returned.
func (p *Personalizer) render(ctx context.Context, content string, profile ReaderProfile, complexity string) string {
	if p.llm == nil {
		return demoPersonalize(content, profile, complexity)
	}

	prompt := domain.Prompt{
		System: personalizeSystemPrompt(profile, complexity),
		User:   "Personalize this content:\n\n" + content,
	}
	out, err := p.llm.Complete(ctx, prompt, p.params)
	if err != nil || out == "" {
		p.log.Warn("personalization provider failed, using demo rendering", "error", err)
		return demoPersonalize(content, profile, complexity)
	}
	return out
}

func personalizeSystemPrompt(profile ReaderProfile, complexity string) string {
	orUnspecified := func(s string) string {
		if s == "" {
			return "Not specified"
		}
		return s
	}
	return fmt.Sprintf(`You are personalizing technical content for a reader with:
- Software Experience: %s
- Hardware Experience: %s
- Target Complexity: %s
- Programming Languages: %s
- Industry: %s
- Goals: %s

Adjust the content to match their level:
- For beginners: Add more explanations, examples, and definitions
- For intermediate: Balance theory and practice
- For advanced/expert: Focus on nuances, best practices, and edge cases

Keep the same structure but adjust language and depth. Maintain markdown formatting.`,
		profile.SoftwareExperience, profile.HardwareExperience, complexity,
		orUnspecified(profile.Languages), orUnspecified(profile.Industry), orUnspecified(profile.Goals))
}

func demoPersonalize(content string, profile ReaderProfile, complexity string) string {
	var b strings.Builder
	b.WriteString("**Content personalized for you**\n\n")
	b.WriteString("**Your profile:**\n")
	fmt.Fprintf(&b, "- Software experience: %s\n", titleCase(profile.SoftwareExperience))
	fmt.Fprintf(&b, "- Hardware experience: %s\n", titleCase(profile.HardwareExperience))
	fmt.Fprintf(&b, "- Complexity level: %s\n\n---\n\n", titleCase(complexity))

	switch complexity {
	case ComplexityBeginner:
		b.WriteString("*Simplified for beginners - includes extra explanations*\n\n")
	case ComplexityExpert:
		b.WriteString("*Advanced content - assumes prior knowledge*\n\n")
	}

	b.WriteString(content)
	return b.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
