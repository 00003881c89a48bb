package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"bookrag/internal/adapter/cache"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestComplexityForDerivesFromExperience(t *testing.T) {
	cases := []struct {
		software, hardware string
		want               string
	}{
		{"beginner", "beginner", ComplexityBeginner},         // avg 1.0
		{"beginner", "intermediate", ComplexityIntermediate}, // avg 1.5, resolves up
		{"intermediate", "intermediate", ComplexityIntermediate},
		{"intermediate", "advanced", ComplexityAdvanced}, // avg 2.5
		{"advanced", "advanced", ComplexityAdvanced},
		{"advanced", "expert", ComplexityExpert}, // avg 3.5
		{"expert", "expert", ComplexityExpert},
		{"", "", ComplexityBeginner},             // unknown maps to 1
		{"EXPERT", "Expert", ComplexityExpert},   // case-insensitive
		{"nonsense", "expert", ComplexityAdvanced}, // (1+4)/2 = 2.5
	}
	for _, c := range cases {
		got := ComplexityFor(ReaderProfile{SoftwareExperience: c.software, HardwareExperience: c.hardware})
		if got != c.want {
			t.Errorf("ComplexityFor(%q, %q) = %q, want %q", c.software, c.hardware, got, c.want)
		}
	}
}

func TestComplexityForDeclaredOverride(t *testing.T) {
	p := ReaderProfile{SoftwareExperience: "expert", HardwareExperience: "expert", DeclaredComplexity: "beginner"}
	if got := ComplexityFor(p); got != ComplexityBeginner {
		t.Errorf("declared level must win, got %q", got)
	}

	p.DeclaredComplexity = "auto"
	if got := ComplexityFor(p); got != ComplexityExpert {
		t.Errorf("\"auto\" must derive from experience, got %q", got)
	}
}

func TestPersonalizeCachesByProfile(t *testing.T) {
	kv := newMemKV()
	cc := cache.NewContentCache(kv, "personalized", discardLogger())
	llm := &stubLLM{out: "adapted content"}
	p := NewPersonalizer(cc, llm, discardLogger())

	profile := ReaderProfile{UserID: "u1", SoftwareExperience: "advanced", HardwareExperience: "advanced"}

	first, err := p.Personalize(context.Background(), "# Chapter", "ch/01.md", profile)
	if err != nil {
		t.Fatalf("Personalize: %v", err)
	}
	if first.Cached {
		t.Error("first call must be a cache miss")
	}
	if first.Content != "adapted content" {
		t.Errorf("unexpected content %q", first.Content)
	}
	if first.Complexity != ComplexityAdvanced {
		t.Errorf("unexpected complexity %q", first.Complexity)
	}

	second, err := p.Personalize(context.Background(), "# Chapter", "ch/01.md", profile)
	if err != nil {
		t.Fatalf("Personalize: %v", err)
	}
	if !second.Cached {
		t.Error("second call must hit the cache")
	}
	if llm.calls != 1 {
		t.Errorf("provider must not be called on a cache hit, got %d calls", llm.calls)
	}

	// A different reader gets a fresh computation for the same content.
	other := profile
	other.UserID = "u2"
	third, err := p.Personalize(context.Background(), "# Chapter", "ch/01.md", other)
	if err != nil {
		t.Fatalf("Personalize: %v", err)
	}
	if third.Cached {
		t.Error("different user must not share the cache entry")
	}
	if llm.calls != 2 {
		t.Errorf("expected a second provider call, got %d", llm.calls)
	}
}

func TestPersonalizeDemoMode(t *testing.T) {
	cc := cache.NewContentCache(newMemKV(), "personalized", discardLogger())
	p := NewPersonalizer(cc, nil, discardLogger())

	profile := ReaderProfile{UserID: "u1", SoftwareExperience: "beginner", HardwareExperience: "beginner"}
	res, err := p.Personalize(context.Background(), "original body", "ch/01.md", profile)
	if err != nil {
		t.Fatalf("Personalize: %v", err)
	}
	if !strings.Contains(res.Content, "original body") {
		t.Error("demo rendering must preserve the original content")
	}
	if !strings.Contains(res.Content, "Beginner") {
		t.Error("demo rendering should state the profile")
	}
	if !strings.Contains(res.Content, "Simplified for beginners") {
		t.Error("beginner rendering should carry the simplification note")
	}
}

func TestPersonalizeProviderFailureFallsBack(t *testing.T) {
	cc := cache.NewContentCache(newMemKV(), "personalized", discardLogger())
	llm := &stubLLM{err: errors.New("provider down")}
	p := NewPersonalizer(cc, llm, discardLogger())

	profile := ReaderProfile{UserID: "u1", SoftwareExperience: "expert", HardwareExperience: "expert"}
	res, err := p.Personalize(context.Background(), "body", "ch/01.md", profile)
	if err != nil {
		t.Fatalf("Personalize: %v", err)
	}
	if res.Content == "" || !strings.Contains(res.Content, "body") {
		t.Errorf("fallback rendering must still include the content, got %q", res.Content)
	}
}
