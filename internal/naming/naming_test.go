package naming

import (
	"testing"

	"github.com/firefly-engineering/agentspaces/internal/errors"
)

func TestGenerate_FirstAttempt(t *testing.T) {
	g := New()
	calls := 0

	name, err := g.Generate(func(string) bool {
		calls++
		return false
	})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if calls != 1 {
		t.Errorf("exists called %d times, want 1", calls)
	}
	if !IsValidGeneratedForm(name) {
		t.Errorf("generated name %q is not in adjective-noun form", name)
	}
}

func TestGenerate_NilExistsCheck(t *testing.T) {
	name, err := New().Generate(nil)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if name == "" {
		t.Error("expected a name")
	}
}

func TestGenerate_Exhaustion(t *testing.T) {
	tests := []struct {
		name        string
		maxAttempts int
		wantCalls   int
	}{
		{"default", 0, DefaultMaxAttempts},
		{"custom", 5, 5},
		{"one", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			g.MaxAttempts = tt.maxAttempts
			calls := 0

			_, err := g.Generate(func(string) bool {
				calls++
				return true
			})
			if !errors.IsKind(err, errors.KindNameExhaustion) {
				t.Fatalf("error = %v, want NameExhaustion", err)
			}
			if calls != tt.wantCalls {
				t.Errorf("exists called %d times, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestGenerate_SkipsExisting(t *testing.T) {
	g := NewSeeded(42)
	taken := map[string]bool{}
	first, _ := g.Generate(nil)
	taken[first] = true

	g = NewSeeded(42)
	second, err := g.Generate(func(n string) bool { return taken[n] })
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if second == first {
		t.Errorf("Generate returned taken name %q", second)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, _ := NewSeeded(7).Generate(nil)
	b, _ := NewSeeded(7).Generate(nil)
	if a != b {
		t.Errorf("same seed produced %q and %q", a, b)
	}
}

func TestIsValidGeneratedForm(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"eager-turing", true},
		{"bold-einstein", true},
		{"", false},
		{"eager", false},
		{"eager-turing-x", false},
		{"Eager-turing", false},
		{"eager-tur1ng", false},
		{"eager--turing", false},
		{"-turing", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidGeneratedForm(tt.name); got != tt.want {
				t.Errorf("IsValidGeneratedForm(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestVocabulary(t *testing.T) {
	if Combinations() < 1000 {
		t.Errorf("Combinations() = %d, want at least 1000", Combinations())
	}
	for _, list := range [][]string{adjectives, nouns} {
		seen := map[string]bool{}
		for _, w := range list {
			if seen[w] {
				t.Errorf("duplicate word %q", w)
			}
			seen[w] = true
			if !IsValidGeneratedForm(w + "-" + w) {
				t.Errorf("word %q is not lowercase alphabetic", w)
			}
		}
	}
}
