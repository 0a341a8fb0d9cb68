package templating

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CTAG07/pagegen/pkg/attendee"
)

// loadTestTemplate parses testdata/personal_page.html with the default config.
func loadTestTemplate(tb testing.TB) *Template {
	tb.Helper()
	src, err := os.ReadFile(filepath.Join("testdata", "personal_page.html"))
	if err != nil {
		tb.Fatalf("failed to read test template: %v", err)
	}
	t := Parse(string(src), DefaultConfig())
	if !t.HasRegion() {
		tb.Fatal("test template should contain an accommodation region")
	}
	return t
}

// assertNoTokens fails if any placeholder or marker syntax survived rendering.
func assertNoTokens(t *testing.T, out string) {
	t.Helper()
	for _, tok := range []string{"{%", "%}", "{{", "}}"} {
		if strings.Contains(out, tok) {
			t.Errorf("output still contains %q:\n%s", tok, out)
		}
	}
}

func TestSelectBranch(t *testing.T) {
	tests := []struct {
		name string
		a    attendee.Attendee
		want Branch
	}{
		{"MessageOnly", attendee.Attendee{AccommodationMessage: "m"}, BranchMessage},
		{"MessageWinsOverHost", attendee.Attendee{AccommodationMessage: "m", Accommodation: "h"}, BranchMessage},
		{"HostOnly", attendee.Attendee{Accommodation: "h"}, BranchHost},
		{"Neither", attendee.Attendee{}, BranchFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectBranch(tt.a); got != tt.want {
				t.Errorf("SelectBranch() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	tmpl := loadTestTemplate(t)

	t.Run("Message", func(t *testing.T) {
		out := tmpl.Render(attendee.Attendee{Name: "Alice", Slug: "alice", AccommodationMessage: "Staying with the Smiths"})
		assertNoTokens(t, out)
		if !strings.Contains(out, "<p>Staying with the Smiths</p>") {
			t.Errorf("message paragraph missing:\n%s", out)
		}
		if strings.Contains(out, "coming-soon") || strings.Contains(out, "planned your stay") {
			t.Error("only the message branch should be emitted")
		}
		if n := strings.Count(out, "Alice"); n != 3 {
			t.Errorf("expected 3 occurrences of the name, got %d", n)
		}
	})

	t.Run("Host", func(t *testing.T) {
		out := tmpl.Render(attendee.Attendee{Name: "Bob", Slug: "bob", Accommodation: "Jordan"})
		assertNoTokens(t, out)
		if !strings.Contains(out, "Hey Bob! Thanks again for joining") {
			t.Errorf("greeting missing:\n%s", out)
		}
		if !strings.Contains(out, "We have planned your stay with: <strong>Jordan</strong></p>\n        <p>Please let us know if this is okay for you.</p>") {
			t.Errorf("host paragraphs missing:\n%s", out)
		}
		if strings.Contains(out, "coming-soon") {
			t.Error("fallback should not be emitted for a host attendee")
		}
	})

	t.Run("Fallback", func(t *testing.T) {
		out := tmpl.Render(attendee.Attendee{Name: "Kathy", Slug: "kathy"})
		assertNoTokens(t, out)
		want := "<div class=\"coming-soon\">\n            <p>Accommodation details coming soon, Kathy!</p>\n        </div>"
		if !strings.Contains(out, want) {
			t.Errorf("fallback block missing:\n%s", out)
		}
		if strings.Count(out, "coming-soon") != 1 {
			t.Error("fallback block should appear exactly once")
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		a := attendee.Attendee{Name: "Bob", Slug: "bob", Accommodation: "Jordan"}
		if tmpl.Render(a) != tmpl.Render(a) {
			t.Error("rendering the same attendee twice should be byte-identical")
		}
	})

	t.Run("ValuesAreVerbatim", func(t *testing.T) {
		out := tmpl.Render(attendee.Attendee{Name: "Eve", AccommodationMessage: "<b>{{ name }}</b> & {% endif %}"})
		if !strings.Contains(out, "<p><b>{{ name }}</b> & {% endif %}</p>") {
			t.Errorf("message was altered:\n%s", out)
		}
		out = tmpl.Render(attendee.Attendee{Name: "$1 {{ accommodation }}", Accommodation: "{{ name }}"})
		if !strings.Contains(out, "Hey $1 {{ accommodation }}!") || !strings.Contains(out, "<strong>{{ name }}</strong>") {
			t.Errorf("host values were altered:\n%s", out)
		}
	})
}

func TestParse(t *testing.T) {
	t.Run("NoRegion", func(t *testing.T) {
		tmpl := Parse("<h1>{{ name }}</h1>{{ name }}", DefaultConfig())
		if tmpl.HasRegion() {
			t.Fatal("HasRegion should be false without markers")
		}
		if out := tmpl.Render(attendee.Attendee{Name: "Ann"}); out != "<h1>Ann</h1>Ann" {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("UnclosedRegion", func(t *testing.T) {
		src := "a {% if accommodation_message %} b {{ name }}"
		tmpl := Parse(src, DefaultConfig())
		if tmpl.HasRegion() {
			t.Fatal("an unclosed region should be ignored")
		}
		if out := tmpl.Render(attendee.Attendee{Name: "Ann"}); out != "a {% if accommodation_message %} b Ann" {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("ConfiguredFallback", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.FallbackBlock = "<p>soon</p>"
		tmpl := Parse("[{% if accommodation_message %}x{% elif accommodation %}y{% endif %}]", cfg)
		if out := tmpl.Render(attendee.Attendee{Name: "Ann"}); out != "[<p>soon</p>]" {
			t.Errorf("unexpected output %q", out)
		}
		if out := tmpl.Render(attendee.Attendee{Name: "Ann", AccommodationMessage: "hi"}); out != "[<p>hi</p>]" {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("BlankElse", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.FallbackBlock = "<p>soon</p>"
		tmpl := Parse("[{% if accommodation_message %}x{% else %}  \n\t {% endif %}]", cfg)
		if !tmpl.HasRegion() {
			t.Fatal("region should be found")
		}
		if out := tmpl.Render(attendee.Attendee{Name: "Ann"}); out != "[<p>soon</p>]" {
			t.Errorf("a blank else branch should use the configured fallback, got %q", out)
		}
	})

	t.Run("CustomMarkers", func(t *testing.T) {
		cfg := TemplateConfig{
			NamePlaceholder: "%NAME%",
			OpenMarker:      "<!--if-->",
			ElseMarker:      "<!--else-->",
			CloseMarker:     "<!--end-->",
		}
		tmpl := Parse("%NAME%:<!--if-->a<!--else--> none<!--end-->", cfg)
		if out := tmpl.Render(attendee.Attendee{Name: "Ann"}); out != "Ann:none" {
			t.Errorf("unexpected output %q", out)
		}
	})
}

func BenchmarkRender(b *testing.B) {
	tmpl := loadTestTemplate(b)
	a := attendee.Attendee{Name: "Bob", Slug: "bob", Accommodation: "Jordan"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tmpl.Render(a)
	}
}
