package templating

import (
	"strings"
	"unicode"

	"github.com/CTAG07/pagegen/pkg/attendee"
)

// Branch identifies which alternative of the accommodation region an
// attendee resolves to.
type Branch int

const (
	BranchMessage Branch = iota
	BranchHost
	BranchFallback
)

func (b Branch) String() string {
	switch b {
	case BranchMessage:
		return "message"
	case BranchHost:
		return "host"
	default:
		return "fallback"
	}
}

// SelectBranch applies the fixed precedence: message, then host, then fallback.
func SelectBranch(a attendee.Attendee) Branch {
	switch {
	case a.HasMessage():
		return BranchMessage
	case a.HasHost():
		return BranchHost
	default:
		return BranchFallback
	}
}

// Template is a page template split once into the text before the
// accommodation region, the region itself, and the text after it.
// A Template is immutable and safe for concurrent use.
type Template struct {
	config    TemplateConfig
	prefix    string
	suffix    string
	fallback  string
	hasRegion bool
}

// Parse splits src around the first OpenMarker and the first CloseMarker
// following it. If either marker is missing the whole source becomes the
// prefix and only name substitution applies when rendering.
func Parse(src string, config TemplateConfig) *Template {
	config = config.withDefaults()
	t := &Template{config: config, prefix: src, fallback: config.FallbackBlock}

	open := strings.Index(src, config.OpenMarker)
	if open < 0 {
		return t
	}
	bodyStart := open + len(config.OpenMarker)
	closeAt := strings.Index(src[bodyStart:], config.CloseMarker)
	if closeAt < 0 {
		return t
	}
	region := src[bodyStart : bodyStart+closeAt]

	t.prefix = src[:open]
	t.suffix = src[bodyStart+closeAt+len(config.CloseMarker):]
	t.hasRegion = true

	if i := strings.Index(region, config.ElseMarker); i >= 0 {
		if own := strings.TrimLeftFunc(region[i+len(config.ElseMarker):], unicode.IsSpace); strings.TrimSpace(own) != "" {
			t.fallback = own
		}
	}
	return t
}

// HasRegion reports whether the accommodation region was found.
func (t *Template) HasRegion() bool {
	return t.hasRegion
}

// Render produces the page for a. The output is a pure function of the
// template and the attendee.
func (t *Template) Render(a attendee.Attendee) string {
	var b strings.Builder
	b.Grow(len(t.prefix) + len(t.suffix) + len(t.fallback))

	b.WriteString(t.substitute(t.prefix, a.Name))
	if !t.hasRegion {
		return b.String()
	}
	b.WriteString(t.block(a))
	b.WriteString(t.substitute(t.suffix, a.Name))
	return b.String()
}

func (t *Template) substitute(s, name string) string {
	return strings.ReplaceAll(s, t.config.NamePlaceholder, name)
}

// block resolves the region for a. Attendee values are inserted in a single
// pass so they are never themselves scanned for tokens.
func (t *Template) block(a attendee.Attendee) string {
	switch SelectBranch(a) {
	case BranchMessage:
		return strings.NewReplacer(messageToken, a.AccommodationMessage).Replace(t.config.MessageBlock)
	case BranchHost:
		return strings.NewReplacer(nameToken, a.Name, hostToken, a.Accommodation).Replace(t.config.HostBlock)
	default:
		return t.substitute(t.fallback, a.Name)
	}
}
