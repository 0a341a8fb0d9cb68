/*
Package attendee holds the attendee records that drive page generation and
the loader for the data file they live in. Records are read once and are
treated as immutable afterwards.
*/
package attendee

import (
	"errors"
	"fmt"
	"strings"
)

// Attendee is a single guest. Slug names the output directory and must be
// unique across a list.
type Attendee struct {
	Name                 string `json:"name" toml:"name"`
	Slug                 string `json:"slug" toml:"slug"`
	Accommodation        string `json:"accommodation,omitempty" toml:"accommodation"`
	AccommodationMessage string `json:"accommodation_message,omitempty" toml:"accommodation_message"`
}

// HasMessage reports whether a custom accommodation message is set.
func (a Attendee) HasMessage() bool {
	return a.AccommodationMessage != ""
}

// HasHost reports whether a host/place description is set.
func (a Attendee) HasHost() bool {
	return a.Accommodation != ""
}

// document is the on-disk shape of the data file.
type document struct {
	Attendees []Attendee `json:"attendees" toml:"attendees"`
}

// checkSlugs enforces that every slug is a single, unique path segment.
func checkSlugs(list []Attendee) error {
	seen := make(map[string]int, len(list))
	for i, a := range list {
		if err := validSlug(a.Slug); err != nil {
			return fmt.Errorf("attendee %d (%q): %w", i, a.Name, err)
		}
		if prev, ok := seen[a.Slug]; ok {
			return fmt.Errorf("attendee %d (%q): slug %q already used by attendee %d", i, a.Name, a.Slug, prev)
		}
		seen[a.Slug] = i
	}
	return nil
}

func validSlug(slug string) error {
	if slug == "" {
		return errors.New("empty slug")
	}
	if slug == "." || slug == ".." || strings.ContainsAny(slug, `/\`) {
		return fmt.Errorf("slug %q is not a single path segment", slug)
	}
	return nil
}
