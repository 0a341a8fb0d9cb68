package attendee

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/xeipuuv/gojsonschema"
)

// documentSchema describes the attendee file regardless of its encoding.
const documentSchema = `{
  "type": "object",
  "required": ["attendees"],
  "properties": {
    "attendees": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "slug"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "slug": {"type": "string", "minLength": 1},
          "accommodation": {"type": ["string", "null"]},
          "accommodation_message": {"type": ["string", "null"]}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(documentSchema)

// Load reads the attendee list from path. Files ending in .toml are decoded
// as TOML, everything else as JSON. The list is returned in file order.
func Load(path string) ([]Attendee, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read attendee file: %w", err)
	}

	var raw map[string]any
	var doc document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err = toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse attendee file: %w", err)
		}
		if err = validate(raw); err != nil {
			return nil, err
		}
		if err = toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode attendees: %w", err)
		}
	default:
		if err = json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse attendee file: %w", err)
		}
		if err = validate(raw); err != nil {
			return nil, err
		}
		if err = json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode attendees: %w", err)
		}
	}

	if err = checkSlugs(doc.Attendees); err != nil {
		return nil, err
	}
	return doc.Attendees, nil
}

// validate checks a decoded document against documentSchema and folds every
// schema violation into a single error.
func validate(raw map[string]any) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return fmt.Errorf("failed to validate attendee file: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("invalid attendee file: %s", strings.Join(msgs, "; "))
}
