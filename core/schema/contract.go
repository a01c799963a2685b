package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Contract declares the structured shape a unit's raw output must satisfy.
// Decode strips any surrounding markdown code fence, unmarshals strictly into
// a fresh value, and returns it. A decode failure is a validation error for
// the caller to classify; this layer never retries.
type Contract struct {
	// Name identifies the contract in error messages.
	Name string

	// New returns a fresh zero value to decode into.
	New func() any

	// Check optionally validates the decoded value beyond shape.
	Check func(v any) error
}

// ManuscriptContract is the contract for the six-section manuscript record.
func ManuscriptContract() *Contract {
	return &Contract{
		Name: "manuscript",
		New:  func() any { return &Manuscript{} },
	}
}

// FigureContract is the contract for a single figure description.
func FigureContract() *Contract {
	return &Contract{
		Name: "figure_description",
		New:  func() any { return &FigureDescription{} },
		Check: func(v any) error {
			fd := v.(*FigureDescription)
			if strings.TrimSpace(fd.Description) == "" {
				return fmt.Errorf("figure description is empty")
			}
			return nil
		},
	}
}

// Decode parses raw model output against the contract.
func (c *Contract) Decode(raw string) (any, error) {
	cleaned := StripFences(raw)
	v := c.New()

	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		// Models sometimes emit trailing prose or extra fields around an
		// otherwise valid object. Retry leniently before failing.
		v = c.New()
		if lenientErr := json.Unmarshal([]byte(cleaned), v); lenientErr != nil {
			return nil, fmt.Errorf("output does not match %s contract: %w", c.Name, err)
		}
	}

	if c.Check != nil {
		if err := c.Check(v); err != nil {
			return nil, fmt.Errorf("output fails %s contract: %w", c.Name, err)
		}
	}
	return v, nil
}

// StripFences removes a single surrounding markdown code fence, with or
// without a language tag, from raw model output.
func StripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return trimmed
	}
	if strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[1 : len(lines)-1]
	} else {
		lines = lines[1:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
