// Package prompt resolves instruction templates against the shared session
// state. Placeholders use `{key}` or `{key[subkey]}` syntax; an unresolved
// placeholder is a configuration error, never a runtime condition to recover
// from.
package prompt

import (
	"fmt"
	"strings"
)

// ErrUnresolved wraps placeholder resolution failures so callers can classify
// them as configuration errors.
type ErrUnresolved struct {
	Placeholder string
}

func (e *ErrUnresolved) Error() string {
	return fmt.Sprintf("instruction template references unresolved state key %q", e.Placeholder)
}

// Resolver looks up a key (and optional one-level subkey) from a state
// snapshot.
type Resolver interface {
	Lookup(key, subkey string) (string, bool)
}

// Resolve fills every placeholder in the template from the resolver. Brace
// runs that do not form a well-formed placeholder (JSON examples, LaTeX) pass
// through untouched; only identifier-shaped placeholders are resolved, and a
// missing key for one of those fails.
func Resolve(template string, res Resolver) (string, error) {
	var b strings.Builder
	b.Grow(len(template))

	for i := 0; i < len(template); {
		ch := template[i]
		if ch != '{' {
			b.WriteByte(ch)
			i++
			continue
		}

		// Literal escaped brace.
		if i+1 < len(template) && template[i+1] == '{' {
			b.WriteByte('{')
			i += 2
			continue
		}

		end := strings.IndexByte(template[i:], '}')
		if end < 0 {
			b.WriteString(template[i:])
			break
		}
		body := template[i+1 : i+end]

		key, subkey, ok := parsePlaceholder(body)
		if !ok {
			b.WriteString(template[i : i+end+1])
			i += end + 1
			continue
		}

		value, found := res.Lookup(key, subkey)
		if !found {
			return "", &ErrUnresolved{Placeholder: body}
		}
		b.WriteString(value)
		i += end + 1
	}

	return b.String(), nil
}

// Placeholders returns the identifier-shaped placeholders referenced by the
// template, in order of first appearance.
func Placeholders(template string) []string {
	var out []string
	seen := make(map[string]bool)
	for i := 0; i < len(template); {
		if template[i] != '{' {
			i++
			continue
		}
		if i+1 < len(template) && template[i+1] == '{' {
			i += 2
			continue
		}
		end := strings.IndexByte(template[i:], '}')
		if end < 0 {
			break
		}
		body := template[i+1 : i+end]
		if _, _, ok := parsePlaceholder(body); ok && !seen[body] {
			seen[body] = true
			out = append(out, body)
		}
		i += end + 1
	}
	return out
}

func parsePlaceholder(body string) (key, subkey string, ok bool) {
	if body == "" {
		return "", "", false
	}
	key = body
	if open := strings.IndexByte(body, '['); open >= 0 {
		if !strings.HasSuffix(body, "]") {
			return "", "", false
		}
		key = body[:open]
		subkey = body[open+1 : len(body)-1]
		if subkey == "" || !identifier(subkey) {
			return "", "", false
		}
	}
	if !identifier(key) {
		return "", "", false
	}
	return key, subkey, true
}

func identifier(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return false
		}
	}
	return len(s) > 0
}
