package interpreter

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/hyper-light/quill/core/schema"
)

// ParseOutline tries to read the input as a pre-structured outline: markdown
// whose top-level headings are exactly the manuscript section names. When it
// matches, the split is deterministic and no model call is needed. Any
// heading outside the section vocabulary, or content before the first
// heading, disqualifies the input.
func ParseOutline(input string) (*schema.Manuscript, bool) {
	source := []byte(input)
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	type mark struct {
		section   schema.Section
		lineStart int
		bodyStart int
	}

	var marks []mark

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		heading, ok := node.(*ast.Heading)
		if !ok || heading.Level > 2 {
			continue
		}
		if heading.Lines().Len() == 0 {
			return nil, false
		}

		seg := heading.Lines().At(0)
		name := strings.ToLower(strings.TrimSpace(string(source[seg.Start:seg.Stop])))

		section := schema.Section(name)
		if !section.Valid() {
			return nil, false
		}

		lineStart := seg.Start - heading.Level - 1
		if lineStart < 0 {
			lineStart = 0
		}

		marks = append(marks, mark{
			section:   section,
			lineStart: lineStart,
			bodyStart: seg.Stop,
		})
	}

	if len(marks) == 0 {
		return nil, false
	}

	if strings.TrimSpace(string(source[:marks[0].lineStart])) != "" {
		return nil, false
	}

	m := &schema.Manuscript{}

	for i, mk := range marks {
		end := len(source)
		if i+1 < len(marks) {
			end = marks[i+1].lineStart
		}

		body := strings.TrimSpace(string(source[mk.bodyStart:end]))
		if body == "" {
			continue
		}

		// Repeated headings for the same section concatenate.
		if existing := m.Get(mk.section); existing != "" {
			body = existing + "\n\n" + body
		}

		m.Set(mk.section, body)
	}

	if m.Empty() {
		return nil, false
	}

	return m, true
}
