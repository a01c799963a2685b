// Package schema defines the structured output contracts exchanged between
// prompt-driven units: the manuscript record, figure descriptions, and the
// decode/validate machinery applied to raw model output.
package schema

import "strings"

// Section identifies one manuscript section.
type Section string

const (
	SectionTitle        Section = "title"
	SectionAbstract     Section = "abstract"
	SectionIntroduction Section = "introduction"
	SectionResults      Section = "results"
	SectionDiscussion   Section = "discussion"
	SectionMethods      Section = "methods"
)

// Sections returns every section in document order (the order headings
// appear in an assembled manuscript).
func Sections() []Section {
	return []Section{
		SectionTitle,
		SectionAbstract,
		SectionIntroduction,
		SectionResults,
		SectionDiscussion,
		SectionMethods,
	}
}

// DraftOrder returns sections in drafting dependency order: later sections
// summarize earlier ones, so the abstract and title come last.
func DraftOrder() []Section {
	return []Section{
		SectionIntroduction,
		SectionResults,
		SectionMethods,
		SectionDiscussion,
		SectionAbstract,
		SectionTitle,
	}
}

// Heading returns the markdown heading used for the section when assembling
// the final document.
func (s Section) Heading() string {
	name := string(s)
	if name == "" {
		return "#"
	}
	return "# " + strings.ToUpper(name[:1]) + name[1:]
}

// Valid reports whether s names a known section.
func (s Section) Valid() bool {
	switch s {
	case SectionTitle, SectionAbstract, SectionIntroduction,
		SectionResults, SectionDiscussion, SectionMethods:
		return true
	}
	return false
}

// Manuscript is the fixed six-field manuscript record. Every field is an
// independently optional string; absence is always the empty string, never
// null, so consumers need no nil checks.
type Manuscript struct {
	Title        string `json:"title"`
	Abstract     string `json:"abstract"`
	Introduction string `json:"introduction"`
	Results      string `json:"results"`
	Discussion   string `json:"discussion"`
	Methods      string `json:"methods"`
}

// Get returns the field for the given section.
func (m *Manuscript) Get(s Section) string {
	switch s {
	case SectionTitle:
		return m.Title
	case SectionAbstract:
		return m.Abstract
	case SectionIntroduction:
		return m.Introduction
	case SectionResults:
		return m.Results
	case SectionDiscussion:
		return m.Discussion
	case SectionMethods:
		return m.Methods
	}
	return ""
}

// Set assigns the field for the given section.
func (m *Manuscript) Set(s Section, text string) {
	switch s {
	case SectionTitle:
		m.Title = text
	case SectionAbstract:
		m.Abstract = text
	case SectionIntroduction:
		m.Introduction = text
	case SectionResults:
		m.Results = text
	case SectionDiscussion:
		m.Discussion = text
	case SectionMethods:
		m.Methods = text
	}
}

// Requested returns the sections whose field holds a non-blank value.
func (m *Manuscript) Requested() []Section {
	var out []Section
	for _, s := range Sections() {
		if strings.TrimSpace(m.Get(s)) != "" {
			out = append(out, s)
		}
	}
	return out
}

// Empty reports whether every field is blank.
func (m *Manuscript) Empty() bool {
	return len(m.Requested()) == 0
}
