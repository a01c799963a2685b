package drafter

import (
	"fmt"

	"github.com/hyper-light/quill/core/schema"
	"github.com/hyper-light/quill/core/state"
)

var sectionGuidance = map[schema.Section]string{
	schema.SectionTitle: `The title is a single line. Make it specific and
informative; no trailing period, no markdown heading markers.`,
	schema.SectionAbstract: `The abstract is one paragraph summarizing
motivation, approach, and key findings. No citations, no subheadings.`,
	schema.SectionIntroduction: `The introduction motivates the work, states
the problem, and previews the contribution.`,
	schema.SectionResults: `The results section reports findings plainly.
Reference figures by number where the figure descriptions support a claim.`,
	schema.SectionDiscussion: `The discussion interprets the results, states
limitations, and situates the work against related efforts.`,
	schema.SectionMethods: `The methods section describes procedures with
enough precision to reproduce them.`,
}

// sectionPrompt renders the drafting instruction for one section. Earlier
// drafts appear as context so later sections can summarize them.
func sectionPrompt(section schema.Section) string {
	return fmt.Sprintf(`You are an academic writer drafting the %[1]s section of a
scientific manuscript.

%[2]s

Author instructions for this section:
{%[3]s}

Sections drafted so far (empty means not drafted yet):
Title: {title}
Abstract: {abstract}
Introduction: {introduction}
Results: {results}
Discussion: {discussion}
Methods: {methods}

Available figures:
{figures_descriptions}

Write only the %[1]s content in markdown. Do not include the section
heading. Do not invent results or figures that are not given.`,
		string(section),
		sectionGuidance[section],
		string(state.InstructionKey(section)),
	)
}
