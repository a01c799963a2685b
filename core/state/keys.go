// Package state implements the shared session state threaded through every
// unit in a run: a mutable typed-key/value mapping with consistent read
// snapshots. Keys are declared as constants so a misspelled key is a compile
// error, not a silent empty read.
package state

import "github.com/hyper-light/quill/core/schema"

// Key names one entry in the shared session state.
type Key string

const (
	// KeyInstructions holds the interpreter's per-section instruction split
	// as a schema.Manuscript value.
	KeyInstructions Key = "instructions"

	// KeyLastUserInput holds the raw text of the user turn being processed.
	KeyLastUserInput Key = "last_user_input"

	// KeyFullManuscript holds the assembled manuscript markdown.
	KeyFullManuscript Key = "full_md"

	// KeyFeedback holds the reviewer's latest critique, or the completion
	// phrase once the reviewer decides the manuscript is final.
	KeyFeedback Key = "feedback"

	// KeyRefined holds the refined manuscript produced from feedback.
	KeyRefined Key = "refined_md"

	// KeyTopics holds extracted research topics.
	KeyTopicsText Key = "topics_text"
	KeyTopics     Key = "topics"

	// KeySearchResults holds literature search results keyed by topic.
	KeySearchResults Key = "search_results"

	// KeySynthesizedAbstract holds the abstract synthesized for similarity
	// retrieval during retraction avoidance.
	KeySynthesizedAbstract Key = "synthesized_abstract"

	// KeyRetractionNotices holds retrieved retraction notices.
	KeyRetractionNotices Key = "retraction_notices"

	// KeyEnhancedDraft holds a draft rewritten by an enrichment workflow.
	KeyEnhancedDraft Key = "enhanced_draft"

	// KeyRepoSummary holds the repository-to-paper summary.
	KeyRepoSummary Key = "repo_summary"

	// KeyCurrentFigure is the scratch slot for the figure workflow's latest
	// structured description, cleared once folded into the figure store.
	KeyCurrentFigure Key = "current_figure"

	// KeyFigures holds the accumulated figure store ([]schema.FigureDescription).
	KeyFigures Key = "figures"

	// KeyFigureDescriptions holds the prompt-ready rendering of the figure
	// store, refreshed before section drafting.
	KeyFigureDescriptions Key = "figures_descriptions"
)

// SectionKey returns the key holding a section's drafted content.
func SectionKey(s schema.Section) Key {
	return Key(s)
}

// InstructionKey returns the key holding a section's split-out instructions.
func InstructionKey(s schema.Section) Key {
	return Key("instructions_" + string(s))
}
