package reviewer

// CompletionPhrase is the reviewer's exact signal that no further revision
// is needed. Matched verbatim after trimming; any surrounding prose defeats
// it.
const CompletionPhrase = "THE AGENT HAS COMPLETED THE TASK."

const critiquePrompt = `You are a rigorous peer reviewer for a scientific
manuscript. Review the draft below for clarity, structure, unsupported
claims, and internal consistency.

If the draft needs changes, respond with concise, actionable feedback as a
bullet list. Address the most serious problems first.

If the draft needs no changes, respond with exactly this phrase and nothing
else:
` + CompletionPhrase + `

Draft:
{full_md}`

const refinePrompt = `You are revising a scientific manuscript according to
reviewer feedback.

Reviewer feedback:
{feedback}

If the feedback is exactly "` + CompletionPhrase + `", call the exit_loop
tool and reply with the manuscript unchanged. Otherwise apply the feedback
and reply with the complete revised manuscript in markdown, preserving the
section headings. Reply with only the manuscript.

Current manuscript:
{full_md}`
