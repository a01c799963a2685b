package retraction

const synthesizePrompt = `Write the abstract this manuscript would carry if
submitted today: one paragraph covering motivation, approach, and findings.
Reply with only the abstract text.

Manuscript:
{full_md}`

const improvePrompt = `You are revising a scientific manuscript to avoid the
failure modes that led to the retraction of similar published papers.

Retraction notices for similar work:
{retraction_notices}

Review the manuscript for the same weaknesses: overclaimed results, missing
controls or methods detail, statistical problems, unsupported causal
language. Revise the affected passages; hedge or qualify claims the draft
cannot support. Do not mention the retractions themselves.

Reply with only the complete revised manuscript in markdown, preserving the
section headings.

Manuscript:
{full_md}`
