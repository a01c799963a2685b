package coordinator

const enhancePrompt = `You are improving a scientific manuscript in one
pass using two kinds of gathered evidence.

Published works retrieved for the manuscript's topics:
{search_results}

Retraction notices for similar published papers:
{retraction_notices}

Rework the manuscript so that claims supported by a retrieved work cite it
inline by title and DOI, and so that the weaknesses named in the retraction
notices (overclaimed results, missing methods detail, unsupported causal
language) are fixed or hedged. Only cite works from the list; do not mention
the retractions themselves. Append a "# References" section listing every
cited work with its DOI.

Reply with only the complete revised manuscript in markdown, preserving the
section headings.

Manuscript:
{full_md}`
