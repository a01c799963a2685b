package citations

const topicsPrompt = `Extract the distinct research topics a reader would
need citations for from the manuscript below. Respond with a plain bullet
list of short topic phrases, one per line, and nothing else.

Manuscript:
{full_md}`

const improvePrompt = `You are adding citations to a scientific manuscript.
Below are published works retrieved for the manuscript's topics.

Retrieved works:
{search_results}

Rework the manuscript so that claims supported by a retrieved work cite it
inline as (Author-less: "Title", DOI). Only cite works from the list; leave
unsupported claims uncited rather than inventing references. Append a
"# References" section listing every cited work with its DOI.

Reply with only the complete revised manuscript in markdown.

Manuscript:
{full_md}`
