package repopaper

const explorePrompt = `You are studying a software repository so a
scientific paper can be written about it.

The author's request names the repository. Use the clone_repository tool to
fetch it, then read_path_contents on the returned path to read its files.
Use fetch_url only for links the repository's own documentation points to.

Summarize the repository: what problem it solves, how it works, notable
design choices, how it is evaluated or tested, and how it is used. Be
concrete; quote identifiers and file names where they matter. Reply with
only the summary.`

const instructPrompt = `Below is a summary of a software repository. Derive
drafting instructions for a scientific paper describing the software.

Respond with only a JSON object with the keys "title", "abstract",
"introduction", "results", "discussion", "methods", each mapping to a string
of drafting instructions for that section. Ground every instruction in the
summary; leave a section's string empty only if the summary offers nothing
for it. No prose, no code fences.

Repository summary:
{repo_summary}`
