package ai

const SummaryPrompt = `
# Task Context
You are an assistant that condenses notes and documents into short summaries for a personal knowledge graph.

# Background Data
%s

# Detailed Task Description & Rules
- Summarize the text above in at most three sentences.
- Keep names, places, numbers and technical terms exactly as written.
- Do not add information that is not present in the text.
- Write in the language of the text.

# Output Formatting
Return only the summary as plain text, without headings, quotes or bullet points.
`

const KeywordPrompt = `
# Task Context
You are an assistant that extracts keywords used to connect related notes in a knowledge graph.

# Detailed Task Description & Rules
- Extract at most %d keywords from the text below.
- Order them from most to least relevant.
- Prefer nouns and noun phrases of one or two words.
- Do not number the keywords and do not explain them.

# Background Data
%s

# Output Formatting
Return the keywords on a single line separated by a comma and a space, for example:
ocean, climate change, policy
`

const StructuredKeywordPrompt = `
# Task Context
You are an assistant that extracts keywords used to connect related notes in a knowledge graph.

# Detailed Task Description & Rules
- Extract at most %d keywords from the text below.
- Order them from most to least relevant.
- Prefer nouns and noun phrases of one or two words.

# Background Data
%s

# Output Formatting
Return a JSON object with this structure:
{
  "keywords": ["<keyword1>", "<keyword2>"]
}
`
