package probe

// Case is one labelled prompt.
type Case struct {
	Label  string `json:"label"  yaml:"label"`
	Prompt string `json:"prompt" yaml:"prompt"`
}

const topicAnalysisPrompt = `Analyse the topic "Vue basics" and provide:
1. The most relevant role
2. Three related topics
3. The continuous dimension best suited to organise the content (its values must be continuous, e.g. difficulty "beginner-intermediate-expert" or time "past-present-future")

Reply in this format:
Role: [role name]
Topic 1: [topic name]
Topic 2: [topic name]
Topic 3: [topic name]
Dimension: [dimension name]
Explanation: [why this dimension]
Range: [first level],[second level],[third level]`

const contentGenerationPrompt = `Write a "beginner" level content guide for the topic "Vue basics".

Background:
- Target role: frontend developer
- Related topics: component development, state management, routing
- Dimension: mastery

Produce:
1. Characteristics and goals of this level
2. Core content points
3. Learning or practice advice
4. Common problems and solutions

Output plain text only, do not use markdown.`

// DefaultCases returns the built-in probe cases, in run order.
func DefaultCases() []Case {
	return []Case{
		{Label: "topic analysis", Prompt: topicAnalysisPrompt},
		{Label: "content generation", Prompt: contentGenerationPrompt},
	}
}
