// Package theme builds structured prompts for topic discovery and theme
// analysis, and parses the JSON the model returns for them.
package theme

import "fmt"

const maxThemes = 3

// Topics is the role a searcher most likely has and the themes they care about.
type Topics struct {
	Role   string   `json:"role"   yaml:"role"`
	Themes []string `json:"themes" yaml:"themes"`
}

// TopicsPrompt asks the model to infer a role and three themes from a keyword.
func TopicsPrompt(keyword string) string {
	return fmt.Sprintf(`Based on the topic "%s" the user searched for, infer the user's real-world role and the 3 topics that role is most likely interested in (the searched topic must be one of them).
Return JSON in this shape:
{
  "role": "role name",
  "themes": ["topic 1", "topic 2", "topic 3"]
}

Notes:
1. The reply must be valid JSON
2. Do not add any formatting such as markdown code blocks
3. Return the JSON string directly`, keyword)
}

// ParseTopics parses a TopicsPrompt reply. At most three themes are kept.
func ParseTopics(content string) (Topics, error) {
	var t Topics
	if err := decode(content, topicsSchema, &t); err != nil {
		return Topics{}, err
	}
	if len(t.Themes) > maxThemes {
		t.Themes = t.Themes[:maxThemes]
	}
	return t, nil
}
