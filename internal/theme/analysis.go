package theme

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AnalysisTemperature is used for analysis requests to keep output stable.
const AnalysisTemperature = 0.5

const minStages = 2

// AnalysisOptions asks for a finer-grained split of existing stages.
type AnalysisOptions struct {
	Finer       bool
	CurrentTabs []string
}

// Analysis describes how content about a theme should be organised.
type Analysis struct {
	Role          string   `json:"role"          yaml:"role"`
	RelatedThemes []string `json:"relatedThemes" yaml:"related_themes"`
	Dimension     string   `json:"dimension"     yaml:"dimension"`
	Explanation   string   `json:"explanation"   yaml:"explanation"`
	Stages        []string `json:"stages"        yaml:"stages"`
}

// Tab is one stage of an analysed theme.
type Tab struct {
	Title   string `json:"title"             yaml:"title"`
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
}

// Tabs returns one tab per stage.
func (a Analysis) Tabs() []Tab {
	tabs := make([]Tab, len(a.Stages))
	for i, s := range a.Stages {
		tabs[i] = Tab{Title: s}
	}
	return tabs
}

// AnalysisPrompt asks the model for a role, related themes and a continuous
// dimension with its stages.
func AnalysisPrompt(theme string, opts AnalysisOptions) string {
	var finer string
	if opts.Finer {
		var current string
		if len(opts.CurrentTabs) > 0 {
			tabs := make([]Tab, len(opts.CurrentTabs))
			for i, title := range opts.CurrentTabs {
				tabs[i] = Tab{Title: title}
			}
			encoded, _ := json.MarshalIndent(tabs, "", "  ")
			current = fmt.Sprintf("Current tabs:\n%s\n\nBased on these tabs, provide a finer-grained stage split.\n", encoded)
		}
		finer = `The user wants a finer time granularity to get more detailed knowledge.
` + current + `Provide a more detailed split than the current one, for example:
- if the current unit is "month", split into "weeks"
- if the current unit is "phase", split into concrete points in time
- if the current unit is "year", split into "months" or "quarters"
Make sure the new stages fully cover the range of the original stages.
`
	}

	return fmt.Sprintf(`Analyse the topic "%s" and provide:
1. The most relevant role
2. Three related topics
3. The continuous dimension best suited to organise the content (its values must be continuous)

%s
Return JSON in this shape:
{
  "role": "role name",
  "relatedThemes": ["topic 1", "topic 2", "topic 3"],
  "dimension": "dimension name",
  "explanation": "why this dimension was chosen",
  "stages": ["stage 1", "stage 2", "stage 3"]
}

Notes:
1. The reply must be valid JSON
2. Do not add any formatting such as markdown code blocks
3. Return the JSON string directly
4. Each stage name must be a concrete description, not a number
5. Stage names must be short and contain no special characters
6. The dimension must be continuous, such as difficulty, time or depth`, theme, finer)
}

// ParseAnalysis parses an AnalysisPrompt reply. Stage names are trimmed,
// blank stages dropped, and at least two stages must remain.
func ParseAnalysis(content string) (Analysis, error) {
	var a Analysis
	if err := decode(content, analysisSchema, &a); err != nil {
		return Analysis{}, err
	}

	a.Dimension = strings.TrimSpace(a.Dimension)
	if a.Dimension == "" {
		return Analysis{}, fmt.Errorf("%w: dimension is empty", ErrMalformed)
	}

	stages := make([]string, 0, len(a.Stages))
	for _, s := range a.Stages {
		if s = strings.TrimSpace(s); s != "" {
			stages = append(stages, s)
		}
	}
	if len(stages) < minStages {
		return Analysis{}, fmt.Errorf("%w: need at least %d stages, got %d", ErrMalformed, minStages, len(stages))
	}
	a.Stages = stages
	return a, nil
}
