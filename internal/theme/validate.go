package theme

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/metalagman/glmprobe/internal/zhipu"
	"github.com/xeipuuv/gojsonschema"
)

var (
	//go:embed topics.schema.json
	topicsSchemaJSON string
	//go:embed analysis.schema.json
	analysisSchemaJSON string

	topicsSchema   = mustSchema(topicsSchemaJSON)
	analysisSchema = mustSchema(analysisSchemaJSON)
)

// ErrMalformed is returned when generated content does not match the
// requested JSON shape.
var ErrMalformed = errors.New("malformed model output")

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile schema: %v", err))
	}
	return schema
}

// decode strips code fences, validates content against schema and
// unmarshals it into dst.
func decode(content string, schema *gojsonschema.Schema, dst any) error {
	cleaned := zhipu.StripCodeFence(content)
	if !json.Valid([]byte(cleaned)) {
		extracted, ok := extractJSON(cleaned)
		if !ok {
			return fmt.Errorf("%w: not valid JSON", ErrMalformed)
		}
		cleaned = extracted
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !result.Valid() {
		errs := make([]string, 0, len(result.Errors()))
		for _, schemaErr := range result.Errors() {
			errs = append(errs, schemaErr.String())
		}
		sort.Strings(errs)
		return fmt.Errorf("%w: %s", ErrMalformed, strings.Join(errs, "; "))
	}

	if err := json.Unmarshal([]byte(cleaned), dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// extractJSON returns the outermost {...} span of s when it is valid JSON.
func extractJSON(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	candidate := s[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return "", false
	}
	return candidate, true
}
