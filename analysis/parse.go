package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Parse extracts, decodes and validates a model reply
func Parse(text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no analysis content received")
	}

	obj, err := ExtractJSON(text)
	if err != nil {
		return nil, fmt.Errorf("could not parse analysis results: %w", err)
	}

	var result Result
	if err := json.Unmarshal([]byte(obj), &result); err != nil {
		return nil, fmt.Errorf("could not decode analysis results: %w", err)
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis result structure: %w", err)
	}
	return &result, nil
}
