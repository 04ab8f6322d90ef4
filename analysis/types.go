package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Risk is the overall vulnerability level
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// Valid reports whether r is one of the three levels
func (r Risk) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// FindingType marks a checklist entry as a problem or a strength
type FindingType string

const (
	FindingWarning FindingType = "warning"
	FindingSuccess FindingType = "success"
)

// Finding is one diagnostic checklist entry
type Finding struct {
	ID       string      `json:"id"`
	Type     FindingType `json:"type"`
	Category string      `json:"category"`
	Message  string      `json:"message"`
	Details  string      `json:"details,omitempty"`
}

// Suggestion is one rewrite card
type Suggestion struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Issue       string `json:"issue"`
	InsteadOf   string `json:"instead_of"`
	TryThis     string `json:"try_this"`
	Explanation string `json:"explanation"`
}

// Result is the parsed model verdict
type Result struct {
	OverallRisk Risk         `json:"overallRisk"`
	RiskScore   float64      `json:"riskScore"`
	Findings    []Finding    `json:"findings"`
	Suggestions []Suggestion `json:"suggestions"`
	Summary     string       `json:"summary"`
}

// Validate checks required fields and normalizes the score into [0,100]
// Findings and suggestions may be empty lists but not absent, finding types
// must be warning or success
func (r *Result) Validate() error {
	if !r.OverallRisk.Valid() {
		return fmt.Errorf("invalid overallRisk %q", r.OverallRisk)
	}
	if r.Findings == nil {
		return fmt.Errorf("missing findings")
	}
	if r.Suggestions == nil {
		return fmt.Errorf("missing suggestions")
	}
	if math.IsNaN(r.RiskScore) || math.IsInf(r.RiskScore, 0) {
		return fmt.Errorf("invalid riskScore %v", r.RiskScore)
	}
	if r.RiskScore < 0 {
		r.RiskScore = 0
	}
	if r.RiskScore > 100 {
		r.RiskScore = 100
	}
	for i := range r.Findings {
		if t := r.Findings[i].Type; t != FindingWarning && t != FindingSuccess {
			return fmt.Errorf("invalid finding type %q", t)
		}
		if r.Findings[i].ID == "" {
			r.Findings[i].ID = fmt.Sprintf("finding-%d", i+1)
		}
	}
	for i := range r.Suggestions {
		if r.Suggestions[i].ID == "" {
			r.Suggestions[i].ID = fmt.Sprintf("suggestion-%d", i+1)
		}
	}
	return nil
}

// Counts returns warning and success tallies
func (r *Result) Counts() (warnings, successes int) {
	for _, f := range r.Findings {
		if f.Type == FindingSuccess {
			successes++
		} else {
			warnings++
		}
	}
	return warnings, successes
}

// MarshalIndent renders the result as stable JSON for export
func (r *Result) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// UnmarshalJSON accepts riskScore as a number or a numeric string
func (r *Result) UnmarshalJSON(data []byte) error {
	type plain Result
	aux := struct {
		*plain
		RiskScore json.RawMessage `json:"riskScore"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := strings.TrimSpace(string(aux.RiskScore))
	if raw == "" || raw == "null" {
		r.RiskScore = 0
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSuffix(strings.TrimSpace(unquoted), "%")
	}
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
		return fmt.Errorf("invalid riskScore %s", string(aux.RiskScore))
	}
	r.RiskScore = score
	return nil
}
