package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/audwanee/analysis"
	"github.com/lixenwraith/audwanee/attachment"
)

func result() *analysis.Result {
	return &analysis.Result{
		OverallRisk: analysis.RiskMedium,
		RiskScore:   55,
		Summary:     "Moderately resilient.",
		Findings: []analysis.Finding{
			{ID: "1", Type: analysis.FindingWarning, Category: "Personal Connection", Message: "No personal element", Details: "Add reflection."},
			{ID: "2", Type: analysis.FindingSuccess, Category: "Source Analysis", Message: "Uses primary sources"},
		},
		Suggestions: []analysis.Suggestion{
			{ID: "s1", Category: "Process", Issue: "Only final product graded", InsteadOf: "Submit an essay", TryThis: "Submit drafts", Explanation: "Shows thinking."},
		},
	}
}

func TestFilled(t *testing.T) {
	tests := []struct {
		score float64
		width int
		want  int
	}{
		{0, 20, 0},
		{50, 20, 10},
		{100, 20, 20},
		{150, 20, 20},
		{-5, 20, 0},
		{50, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Filled(tt.score, tt.width), "score %v width %d", tt.score, tt.width)
	}
}

func TestRiskColorAndLabel(t *testing.T) {
	assert.Equal(t, LowColor, RiskColor(analysis.RiskLow))
	assert.Equal(t, MediumColor, RiskColor(analysis.RiskMedium))
	assert.Equal(t, HighColor, RiskColor(analysis.RiskHigh))
	assert.Equal(t, "MEDIUM RISK", RiskLabel(analysis.RiskMedium))
	assert.Equal(t, "UNKNOWN RISK", RiskLabel("bogus"))
}

func TestMarkdownSections(t *testing.T) {
	files := []attachment.File{attachment.Reference("map.png", attachment.MIMEPNG, 10)}
	md := Markdown("Line one\nLine two", files, result())

	for _, want := range []string{
		"**Overall risk:** MEDIUM (55/100)",
		"> Line one\n> Line two",
		"- map.png (image/png)",
		"(1 warnings, 1 strengths)",
		"- ✗ **Personal Connection:** No personal element",
		"  Add reflection.",
		"- ✓ **Source Analysis:** Uses primary sources",
		"### Process",
		"- **Instead of:** Submit an essay",
		"- **Try this:** Submit drafts",
	} {
		assert.Contains(t, md, want)
	}
}

func TestMeterText(t *testing.T) {
	m := Meter(result(), 20)
	assert.Equal(t, 11, strings.Count(m, "█"))
	assert.Equal(t, 9, strings.Count(m, "░"))
	assert.Contains(t, m, "MEDIUM RISK 55/100")
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, "Write about rivers", nil, result(), Options{Width: 60, Style: "notty"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "MEDIUM RISK 55/100")
	assert.Contains(t, out, "AI Resilience Report")
	assert.Contains(t, out, "Personal Connection")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, result()))

	var back map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "medium", back["overallRisk"])
	assert.EqualValues(t, 55, back["riskScore"])
}
