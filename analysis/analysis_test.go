package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/audwanee/attachment"
)

const validReply = `{
  "overallRisk": "high",
  "riskScore": 82,
  "findings": [
    {"id": "f1", "type": "warning", "category": "Generic Verbs", "message": "Uses **describe** and *explain*"},
    {"id": "f2", "type": "success", "category": "Specific Constraints", "message": "Names a treaty", "details": "Treaty of New Echota"}
  ],
  "suggestions": [
    {"id": "s1", "category": "Process", "issue": "No drafts", "instead_of": "Write an essay", "try_this": "Submit a research log", "explanation": "Shows process"}
  ],
  "summary": "Mostly generic."
}`

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"prose", "Here you go:\n{\"a\":1}\nThanks!", `{"a":1}`},
		{"fenced", "```json\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`},
		{"brace in string", `{"a":"}{"}`, `{"a":"}{"}`},
		{"escaped quote", `{"a":"say \"}\""}`, `{"a":"say \"}\""}`},
		{"skip invalid first", `use {placeholders} then {"a":1}`, `{"a":1}`},
		{"first of two", `{"a":1} and {"b":2}`, `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractJSON(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractJSONFailures(t *testing.T) {
	for _, in := range []string{"", "no json here", `{"a":1`, "} {"} {
		_, err := ExtractJSON(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseValid(t *testing.T) {
	res, err := Parse("Sure! " + validReply)
	require.NoError(t, err)

	want := &Result{
		OverallRisk: RiskHigh,
		RiskScore:   82,
		Findings: []Finding{
			{ID: "f1", Type: FindingWarning, Category: "Generic Verbs", Message: "Uses **describe** and *explain*"},
			{ID: "f2", Type: FindingSuccess, Category: "Specific Constraints", Message: "Names a treaty", Details: "Treaty of New Echota"},
		},
		Suggestions: []Suggestion{
			{ID: "s1", Category: "Process", Issue: "No drafts", InsteadOf: "Write an essay", TryThis: "Submit a research log", Explanation: "Shows process"},
		},
		Summary: "Mostly generic.",
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}

	w, s := res.Counts()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, s)
}

func TestParseNormalizes(t *testing.T) {
	res, err := Parse(`{"overallRisk":"low","riskScore":"140","findings":[{"type":"warning","message":"m"}],"suggestions":[]}`)
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.RiskScore)
	assert.Equal(t, FindingWarning, res.Findings[0].Type)
	assert.Equal(t, "finding-1", res.Findings[0].ID)
	assert.Empty(t, res.Suggestions)

	res, err = Parse(`{"overallRisk":"medium","riskScore":-3,"findings":[],"suggestions":[]}`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.RiskScore)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"empty":           "   ",
		"no object":       "I cannot help with that.",
		"bad risk":        `{"overallRisk":"extreme","findings":[],"suggestions":[]}`,
		"missing risk":    `{"findings":[],"suggestions":[]}`,
		"missing finding": `{"overallRisk":"low","suggestions":[]}`,
		"null suggestion": `{"overallRisk":"low","findings":[],"suggestions":null}`,
		"bad score":       `{"overallRisk":"low","riskScore":"lots","findings":[],"suggestions":[]}`,
		"nan score":       `{"overallRisk":"low","riskScore":"NaN","findings":[],"suggestions":[]}`,
		"inf score":       `{"overallRisk":"low","riskScore":"-Inf","findings":[],"suggestions":[]}`,
		"odd finding":     `{"overallRisk":"low","findings":[{"type":"odd","message":"m"}],"suggestions":[]}`,
		"untyped finding": `{"overallRisk":"low","findings":[{"message":"m"}],"suggestions":[]}`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(in)
			assert.Error(t, err)
		})
	}
}

type stubCompleter struct {
	reply string
	err   error
	got   Request
}

func (s *stubCompleter) Complete(_ context.Context, req Request) (string, error) {
	s.got = req
	return s.reply, s.err
}

func (s *stubCompleter) Name() string { return "stub" }

func TestServiceEmptyPrompt(t *testing.T) {
	stub := &stubCompleter{reply: validReply}
	_, err := NewService(stub, nil).Analyze(context.Background(), " \n\t", nil)
	assert.ErrorIs(t, err, ErrEmptyPrompt)
	assert.Empty(t, stub.got.Text, "no request should be made for a blank prompt")
}

func TestServiceCollapsesFailures(t *testing.T) {
	cause := errors.New("connection refused")
	cases := []*stubCompleter{
		{err: cause},
		{reply: "no json"},
		{reply: `{"overallRisk":"low"}`},
		{reply: `{"overallRisk":"low","riskScore":"NaN","findings":[],"suggestions":[]}`},
	}
	for _, stub := range cases {
		_, err := NewService(stub, nil).Analyze(context.Background(), "Write an essay.", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAnalysisFailed)
		assert.Equal(t, "Failed to analyze prompt. Please try again.", err.Error())
		assert.NotEqual(t, err, Cause(err))
	}

	_, err := NewService(cases[0], nil).Analyze(context.Background(), "x", nil)
	assert.ErrorIs(t, err, cause)
}

func TestServiceSuccess(t *testing.T) {
	stub := &stubCompleter{reply: validReply}
	res, err := NewService(stub, nil).Analyze(context.Background(), "Describe the war.", nil)
	require.NoError(t, err)
	assert.Equal(t, RiskHigh, res.OverallRisk)
	assert.Equal(t, SystemPrompt, stub.got.System)
	assert.Equal(t, "Please analyze this assignment prompt for AI resilience:\n\nDescribe the war.", stub.got.Text)
}

func TestOpenRouterRequestShape(t *testing.T) {
	img, err := attachment.New("map.png", []byte("\x89PNG\r\n\x1a\n0000"))
	require.NoError(t, err)
	doc, err := attachment.New("reading.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, DefaultSiteName, r.Header.Get("X-Title"))
		assert.Equal(t, "http://localhost", r.Header.Get("HTTP-Referer"))

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &captured))

		resp := map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": "Analysis:\n" + validReply}}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewOpenRouterClient(OpenRouterConfig{APIKey: "key-123", BaseURL: srv.URL + "/", SiteURL: "http://localhost"})
	res, err := NewService(client, nil).Analyze(context.Background(), "Compare two poems.", []attachment.File{img, doc})
	require.NoError(t, err)
	assert.Equal(t, RiskHigh, res.OverallRisk)

	assert.Equal(t, DefaultOpenRouterModel, captured["model"])
	messages := captured["messages"].([]any)
	require.Len(t, messages, 2)

	system := messages[0].(map[string]any)
	assert.Equal(t, "system", system["role"])
	assert.Equal(t, SystemPrompt, system["content"])

	user := messages[1].(map[string]any)
	parts := user["content"].([]any)
	require.Len(t, parts, 3)
	assert.Equal(t, "text", parts[0].(map[string]any)["type"])
	assert.True(t, strings.HasSuffix(parts[0].(map[string]any)["text"].(string), "Compare two poems."))
	assert.Equal(t, "image_url", parts[1].(map[string]any)["type"])
	assert.Equal(t, img.Data, parts[1].(map[string]any)["image_url"].(map[string]any)["url"])
	assert.Equal(t, "Attached file: reading.pdf (application/pdf)", parts[2].(map[string]any)["text"])
}

func TestOpenRouterFailures(t *testing.T) {
	status := http.StatusOK
	payload := `{"choices":[]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, payload)
	}))
	defer srv.Close()

	client := NewOpenRouterClient(OpenRouterConfig{APIKey: "k", BaseURL: srv.URL})
	req := Request{System: "s", Text: "t"}

	_, err := client.Complete(context.Background(), req)
	assert.ErrorContains(t, err, "no analysis content")

	status, payload = http.StatusUnauthorized, `{"error":{"message":"bad key"}}`
	_, err = client.Complete(context.Background(), req)
	assert.ErrorContains(t, err, "401")

	status, payload = http.StatusOK, `{"error":{"message":"model overloaded"}}`
	_, err = client.Complete(context.Background(), req)
	assert.ErrorContains(t, err, "model overloaded")

	status, payload = http.StatusOK, `not json`
	_, err = client.Complete(context.Background(), req)
	assert.ErrorContains(t, err, "failed to parse response")

	_, err = NewOpenRouterClient(OpenRouterConfig{BaseURL: srv.URL}).Complete(context.Background(), req)
	assert.ErrorContains(t, err, "API key not configured")
}

func TestOpenRouterNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	svc := NewService(NewOpenRouterClient(OpenRouterConfig{APIKey: "k", BaseURL: url}), nil)
	_, err := svc.Analyze(context.Background(), "Explain photosynthesis.", nil)
	assert.ErrorIs(t, err, ErrAnalysisFailed)
}

func TestGeminiClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-test:generateContent")
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "Please analyze this assignment prompt")

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": validReply}},
				},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client, err := NewGeminiClient(context.Background(), GeminiConfig{APIKey: "k", BaseURL: srv.URL, Model: "gemini-test"})
	require.NoError(t, err)

	res, err := NewService(client, nil).Analyze(context.Background(), "List three causes.", SampleFiles())
	require.NoError(t, err)
	assert.Equal(t, 82.0, res.RiskScore)
}

func TestNewCompleter(t *testing.T) {
	c, err := NewCompleter(context.Background(), ProviderConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "openrouter", c.Name())

	_, err = NewCompleter(context.Background(), ProviderConfig{Provider: "gemini"})
	assert.Error(t, err, "gemini requires a key")

	_, err = NewCompleter(context.Background(), ProviderConfig{Provider: "bard"})
	assert.Error(t, err)
}

func TestSample(t *testing.T) {
	assert.Contains(t, SamplePrompt, "Treaty of New Echota")
	files := SampleFiles()
	require.Len(t, files, 1)
	assert.False(t, files[0].IsImage())
}
