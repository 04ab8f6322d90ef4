package analysis

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/audwanee/attachment"
)

// Analyzer turns an assignment prompt into a Result
type Analyzer interface {
	Analyze(ctx context.Context, prompt string, files []attachment.File) (*Result, error)
}

// Request is the provider-neutral completion input
type Request struct {
	System string
	Text   string
	Files  []attachment.File
}

// Completer sends one request to a model provider and returns the raw reply text
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

// Service is the Analyzer backed by a Completer
// Every failure after input validation surfaces as ErrAnalysisFailed, no retries
type Service struct {
	completer Completer
	logger    *zap.Logger
}

// NewService wraps a provider, nil logger disables logging
func NewService(c Completer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{completer: c, logger: logger.Named("analysis")}
}

// Analyze validates input, calls the provider and parses the reply
func (s *Service) Analyze(ctx context.Context, prompt string, files []attachment.File) (*Result, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	start := time.Now()
	s.logger.Debug("analysis started",
		zap.String("provider", s.completer.Name()),
		zap.Int("prompt_len", len(prompt)),
		zap.Int("files", len(files)))

	text, err := s.completer.Complete(ctx, Request{
		System: SystemPrompt,
		Text:   UserText(prompt),
		Files:  files,
	})
	if err != nil {
		s.logger.Error("analysis request failed", zap.String("provider", s.completer.Name()), zap.Error(err))
		return nil, fail(err)
	}

	result, err := Parse(text)
	if err != nil {
		s.logger.Error("analysis reply rejected", zap.Error(err), zap.Int("reply_len", len(text)))
		return nil, fail(err)
	}

	s.logger.Info("analysis completed",
		zap.String("risk", string(result.OverallRisk)),
		zap.Float64("score", result.RiskScore),
		zap.Int("findings", len(result.Findings)),
		zap.Int("suggestions", len(result.Suggestions)),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}
