package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/audwanee/analysis"
	"github.com/lixenwraith/audwanee/config"
	"github.com/lixenwraith/audwanee/history"
	"github.com/lixenwraith/audwanee/logging"
)

// cli carries flags and the resolved configuration for one invocation
type cli struct {
	configPath string
	debug      bool
	verbose    bool
	provider   string
	model      string
	baseURL    string
	promptText string
	files      []string
	noHistory  bool

	// Interactive
	watch  bool
	auto   bool
	noRain bool
	sound  bool
	fps    int

	cfg    *config.Config
	logger *zap.Logger
}

// skipConfig marks commands that run without loading the config file
const skipConfig = "skip-config"

// interactive marks commands that own the terminal, their logs go to a file
const interactive = "interactive"

func newRootCmd() *cobra.Command {
	c := &cli{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "audwanee [prompt-file]",
		Short: "Audwanee - check how resilient an assignment prompt is to AI completion",
		Long: `Audwanee sends an assignment prompt and its supporting materials to a
language model and shows how easily the assignment could be completed by AI,
with a diagnostic checklist and rewrite suggestions, over a rain animation.

Run with a prompt file (or - for stdin) to load it, or press s inside the
interface to try the bundled sample assignment.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations:   map[string]string{interactive: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
		RunE: c.runInteractive,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "Config file (default "+config.DefaultPath()+")")
	pf.BoolVar(&c.debug, "debug", false, "Write debug logs to the log directory")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "Verbose logging to stderr for non-interactive commands")
	pf.StringVar(&c.provider, "provider", "", "Model provider: openrouter or gemini")
	pf.StringVar(&c.model, "model", "", "Model id")
	pf.StringVar(&c.baseURL, "base-url", "", "Provider API base URL")
	pf.BoolVar(&c.noHistory, "no-history", false, "Do not save analyses")

	addInputFlags(root, c)
	addInteractiveFlags(root, c)

	root.AddCommand(
		newAnalyzeCmd(c),
		newRainCmd(c),
		newSnapshotCmd(c),
		newHistoryCmd(c),
		newSampleCmd(),
		newConfigCmd(c),
	)
	return root
}

func addInputFlags(cmd *cobra.Command, c *cli) {
	cmd.Flags().StringVarP(&c.promptText, "prompt", "p", "", "Assignment prompt text instead of a file")
	cmd.Flags().StringSliceVarP(&c.files, "file", "f", nil, "Supporting material (PDF, DOCX, JPEG, PNG, GIF, WebP), repeatable")
}

// setup loads configuration, applies flag overrides and builds the logger
func (c *cli) setup(cmd *cobra.Command) error {
	if cmd.Annotations[skipConfig] == "true" {
		return nil
	}

	path := c.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.LLM.Provider = c.provider
	}
	if flags.Changed("model") {
		cfg.LLM.Model = c.model
	}
	if flags.Changed("base-url") {
		cfg.LLM.BaseURL = c.baseURL
	}
	if flags.Changed("debug") {
		cfg.Logging.Debug = c.debug
	}
	if flags.Changed("fps") {
		cfg.Rain.FPS = c.fps
	}
	if c.noRain {
		cfg.Rain.Enabled = false
	}
	if c.sound {
		cfg.Audio.Enabled = true
	}
	if c.noHistory {
		cfg.History.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg

	if cmd.Annotations[interactive] == "true" {
		c.logger, err = logging.Setup(cfg.Logging.Debug, cfg.Logging.Dir, cfg.Logging.Level)
	} else {
		c.logger, err = logging.Console(c.verbose)
	}
	if err != nil {
		return err
	}
	c.logger.Debug("configuration loaded", zap.String("path", path), zap.String("provider", cfg.LLM.Provider))
	return nil
}

// readPrompt resolves the prompt from --prompt, a file argument or stdin ("-")
// The returned path is empty unless the prompt came from a regular file
func (c *cli) readPrompt(cmd *cobra.Command, args []string) (string, string, error) {
	if c.promptText != "" {
		return c.promptText, "", nil
	}
	if len(args) == 0 {
		return "", "", nil
	}
	if args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("failed to read prompt from stdin: %w", err)
		}
		return string(data), "", nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("failed to read prompt: %w", err)
	}
	return string(data), args[0], nil
}

// newService builds the analyzer for the configured provider
func (c *cli) newService(ctx context.Context) (*analysis.Service, error) {
	if c.cfg.LLM.APIKey == "" {
		c.logger.Warn("no API key configured, set OPENROUTER_API_KEY or GEMINI_API_KEY")
	}
	completer, err := analysis.NewCompleter(ctx, c.cfg.LLM.ProviderConfig())
	if err != nil {
		return nil, err
	}
	return analysis.NewService(completer, c.logger), nil
}

// openHistory returns nil when history is disabled or unavailable
func (c *cli) openHistory() *history.Store {
	if !c.cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(c.cfg.History.Path)
	if err != nil {
		c.logger.Warn("history unavailable", zap.String("path", c.cfg.History.Path), zap.Error(err))
		return nil
	}
	return store
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		msg := err.Error()
		if errors.Is(err, analysis.ErrAnalysisFailed) {
			msg = analysis.ErrAnalysisFailed.Error()
		}
		fmt.Fprintln(os.Stderr, "Error: "+strings.TrimSpace(msg))
		os.Exit(1)
	}
}
