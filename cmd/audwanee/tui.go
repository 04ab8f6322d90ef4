package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/audwanee/attachment"
	"github.com/lixenwraith/audwanee/audio"
	"github.com/lixenwraith/audwanee/core"
	"github.com/lixenwraith/audwanee/render"
	"github.com/lixenwraith/audwanee/ui"
	"github.com/lixenwraith/audwanee/watch"
)

func addInteractiveFlags(cmd *cobra.Command, c *cli) {
	f := cmd.Flags()
	f.BoolVar(&c.watch, "watch", false, "Re-analyze when the prompt file changes")
	f.BoolVar(&c.auto, "auto", false, "Analyze immediately on start")
	f.BoolVar(&c.noRain, "no-rain", false, "Disable the rain animation")
	f.BoolVar(&c.sound, "sound", false, "Enable rain ambience")
	f.IntVar(&c.fps, "fps", 0, "Animation frame rate")
}

func (c *cli) runInteractive(cmd *cobra.Command, args []string) error {
	prompt, path, err := c.readPrompt(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := c.newService(ctx)
	if err != nil {
		return err
	}

	files, rejected := attachment.LoadAll(c.files)
	for _, r := range rejected {
		c.logger.Warn("attachment rejected", zap.String("path", r.Path), zap.Error(r.Err))
	}

	opts := ui.Options{
		Analyzer:    svc,
		Logger:      c.logger,
		Prompt:      prompt,
		Files:       files,
		Rejected:    rejected,
		AutoAnalyze: c.auto,
	}

	if store := c.openHistory(); store != nil {
		defer store.Close()
		opts.Recorder = store
	}

	if c.watch {
		if path == "" {
			return fmt.Errorf("--watch needs a prompt file argument")
		}
		w, err := watch.New(path, watch.DefaultDebounce, c.logger)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
		opts.Changes = w.Changes()
	}

	return c.runScreen(ctx, opts)
}

func newRainCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "rain",
		Short:       "Show the rain animation only",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{interactive: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			c.cfg.Rain.Enabled = true
			return c.runScreen(ctx, ui.Options{RainOnly: true})
		},
	}
	f := cmd.Flags()
	f.BoolVar(&c.sound, "sound", false, "Enable rain ambience")
	f.IntVar(&c.fps, "fps", 0, "Animation frame rate")
	return cmd
}

// runScreen fills rendering and sound options from config and owns the terminal
func (c *cli) runScreen(ctx context.Context, opts ui.Options) error {
	rc := c.cfg.Rain
	opts.Rain = rc.Enabled
	opts.FPS = rc.FPS
	opts.CellWidth = rc.CellWidth
	opts.CellHeight = rc.CellHeight
	opts.Seed = rc.Seed
	opts.Background = render.DefaultBgRGB
	if rc.Background != "" {
		bg, err := core.ParseHex(rc.Background)
		if err != nil {
			return fmt.Errorf("invalid rain.background: %w", err)
		}
		opts.Background = bg
	}
	if opts.Logger == nil {
		opts.Logger = c.logger
	}

	if c.cfg.Audio.Enabled {
		sm := audio.NewSoundManager(c.cfg.Audio.Volume)
		if err := sm.Initialize(); err != nil {
			// Non-fatal, the screen runs without sound
			c.logger.Warn("audio initialization failed", zap.Error(err))
		} else {
			defer sm.Cleanup()
			opts.Sound = sm
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	core.SetCrashHook(screen.Fini)
	defer screen.Fini()

	return ui.New(screen, opts).Run(ctx)
}

var _ ui.Ambience = (*audio.SoundManager)(nil)
