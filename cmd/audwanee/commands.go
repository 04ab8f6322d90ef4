package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/audwanee/analysis"
	"github.com/lixenwraith/audwanee/config"
	"github.com/lixenwraith/audwanee/core"
	"github.com/lixenwraith/audwanee/rain"
	"github.com/lixenwraith/audwanee/render"
)

func newSnapshotCmd(c *cli) *cobra.Command {
	var (
		width, height int
		frames        int
		seed          uint64
		output        string
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Write one frame of the rain field as SVG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if width <= 0 || height <= 0 {
				return fmt.Errorf("viewport must be positive, got %dx%d", width, height)
			}
			bg := render.DefaultBgRGB
			if c.cfg.Rain.Background != "" {
				parsed, err := core.ParseHex(c.cfg.Rain.Background)
				if err != nil {
					return fmt.Errorf("invalid rain.background: %w", err)
				}
				bg = parsed
			}
			if !cmd.Flags().Changed("seed") {
				seed = c.cfg.Rain.Seed
			}

			field := rain.NewField(seed)
			field.Reset(float64(width), float64(height))
			canvas := render.NewSVGCanvas(width, height, bg)
			for i := 0; i < max(1, frames); i++ {
				field.Frame(canvas)
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			_, err := canvas.WriteTo(w)
			return err
		},
	}

	f := cmd.Flags()
	f.IntVar(&width, "width", 1200, "Viewport width in pixels")
	f.IntVar(&height, "height", 800, "Viewport height in pixels")
	f.IntVar(&frames, "frames", 1, "Frames to simulate before capture")
	f.Uint64Var(&seed, "seed", 0, "Random seed, 0 for time-based")
	f.StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func newSampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "sample",
		Short:       "Print the bundled sample assignment",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, analysis.SamplePrompt)
			fmt.Fprintln(out)
			for _, f := range analysis.SampleFiles() {
				fmt.Fprintf(out, "Attached file: %s (%s)\n", f.Name, f.MIME)
			}
			return nil
		},
	}
}

func newConfigCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the default configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
