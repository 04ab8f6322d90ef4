package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/audwanee/analysis"
	"github.com/lixenwraith/audwanee/attachment"
	"github.com/lixenwraith/audwanee/report"
)

func newAnalyzeCmd(c *cli) *cobra.Command {
	var (
		jsonOut bool
		style   string
		width   int
	)

	cmd := &cobra.Command{
		Use:   "analyze [prompt-file]",
		Short: "Analyze a prompt and print the report",
		Long: `Analyze sends the prompt and attachments to the configured model and
prints the risk meter, diagnostic checklist and suggestions. Use - to read
the prompt from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, _, err := c.readPrompt(cmd, args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			files, rejected := attachment.LoadAll(c.files)
			for _, r := range rejected {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: %v\n", r.Path, r.Err)
			}

			svc, err := c.newService(ctx)
			if err != nil {
				return err
			}
			res, err := svc.Analyze(ctx, prompt, files)
			if err != nil {
				c.logger.Debug("analysis failed", zap.NamedError("cause", analysis.Cause(err)))
				return err
			}

			if store := c.openHistory(); store != nil {
				defer store.Close()
				if id, err := store.Save(ctx, prompt, files, res); err != nil {
					c.logger.Warn("failed to save analysis", zap.Error(err))
				} else {
					c.logger.Debug("analysis saved", zap.String("id", id))
				}
			}

			if jsonOut {
				return report.JSON(cmd.OutOrStdout(), res)
			}
			return report.Render(cmd.OutOrStdout(), prompt, files, res, report.Options{Width: width, Style: style})
		},
	}

	addInputFlags(cmd, c)
	f := cmd.Flags()
	f.BoolVar(&jsonOut, "json", false, "Print the raw result as JSON")
	f.StringVar(&style, "style", "", "Report style: dark, light, notty (default auto)")
	f.IntVar(&width, "width", 80, "Report wrap width")
	return cmd
}
