// Command evaluate runs the whole evaluation pipeline once from local files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hiring-backend/internal/bootstrap"
	"hiring-backend/internal/shared/config"
	"hiring-backend/internal/shared/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	telemetry.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one candidate against a job description",
		Long: `Runs job description -> rubric -> resume -> optional GitHub profile -> verdict
and writes the PDF report.

Examples:
  evaluate --jd role.pdf --resume cv.docx
  evaluate --jd role.txt --resume cv.pdf --github octocat --out report.pdf`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, v)
		},
	}

	cmd.Flags().String("jd", "", "job description file (pdf, docx or txt)")
	cmd.Flags().String("resume", "", "resume file (pdf, docx or txt)")
	cmd.Flags().String("github", "", "GitHub username or profile URL; defaults to the one found in the resume")
	cmd.Flags().Bool("skip-profile", false, "skip the GitHub profile stage")
	cmd.Flags().StringArray("feedback", nil, "rubric refinement feedback, repeatable")
	cmd.Flags().String("out", "", "PDF output path (default: generated file name in the current directory)")
	cmd.Flags().String("log-level", "warn", "log level (debug, info, warn, error)")
	cmd.Flags().String("log-format", "console", "log format (console, json)")
	_ = cmd.MarkFlagRequired("jd")
	_ = cmd.MarkFlagRequired("resume")

	_ = v.BindPFlags(cmd.Flags())
	return cmd
}

func run(cmd *cobra.Command, v *viper.Viper) error {
	if logger, err := telemetry.New(v.GetString("log-format"), v.GetString("log-level")); err == nil {
		telemetry.SetLogger(logger)
	}

	cfg := config.Load()
	app, err := bootstrap.BuildCore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	if app.DB != nil {
		defer app.DB.Close()
	}

	in := pipelineInput{
		JobDescriptionPath: v.GetString("jd"),
		ResumePath:         v.GetString("resume"),
		Identifier:         v.GetString("github"),
		SkipProfile:        v.GetBool("skip-profile"),
		Feedback:           v.GetStringSlice("feedback"),
		OutPath:            v.GetString("out"),
	}
	return runPipeline(cmd.Context(), app.Evaluations, in, cmd.OutOrStdout())
}
