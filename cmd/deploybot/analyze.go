package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waabox/deploybot/internal/config"
	"github.com/waabox/deploybot/internal/headless"
	"github.com/waabox/deploybot/internal/logging"
)

func newAnalyzeCmd(configPath *string) *cobra.Command {
	var (
		approve bool
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "analyze [repository]",
		Short: "Run the analysis pipeline without the dashboard",
		Long: `Run code analysis, security scanning and infrastructure planning for a
repository and print the results. The repository defaults to the origin
remote of the current checkout. With --approve the deployment orchestrator
is invoked once every phase has run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(*configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			logger := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
			if cfg.LogFile != "" {
				fileLogger, closeLog, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
				if err != nil {
					return err
				}
				defer closeLog()
				logger = fileLogger
			}

			var repoRef string
			if len(args) == 1 {
				repoRef = args[0]
			} else {
				repoRef = detectRepoRef(logger)
			}

			setup := newGatewaySetup(cfg, logger)
			ctx := cmd.Context()
			report, err := headless.Run(ctx, setup.controller(ctx, logger), repoRef, headless.Options{
				Approve: approve,
				Logger:  logger,
			})
			if errors.Is(err, headless.ErrBlankRepository) {
				return errors.New("no repository given and none detected in the current directory")
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				err = report.WriteJSON(out)
			} else {
				err = report.WriteText(out)
			}
			if err != nil {
				return err
			}
			if approve && !report.Deployed() {
				return errors.New("deployment was not initiated")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&approve, "approve", false, "approve and deploy once analysis completes")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}
