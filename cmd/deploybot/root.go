package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/waabox/deploybot/internal/agent"
	"github.com/waabox/deploybot/internal/chat"
	"github.com/waabox/deploybot/internal/config"
	"github.com/waabox/deploybot/internal/git"
	"github.com/waabox/deploybot/internal/logging"
	"github.com/waabox/deploybot/internal/pipeline"
	"github.com/waabox/deploybot/internal/tui"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "deploybot",
		Short: "Terminal dashboard for agent-driven deployments",
		Long: `deploybot analyzes a repository with a chain of remote agents
(code analysis, security scan, infrastructure planning) and, once you
approve, hands it to the deployment orchestrator.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath(), "config file")

	root.AddCommand(
		newAnalyzeCmd(&configPath),
		newConfigCmd(&configPath),
		newVersionCmd(),
	)
	return root
}

// gatewaySetup bundles the collaborators every command builds from config.
type gatewaySetup struct {
	cfg     config.Config
	gateway *agent.Client
	agents  *agent.Directory
}

func newGatewaySetup(cfg config.Config, logger *slog.Logger) gatewaySetup {
	agents := agent.NewDirectory()
	agents.Register(agent.CodeAnalysis, cfg.Agents.CodeAnalysis)
	agents.Register(agent.SecurityScanner, cfg.Agents.SecurityScanner)
	agents.Register(agent.Infrastructure, cfg.Agents.Infrastructure)
	agents.Register(agent.DeploymentOrchestrator, cfg.Agents.DeploymentOrchestrator)
	agents.Register(agent.ChatAssistant, cfg.Agents.ChatAssistant)

	client := agent.NewClient(cfg.Gateway.APIKey, cfg.Gateway.URL, cfg.GatewayTimeout()).WithLogger(logger)
	return gatewaySetup{cfg: cfg, gateway: client, agents: agents}
}

func (s gatewaySetup) controller(ctx context.Context, logger *slog.Logger) pipeline.Controller {
	return pipeline.New(ctx, s.gateway, s.agents, pipeline.Options{
		PhaseDelay:      s.cfg.PhaseDelay(),
		ResetDelay:      s.cfg.ResetDelay(),
		DefaultPlatform: s.cfg.PlatformOrDefault(),
		Logger:          logger,
	})
}

func runDashboard(ctx context.Context, configPath string) error {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger, closeLog, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	setup := newGatewaySetup(cfg, logger)
	ctrl := setup.controller(ctx, logger).WithDeployments(tui.SampleDeployments(time.Now()))
	session := chat.NewSession(ctx, setup.gateway, setup.agents.MustLookup(agent.ChatAssistant), logger)

	return tui.Run(ctx, tui.NewAppModel(tui.Options{
		Controller:      ctrl,
		Chat:            session,
		NotificationTTL: cfg.NotificationTTL(),
		RepoRef:         detectRepoRef(logger),
	}))
}

// detectRepoRef returns the origin URL of the checkout containing the
// working directory, or "" when there is none.
func detectRepoRef(logger *slog.Logger) string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	repo, err := git.DetectRepository(cwd)
	if err != nil {
		if !errors.Is(err, git.ErrNoRepository) {
			logger.Warn("could not read git remote", "dir", cwd, "error", err)
		}
		return ""
	}
	return repo.RemoteURL
}
