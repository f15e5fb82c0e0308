// Package headless runs the deployment pipeline without a terminal UI and
// collects its results into a Report.
package headless

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/waabox/deploybot/internal/notify"
	"github.com/waabox/deploybot/internal/pipeline"
)

// ErrBlankRepository is returned when Run is given an empty repository reference.
var ErrBlankRepository = errors.New("repository reference is empty")

// Options controls a headless run.
type Options struct {
	// Approve issues the deployment call once the pipeline reaches review.
	Approve bool
	Logger  *slog.Logger
}

// Run drives ctrl through a full pipeline for repoRef and returns the
// collected report. The run ends at review, or after the deployment call
// completes when opts.Approve is set.
func Run(ctx context.Context, ctrl pipeline.Controller, repoRef string, opts Options) (Report, error) {
	if strings.TrimSpace(repoRef) == "" {
		return Report{}, ErrBlankRepository
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	p := tea.NewProgram(newModel(ctrl, repoRef, opts),
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)
	final, err := p.Run()
	if err != nil {
		return Report{}, fmt.Errorf("running pipeline: %w", err)
	}
	return final.(model).report, nil
}

type model struct {
	ctrl     pipeline.Controller
	start    tea.Cmd
	approve  bool
	finished bool
	report   Report
	logger   *slog.Logger
}

func newModel(ctrl pipeline.Controller, repoRef string, opts Options) model {
	ctrl, start := ctrl.WithoutAutoReset().Start(repoRef)
	return model{
		ctrl:    ctrl,
		start:   start,
		approve: opts.Approve,
		report:  Report{Repository: ctrl.RepoRef()},
		logger:  opts.Logger,
	}
}

func (m model) Init() tea.Cmd {
	return m.start
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case notify.PostMsg:
		m.report.Events = append(m.report.Events, Event{Kind: msg.Kind, Message: msg.Message})
		if msg.Kind == notify.KindError || msg.Kind == notify.KindWarning {
			m.logger.Warn(msg.Message, "repository", m.report.Repository)
		} else {
			m.logger.Info(msg.Message, "repository", m.report.Repository)
		}
		return m, nil

	case pipeline.CallCompletedMsg, pipeline.AdvanceMsg, pipeline.ResetMsg:
		var cmd tea.Cmd
		m.ctrl, cmd = m.ctrl.Update(msg)
		if m.finished {
			return m, cmd
		}
		if done, ok := msg.(pipeline.CallCompletedMsg); ok && done.Step == pipeline.LoadingDeploy {
			return m.finish(), tea.Sequence(cmd, tea.Quit)
		}
		if m.ctrl.Phase() != pipeline.PhaseReview || m.ctrl.Loading() != pipeline.LoadingNone {
			return m, cmd
		}
		if m.approve && m.ctrl.CanDeploy() {
			var deploy tea.Cmd
			m.ctrl, deploy = m.ctrl.ApproveAndDeploy()
			return m, tea.Batch(cmd, deploy)
		}
		return m.finish(), tea.Sequence(cmd, tea.Quit)
	}
	return m, nil
}

// finish snapshots the controller's results into the report.
func (m model) finish() model {
	m.finished = true
	m.report = m.report.withResults(m.ctrl)
	return m
}

// View is empty; the program runs without a renderer.
func (m model) View() string {
	return ""
}
