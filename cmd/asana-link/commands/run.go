// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-06
// Last Modified: 2026-03-10

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/similigh/asana-link/internal/actions"
	"github.com/similigh/asana-link/internal/core/config"
	"github.com/similigh/asana-link/internal/core/dispatch"
	"github.com/similigh/asana-link/internal/integrations/asana"
	"github.com/similigh/asana-link/internal/integrations/github"
	"github.com/similigh/asana-link/internal/logging"
	"github.com/similigh/asana-link/internal/tui"
)

var (
	eventPath string
	repoName  string
	prNumber  int
	noTUI     bool
)

// Step outputs.
const (
	outputResult   = "result"
	outputOutcomes = "outcomes"
	outputStatus   = "status"
)

var inputUsage = map[string]string{
	config.InputAsanaPAT:          "Asana personal access token",
	config.InputAction:            "Action to run: assert-link, add-comment, remove-comment, complete-task, move-section, update-fields",
	config.InputTriggerPhrase:     "Literal phrase required before each Asana link",
	config.InputGitHubToken:       "GitHub token (assert-link)",
	config.InputLinkRequired:      `"true" to fail the status when no link is found (assert-link)`,
	config.InputCommentID:         "Correlation id embedded in the comment (add-comment, remove-comment)",
	config.InputText:              "Comment text (add-comment)",
	config.InputIsPinned:          `"true" to pin the comment (add-comment)`,
	config.InputIsComplete:        `"true" or "false" (complete-task, update-fields)`,
	config.InputTargets:           "JSON list of targets (move-section, update-fields)",
	config.InputRequestTimeout:    "Timeout for each API call",
	config.InputStatusContext:     "Commit status context (assert-link)",
	config.InputStatusDescription: "Commit status description (assert-link)",
	config.InputAsanaBaseURL:      "Asana API base URL",
	config.InputGitHubBaseURL:     "GitHub API base URL",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the configured action against the pull request's tasks",
	Long: `Run the configured action against the Asana tasks linked from the pull
request that triggered the workflow.

The pull request is read from the event payload (GITHUB_EVENT_PATH or
--event). Outside a workflow, --repo and --pr fetch it from the GitHub API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	for _, name := range config.AllInputs {
		runCmd.Flags().String(name, "", inputUsage[name])
	}
	runCmd.Flags().StringVar(&eventPath, "event", "", "Path to the event payload (default: $GITHUB_EVENT_PATH)")
	runCmd.Flags().StringVar(&repoName, "repo", "", "Repository (owner/name) to fetch the pull request from")
	runCmd.Flags().IntVar(&prNumber, "pr", 0, "Pull request number to fetch")
	runCmd.Flags().BoolVar(&noTUI, "no-tui", false, "Disable the interactive progress view")
}

func runAction(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, cfgPath, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer logging.Flush(2 * time.Second)
	if cfgPath != "" {
		logger.Debug("loaded config", "path", cfgPath)
	}

	v := viper.New()
	if err := config.BindInputs(v, cmd.Flags(), cfg); err != nil {
		return err
	}
	inputs, err := config.LoadInputs(v)
	if err != nil {
		return err
	}

	deps, err := buildDependencies(ctx, inputs)
	if err != nil {
		return err
	}

	pr, err := loadPullRequest(ctx, inputs, deps)
	if err != nil {
		return err
	}
	if pr == nil {
		logger.Warn("no pull request in the event payload; no task references will be found")
	}

	registry := dispatch.NewRegistry()
	actions.RegisterAll(registry)

	inv := &dispatch.Invocation{
		Inputs:      inputs,
		PullRequest: pr,
		Logger:      logger,
	}

	var result *dispatch.Result
	if useTUI() {
		result, err = runWithTUI(ctx, registry, deps, inv)
	} else {
		result, err = dispatch.Run(ctx, registry, deps, inv)
	}
	if err != nil {
		return err
	}

	logger.Info(summary(result))
	if failed := result.Failed(); len(failed) > 0 {
		logger.Warn(fmt.Sprintf("%d of %d tasks failed", len(failed), len(result.Outcomes)))
	}
	return writeOutputs(github.WorkflowFromEnv(), result)
}

func setupLogger(cfg *config.Config) (*slog.Logger, error) {
	flagLevel := logLevel
	if flagLevel == "" && verbose {
		flagLevel = "debug"
	}
	level, warning, err := logging.ResolveLevel(flagLevel, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	env := "local"
	if github.IsActions() {
		env = "github-actions"
	}
	logger, err := logging.Init(logging.Config{
		Level:     level,
		SentryDSN: os.Getenv("SENTRY_DSN"),
		Env:       env,
		Version:   Version,
		Actions:   github.IsActions(),
	})
	if err != nil {
		return nil, err
	}
	logger = logger.With("run_id", uuid.NewString())
	if warning != "" {
		logger.Warn(warning)
	}
	return logger, nil
}

func buildDependencies(ctx context.Context, inputs *config.Inputs) (*dispatch.Dependencies, error) {
	deps := &dispatch.Dependencies{
		Asana: asana.NewClient(ctx, inputs.AsanaPAT,
			asana.WithBaseURL(inputs.AsanaBaseURL),
			asana.WithTimeout(inputs.RequestTimeout),
		),
	}

	if inputs.GitHubToken != "" {
		gh, err := github.NewClient(ctx, inputs.GitHubToken, github.WithBaseURL(inputs.GitHubBaseURL))
		if err != nil {
			return nil, err
		}
		deps.GitHub = gh
	}
	return deps, nil
}

// loadPullRequest reads the triggering pull request from the event payload,
// or fetches it when --repo and --pr are given.
func loadPullRequest(ctx context.Context, inputs *config.Inputs, deps *dispatch.Dependencies) (*dispatch.PullRequest, error) {
	if repoName != "" && prNumber > 0 {
		owner, repo, err := github.SplitRepo(repoName)
		if err != nil {
			return nil, err
		}
		gh, ok := deps.GitHub.(*github.Client)
		if !ok {
			gh, err = github.NewClient(ctx, os.Getenv("GITHUB_TOKEN"), github.WithBaseURL(inputs.GitHubBaseURL))
			if err != nil {
				return nil, err
			}
		}
		fetched, err := gh.GetPullRequest(ctx, owner, repo, prNumber)
		if err != nil {
			return nil, err
		}
		return toPullRequest(github.FromPullRequest(owner, repo, fetched)), nil
	}

	path := eventPath
	if path == "" {
		path = os.Getenv("GITHUB_EVENT_PATH")
	}
	if path == "" {
		return nil, nil
	}
	info, err := github.LoadEvent(path)
	if err != nil {
		return nil, err
	}
	return toPullRequest(info), nil
}

func toPullRequest(info *github.PullRequestInfo) *dispatch.PullRequest {
	if info == nil {
		return nil
	}
	return &dispatch.PullRequest{
		Owner:   info.Owner,
		Repo:    info.Repo,
		Number:  info.Number,
		Body:    info.Body,
		HeadSHA: info.HeadSHA,
	}
}

// isTerminal reports whether stdout is attached to a terminal.
var isTerminal = func() bool {
	return term.IsTerminal(os.Stdout.Fd())
}

// runProgram runs the progress view until it quits.
var runProgram = func(m tea.Model) error {
	_, err := tea.NewProgram(m).Run()
	return err
}

// useTUI reports whether to show the progress view: only on a terminal and
// never in CI.
func useTUI() bool {
	if noTUI {
		return false
	}
	if os.Getenv("CI") == "true" || github.IsActions() {
		return false
	}
	return isTerminal()
}

// runWithTUI runs the action in a goroutine and renders its progress.
func runWithTUI(ctx context.Context, registry *dispatch.Registry, deps *dispatch.Dependencies, inv *dispatch.Invocation) (*dispatch.Result, error) {
	events := make(chan dispatch.ProgressEvent)
	inv.Reporter = &dispatch.ChannelReporter{Events: events}

	// The view owns the terminal; log lines would tear it.
	logger := inv.Logger
	inv.Logger = logging.Quiet(logger)

	type outcome struct {
		result *dispatch.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		defer close(events)
		result, err := dispatch.Run(ctx, registry, deps, inv)
		done <- outcome{result: result, err: err}
	}()

	runErr := runProgram(tui.NewModel(events, 2*inv.Inputs.RequestTimeout))

	// Keep the action unblocked if the view quit early.
	go func() {
		for range events {
		}
	}()

	o := <-done
	if runErr != nil {
		logger.Warn("progress view failed; the action ran without it", "error", runErr)
	}
	return o.result, o.err
}

// writeOutputs publishes the step outputs.
func writeOutputs(w *github.Workflow, result *dispatch.Result) error {
	items, err := json.Marshal(result.Items)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := w.SetOutput(outputResult, string(items)); err != nil {
		return err
	}

	outcomes, err := json.Marshal(result.Outcomes)
	if err != nil {
		return fmt.Errorf("failed to encode outcomes: %w", err)
	}
	if err := w.SetOutput(outputOutcomes, string(outcomes)); err != nil {
		return err
	}

	if result.Status != "" {
		return w.SetOutput(outputStatus, result.Status)
	}
	return nil
}

// summary renders a one-line description of a result for humans.
func summary(result *dispatch.Result) string {
	counts := map[dispatch.OutcomeStatus]int{}
	for _, o := range result.Outcomes {
		counts[o.Status]++
	}
	parts := []string{fmt.Sprintf("%s: %d items", result.Action, len(result.Items))}
	for _, s := range []dispatch.OutcomeStatus{dispatch.OutcomeOK, dispatch.OutcomeSkipped, dispatch.OutcomeFailed} {
		if counts[s] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[s], s))
		}
	}
	return strings.Join(parts, ", ")
}
