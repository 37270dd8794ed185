package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ghexplore/ghexplore-cli/internal/adapters/driven/config/file"
	"github.com/ghexplore/ghexplore-cli/internal/adapters/driven/connectivity"
	"github.com/ghexplore/ghexplore-cli/internal/adapters/driving/tui"
	"github.com/ghexplore/ghexplore-cli/internal/connectors/github"
	"github.com/ghexplore/ghexplore-cli/internal/core/domain"
	"github.com/ghexplore/ghexplore-cli/internal/core/services"
	"github.com/ghexplore/ghexplore-cli/internal/logger"
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Launch the interactive explorer",
	Long: `Launch the interactive terminal UI for exploring GitHub users and
their repositories. This is also what running ghexplore without a
subcommand does.`,
	RunE: runExplore,
}

func init() {
	rootCmd.AddCommand(exploreCmd)
}

// runExplore wires the services and launches the TUI.
func runExplore(cmd *cobra.Command, _ []string) error {
	// Panic recovery so a crash outside the fault boundary still prints
	// a stack trace instead of corrupting the terminal silently.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("ghexplore requires an interactive terminal")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := file.NewConfigStore("")
	if err != nil {
		// Config is optional; run with defaults.
		logger.Warn("Could not load config: %v", err)
		store = nil
	}

	gateway := buildGateway(ctx, store)

	searchSvc := services.NewSearchService(gateway)
	repoSvc := services.NewRepositoryService(gateway)

	monitor := connectivity.NewMonitor()
	monCtx, cancelMonitor := context.WithCancel(ctx)
	monitor.Start(monCtx)
	defer func() {
		cancelMonitor()
		monitor.Stop()
	}()

	ports := &tui.Ports{
		Search:       searchSvc,
		Repos:        repoSvc,
		Connectivity: monitor,
	}
	if err := ports.Validate(); err != nil {
		return err
	}

	app := tui.NewApp(ports).WithContext(ctx)

	if store != nil {
		if n := store.GetInt("search.per_page"); n > 0 {
			searchSvc.SetLimit(n)
		}
		if n := store.GetInt("search.timeout_seconds"); n > 0 {
			searchSvc.SetTimeout(time.Duration(n) * time.Second)
		}
		if n := store.GetInt("repos.per_page"); n > 0 {
			repoSvc.SetLimit(n)
		}
		if ms := store.GetInt("search.debounce_ms"); ms > 0 {
			app.SetDebounce(time.Duration(ms) * time.Millisecond)
		}
		app.SetDefaults(
			domain.ParseSortKey(store.GetString("ui.default_sort")),
			domain.ParseViewMode(store.GetString("ui.view_mode")),
		)
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

// buildGateway creates the GitHub client, authenticated when a token is
// available from config or the GITHUB_TOKEN environment variable.
func buildGateway(ctx context.Context, store *file.ConfigStore) *github.Client {
	token := os.Getenv("GITHUB_TOKEN")
	if store != nil {
		if t := store.GetString("github.token"); t != "" {
			token = t
		}
	}

	if token != "" {
		logger.Debug("Using authenticated GitHub client")
		return github.NewClientWithToken(ctx, token)
	}
	logger.Debug("Using unauthenticated GitHub client")
	return github.NewClient()
}
