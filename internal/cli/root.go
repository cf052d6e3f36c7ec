// Package cli implements the managerctl command tree over the client SDK.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Plabrum/managerlab-sub002/internal/api"
	"github.com/Plabrum/managerlab-sub002/internal/auth"
	"github.com/Plabrum/managerlab-sub002/internal/config"
	"github.com/Plabrum/managerlab-sub002/internal/observ"
	"github.com/Plabrum/managerlab-sub002/internal/query"
)

var (
	configPath string
	verbose    bool

	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	typingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
)

var rootCmd = &cobra.Command{
	Use:   "managerctl",
	Short: "Command-line client for the ManagerLab backend",
	Long: `managerctl talks to a ManagerLab backend: browse brands, campaigns,
roster and invoices, run object actions, follow comment threads live, and
inspect dashboards.

Configuration comes from ~/.managerlab/config.yaml and environment
variables (MANAGERLAB_API_URL, MANAGERLAB_WS_URL, ...).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("error: ")+renderErr(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.managerlab/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// env bundles what every command needs.
type env struct {
	cfg      *config.Config
	logger   *zap.Logger
	client   *api.Client
	sessions *auth.SessionStore
	cache    *query.Cache
}

func setup() (*env, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadConfigFrom(path)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger, err := observ.NewLogger(cfg.Env, level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	sessions := auth.NewSessionStore(cfg.SessionFile)
	return &env{
		cfg:      cfg,
		logger:   logger,
		client:   api.New(cfg.APIBaseURL, sessions, logger),
		sessions: sessions,
		cache:    query.New(),
	}, nil
}

// renderErr prefers the API error's user-facing message over Go error
// chains.
func renderErr(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return err.Error()
}

// parseKeyValues turns repeated k=v flags into a map.
func parseKeyValues(pairs []string) (map[string]string, error) {
	out := map[string]string{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("expected key=value, got %q", p)
		}
		out[k] = v
	}
	return out, nil
}
