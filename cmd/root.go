package cmd

import (
	"fmt"
	"io"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"readinghall-dashboard/config"
	"readinghall-dashboard/logging"
	"readinghall-dashboard/service"
	"readinghall-dashboard/tui"
)

const appName = "readinghall-dashboard"

// app carries what every command needs once flags and config are resolved.
type app struct {
	version string
	commit  string

	cfg    *config.Config
	log    *zap.Logger
	client *service.Client

	flags struct {
		apiURL   string
		logLevel string
		hall     string
		interval time.Duration
		rows     int
		columns  int
	}
}

// NewRootCmd builds the command tree. The root command runs the dashboard.
func NewRootCmd(version string, commit string) *cobra.Command {
	a := &app{version: version, commit: commit}

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Reading hall occupancy dashboard",
		Long: `Live seat occupancy, usage statistics and active sessions of the
reading halls, refreshed from the reading hall API. Run without a command to
open the dashboard; use the subcommands for one-off operator tasks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, cmd.Root() == cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
		RunE: a.runDashboard,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.flags.apiURL, "api-url", "", "reading hall API root (READINGHALL_API_URL)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "debug, info, warn or error (READINGHALL_LOG_LEVEL)")
	rootCmd.Flags().DurationVar(&a.flags.interval, "interval", 0, "refresh interval of the dashboard and sessions views")
	rootCmd.Flags().StringVar(&a.flags.hall, "hall", "", "hall shown when the hall list is unavailable")
	rootCmd.Flags().IntVar(&a.flags.rows, "rows", 0, "seat grid rows")
	rootCmd.Flags().IntVar(&a.flags.columns, "columns", 0, "seat grid columns")

	rootCmd.AddCommand(
		a.overviewCmd(),
		a.usageCmd(),
		a.hallsCmd(),
		a.seatsCmd(),
		a.sessionsCmd(),
		a.usersCmd(),
		a.checkInCmd(),
		a.checkOutCmd(),
		a.configCmd(),
		a.detectCmd(),
		a.versionCmd(),
	)
	return rootCmd
}

// Execute runs the root command and returns the error (for main to exit on).
func Execute(version string, commit string) error {
	return NewRootCmd(version, commit).Execute()
}

func (a *app) setup(cmd *cobra.Command, interactive bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL = a.flags.apiURL
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.flags.logLevel
	}
	if flags.Changed("interval") {
		cfg.PollInterval = a.flags.interval
	}
	if flags.Changed("hall") {
		cfg.DefaultHall = a.flags.hall
	}
	if flags.Changed("rows") {
		cfg.Grid.Rows = a.flags.rows
	}
	if flags.Changed("columns") {
		cfg.Grid.Columns = a.flags.columns
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(cfg, interactive)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log.With(zap.String("command", cmd.Name()))
	a.client = service.NewClient(
		&http.Client{Timeout: cfg.HTTPTimeout},
		service.WithBaseURL(cfg.APIURL),
		service.WithMaxAttempts(cfg.HTTPAttempts),
		service.WithLogger(a.log),
	)
	a.log.Debug("configured", zap.String("api", a.client.BaseURL()), zap.Duration("interval", cfg.PollInterval))
	return nil
}

func (a *app) runDashboard(cmd *cobra.Command, args []string) error {
	// A configured zero disables timed refresh; tui.Options treats zero as
	// the default interval.
	interval := a.cfg.PollInterval
	if interval == 0 {
		interval = -1
	}
	dashboard := tui.New(tui.Options{
		API:         a.client,
		Logger:      a.log,
		Interval:    interval,
		Rows:        a.cfg.Grid.Rows,
		Columns:     a.cfg.Grid.Columns,
		DefaultHall: a.cfg.DefaultHall,
		UsageDays:   a.cfg.UsageDays,
		Context:     cmd.Context(),
	})
	a.log.Info("dashboard started", zap.String("api", a.client.BaseURL()))
	if _, err := tea.NewProgram(dashboard, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s", appName, a.version)
			if a.commit != "none" && a.commit != "" {
				fmt.Fprintf(out, " (%s)", a.commit)
			}
			fmt.Fprintln(out)
		},
	}
}

func newTable(out io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(header)
	t.SetStyle(table.StyleLight)
	return t
}

func stdinFor(cmd *cobra.Command) io.ReadCloser {
	if rc, ok := cmd.InOrStdin().(io.ReadCloser); ok {
		return rc
	}
	return io.NopCloser(cmd.InOrStdin())
}

func stdoutFor(cmd *cobra.Command) io.WriteCloser {
	return nopWriteCloser{cmd.OutOrStdout()}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
