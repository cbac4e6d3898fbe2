// Package main provides the CLI entrypoint for segstat.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/segstat/internal/config"
	"github.com/verte-zerg/segstat/internal/model"
	"github.com/verte-zerg/segstat/internal/render"
	"github.com/verte-zerg/segstat/internal/reportui"
	"github.com/verte-zerg/segstat/internal/stats"
	"github.com/verte-zerg/segstat/internal/widget"
)

const (
	formatText = "text"
	formatJSON = "json"
)

var (
	verbose bool
	dbPath  string

	reportCfg      = model.DefaultReportConfig()
	featureCfg     = model.DefaultFeatureConfig()
	reportSegments []string
	reportFiles    []string
	reportFormat   string
	reportTUI      bool
	reportColor    bool
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "segstat",
		Short:         "Feature statistics and segment comparison reports",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "path to the profile database")

	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newSegmentCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the most common features or compare segments",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	defaults := model.DefaultReportConfig()
	cmd.Flags().IntVar(&reportCfg.TopN, "top-n", defaults.TopN, "values per table in the population report")
	cmd.Flags().IntVar(&reportCfg.DiffTopN, "diff-top-n", defaults.DiffTopN, "rows per direction in comparison tables")
	cmd.Flags().Float64Var(&reportCfg.DiffLimit, "diff-limit", defaults.DiffLimit, "minimum absolute ratio difference (0-1)")
	cmd.Flags().IntVar(&reportCfg.MinUsersFloor, "min-users", defaults.MinUsersFloor, "minimum holders before a feature is compared")
	cmd.Flags().IntVar(&reportCfg.MaxTables, "max-tables", defaults.MaxTables, "maximum number of tables")
	cmd.Flags().IntVar(&reportCfg.Workers, "workers", defaults.Workers, "groups computed in parallel")
	cmd.Flags().Float64Var(&reportCfg.MaxPValue, "max-p-value", defaults.MaxPValue, "drop differences with a larger p-value (0 disables)")
	addFeatureFlags(cmd)
	cmd.Flags().StringArrayVar(&reportSegments, "segment", nil, "stored segment name (repeatable, at most two)")
	cmd.Flags().StringArrayVar(&reportFiles, "segment-file", nil, "file with one user ID per line (repeatable)")
	cmd.Flags().StringVar(&reportFormat, "format", formatText, "output format: text or json")
	cmd.Flags().BoolVar(&reportTUI, "interactive", false, "browse the report in a pager")
	cmd.Flags().BoolVar(&reportColor, "color", false, "force colored output")
	return cmd
}

func addFeatureFlags(cmd *cobra.Command) {
	defaults := model.DefaultFeatureConfig()
	cmd.Flags().IntVar(&featureCfg.Cutoff, "cutoff", defaults.Cutoff, "event count that marks a user as frequent")
	cmd.Flags().IntVar(&featureCfg.MaxValueLen, "max-value-len", defaults.MaxValueLen, "property values are truncated to this many characters")
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	if err := loadCommandConfig(cmd); err != nil {
		return err
	}
	if err := validateReportConfig(reportCfg); err != nil {
		return err
	}
	if err := validateFeatureConfig(featureCfg); err != nil {
		return err
	}
	if reportFormat != formatText && reportFormat != formatJSON {
		return fmt.Errorf("--format must be %q or %q", formatText, formatJSON)
	}

	ctx := context.Background()
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	index, err := loadIndex(ctx, st)
	if err != nil {
		return err
	}
	info, err := resolveSegments(ctx, st, reportSegments, reportFiles)
	if err != nil {
		return err
	}

	widgets, err := stats.BuildReport(index, info, reportCfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	logger.Debug("report built", "widgets", len(widgets), "workers", reportCfg.Workers)

	out := cmd.OutOrStdout()
	switch {
	case reportTUI:
		program := tea.NewProgram(reportui.NewModel(widgets, !noColor()), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run report pager: %w", err)
		}
		return nil
	case reportFormat == formatJSON:
		return widget.WriteJSON(out, widgets)
	default:
		opts := render.Options{Width: render.TerminalWidth(), Color: render.ShouldUseColor(out, reportColor)}
		return render.Write(out, widgets, opts)
	}
}

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Describe the feature index built from the stored profiles",
		Args:  cobra.NoArgs,
		RunE:  runSummaryCmd,
	}
	addFeatureFlags(cmd)
	return cmd
}

func runSummaryCmd(cmd *cobra.Command, _ []string) error {
	if err := loadCommandConfig(cmd); err != nil {
		return err
	}
	if err := validateFeatureConfig(featureCfg); err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	index, err := loadIndex(context.Background(), st)
	if err != nil {
		return err
	}
	summary, err := stats.Describe(index)
	if err != nil {
		return fmt.Errorf("failed to describe index: %w", err)
	}
	out := cmd.OutOrStdout()
	return render.Write(out, []widget.Widget{stats.SummaryWidget(summary)}, render.Options{Width: render.TerminalWidth()})
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		logger.Info("created config", "path", path)
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// loadCommandConfig applies file values to every flag the user did not set.
func loadCommandConfig(cmd *cobra.Command) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFileConfig(cmd, fileCfg)
	return nil
}

func applyFileConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	r := fileCfg.Report
	applyIntConfig(cmd, "top-n", &reportCfg.TopN, r.TopN)
	applyIntConfig(cmd, "diff-top-n", &reportCfg.DiffTopN, r.DiffTopN)
	applyFloatConfig(cmd, "diff-limit", &reportCfg.DiffLimit, r.DiffLimit)
	applyIntConfig(cmd, "min-users", &reportCfg.MinUsersFloor, r.MinUsers)
	applyIntConfig(cmd, "max-tables", &reportCfg.MaxTables, r.MaxTables)
	applyIntConfig(cmd, "workers", &reportCfg.Workers, r.Workers)
	applyFloatConfig(cmd, "max-p-value", &reportCfg.MaxPValue, r.MaxPValue)
	applyBoolConfig(cmd, "color", &reportColor, r.Color)

	f := fileCfg.Features
	applyIntConfig(cmd, "cutoff", &featureCfg.Cutoff, f.Cutoff)
	applyIntConfig(cmd, "max-value-len", &featureCfg.MaxValueLen, f.MaxValueLen)
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag == nil || flag.Changed {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag == nil || flag.Changed {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag == nil || flag.Changed {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	r := model.DefaultReportConfig()
	f := model.DefaultFeatureConfig()
	return fmt.Sprintf(`# segstat configuration
# Uncomment a value to enable it. CLI flags override config values.

[report]
# top-n = %d              # Values per table in the population report
# diff-top-n = %d          # Rows per direction in comparison tables
# diff-limit = %.2f       # Minimum absolute ratio difference (0-1)
# min-users = %d          # Minimum holders before a feature is compared
# max-tables = %d         # Maximum number of tables
# workers = %d             # Groups computed in parallel
# max-p-value = 0.0       # Drop differences with a larger p-value (0 disables)
# color = false           # Force colored output

[features]
# cutoff = %d              # Event count that marks a user as frequent
# max-value-len = %d      # Property values are truncated to this many characters
`,
		r.TopN,
		r.DiffTopN,
		r.DiffLimit,
		r.MinUsersFloor,
		r.MaxTables,
		r.Workers,
		f.Cutoff,
		f.MaxValueLen,
	)
}

func validateReportConfig(cfg model.ReportConfig) error {
	if cfg.TopN <= 0 {
		return fmt.Errorf("--top-n must be > 0")
	}
	if cfg.DiffTopN <= 0 {
		return fmt.Errorf("--diff-top-n must be > 0")
	}
	if cfg.DiffLimit < 0 || cfg.DiffLimit > 1 {
		return fmt.Errorf("--diff-limit must be between 0 and 1")
	}
	if cfg.MinUsersFloor < 0 {
		return fmt.Errorf("--min-users must be >= 0")
	}
	if cfg.MaxTables <= 0 {
		return fmt.Errorf("--max-tables must be > 0")
	}
	if cfg.Workers <= 0 {
		return fmt.Errorf("--workers must be > 0")
	}
	if cfg.MaxPValue < 0 || cfg.MaxPValue > 1 {
		return fmt.Errorf("--max-p-value must be between 0 and 1")
	}
	return nil
}

func validateFeatureConfig(cfg model.FeatureConfig) error {
	if cfg.Cutoff <= 0 {
		return fmt.Errorf("--cutoff must be > 0")
	}
	if cfg.MaxValueLen <= 0 {
		return fmt.Errorf("--max-value-len must be > 0")
	}
	return nil
}

func noColor() bool {
	return os.Getenv("NO_COLOR") != ""
}
