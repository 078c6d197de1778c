// Package main provides the CLI entrypoint for stridex.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stridelab/stridex/internal/config"
	"github.com/stridelab/stridex/internal/generator"
	"github.com/stridelab/stridex/internal/ingest"
	"github.com/stridelab/stridex/internal/model"
	"github.com/stridelab/stridex/internal/report"
	"github.com/stridelab/stridex/internal/server"
	"github.com/stridelab/stridex/internal/state"
	"github.com/stridelab/stridex/internal/store"
	"github.com/stridelab/stridex/internal/tui"
	"github.com/stridelab/stridex/internal/view"
)

const (
	defaultAddr     = "127.0.0.1:8423"
	defaultSubjects = 6
	defaultDays     = 5
)

var (
	dashboardData string

	importReplace bool

	showDay int

	sampleOut      string
	sampleSubjects int
	sampleDays     int
	sampleSeed     int64

	serveAddr string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "stridex",
		Short:         "Gait measurement dashboard",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDashboardCmd,
	}

	rootCmd.Flags().StringVar(&dashboardData, "data", "", "directory of payload files to load alongside the database")

	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newSubjectsCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newSampleCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "data", &dashboardData, fileCfg.Dashboard.DataDir)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	subjects, err := st.LoadAll(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load subjects: %w", err)
	}

	if dashboardData != "" {
		files, err := ingest.ExpandPaths([]string{dashboardData})
		if err != nil {
			return fmt.Errorf("failed to scan data directory: %w", err)
		}
		loaded, warnings := ingest.LoadFiles(files)
		for _, warning := range warnings {
			logErrln(warning)
		}
		for id, subject := range loaded {
			subjects[id] = subject
		}
	}

	if len(subjects) == 0 {
		return fmt.Errorf("no subjects loaded; import payloads with: stridex import <path>")
	}

	sel := state.New()
	sel.ReplaceAll(subjects)
	program := tea.NewProgram(tui.NewModel(sel), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <path>...",
		Short: "Import payload files into the database",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().BoolVar(&importReplace, "replace", false, "discard existing subjects before import")
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	files, err := ingest.ExpandPaths(args)
	if err != nil {
		return fmt.Errorf("failed to resolve paths: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no payload files found")
	}
	subjects, warnings := ingest.LoadFiles(files)
	for _, warning := range warnings {
		logErrln(warning)
	}
	if len(subjects) == 0 {
		return fmt.Errorf("no subjects could be read")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	if importReplace {
		err = st.ReplaceSubjects(ctx, subjects)
	} else {
		err = st.ImportSubjects(ctx, subjects)
	}
	if err != nil {
		return fmt.Errorf("failed to store subjects: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d subjects from %d files\n", len(subjects), len(files)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newSubjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subjects",
		Short: "List imported subjects",
		Args:  cobra.NoArgs,
		RunE:  runSubjectsCmd,
	}
}

func runSubjectsCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	summaries, err := st.ListSubjects(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list subjects: %w", err)
	}
	if len(summaries) == 0 {
		logErrln("No subjects imported. Import with: stridex import <path>")
		return nil
	}
	out := cmd.OutOrStdout()
	for _, summary := range summaries {
		days := ""
		if summary.Days > 0 {
			days = fmt.Sprintf("  %d days", summary.Days)
		}
		if _, err := fmt.Fprintf(out, "%-16s %s%s\n", summary.ID, strings.Join(summary.Sensors, ", "), days); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print the text report for one subject",
		Args:  cobra.ExactArgs(1),
		RunE:  runShowCmd,
	}
	cmd.Flags().IntVar(&showDay, "day", 0, "insole day index to show")
	return cmd
}

func runShowCmd(cmd *cobra.Command, args []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	subject, err := st.LoadSubject(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load subject: %w", err)
	}

	sel := state.New()
	sel.ReplaceAll(map[string]model.Subject{subject.ID: subject})
	sel.Select(subject.ID)
	sel.SelectDay(showDay)

	return report.Render(cmd.OutOrStdout(), view.Project(sel), report.TerminalWidth())
}

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate demo payload files",
		Args:  cobra.NoArgs,
		RunE:  runSampleCmd,
	}
	cmd.Flags().StringVar(&sampleOut, "out", "", "output directory (default: data dir)")
	cmd.Flags().IntVar(&sampleSubjects, "subjects", defaultSubjects, "number of subjects")
	cmd.Flags().IntVar(&sampleDays, "days", defaultDays, "insole days per subject")
	cmd.Flags().Int64Var(&sampleSeed, "seed", 0, "random seed (0 = time-based)")
	return cmd
}

func runSampleCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "subjects", &sampleSubjects, fileCfg.Sample.Subjects)
	applyIntConfig(cmd, "days", &sampleDays, fileCfg.Sample.Days)

	if sampleSubjects <= 0 {
		return fmt.Errorf("--subjects must be > 0")
	}
	if sampleDays <= 0 {
		return fmt.Errorf("--days must be > 0")
	}
	outDir := sampleOut
	if outDir == "" {
		outDir = config.DefaultDataDir()
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	gen := generator.New()
	if sampleSeed != 0 {
		gen = generator.NewSeeded(sampleSeed)
	}
	for i := 1; i <= sampleSubjects; i++ {
		id := fmt.Sprintf("DEMO_%03d", i)
		doc := gen.SubjectDocument(id, sampleDays)
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", id, err)
		}
		path := filepath.Join(outDir, id+".json")
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		logErrf("Wrote %s\n", path)
	}
	return nil
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all imported subjects",
		Args:  cobra.NoArgs,
		RunE:  runClearCmd,
	}
}

func runClearCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if err := st.ClearAll(context.Background()); err != nil {
		return fmt.Errorf("failed to clear subjects: %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), "Cleared all subjects"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve render plans over HTTP and websocket",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Serve.Addr)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	return server.New(st, serveAddr).Run()
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

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# stridex configuration
# Uncomment a value to enable it. CLI flags override config values.

[dashboard]
# data-dir = ""            # Payload directory loaded alongside the database

[serve]
# addr = %q   # Listen address

[sample]
# subjects = %d             # Subjects generated by: stridex sample
# days = %d                 # Insole days per generated subject
`,
		defaultAddr,
		defaultSubjects,
		defaultDays,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
