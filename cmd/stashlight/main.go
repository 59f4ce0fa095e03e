package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stashlight/stashlight/internal/analysis"
	"github.com/stashlight/stashlight/internal/config"
	"github.com/stashlight/stashlight/internal/diag"
	"github.com/stashlight/stashlight/internal/log"
	"github.com/stashlight/stashlight/internal/registry"
)

func main() {
	var (
		configPath    string
		schemaVersion string
		schemaDir     string
		jsonOutput    bool
		pos           int
	)

	rootCmd := &cobra.Command{
		Use:   "stashlight",
		Short: "Editing intelligence for Logstash pipeline configurations",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path")
	rootCmd.PersistentFlags().StringVar(&schemaVersion, "schema-version", "", "Schema version to activate")
	rootCmd.PersistentFlags().StringVar(&schemaDir, "schema-dir", "", "Directory of extra schema snapshot files")

	checkCmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Parse and validate a pipeline configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAnalyzer(configPath, schemaVersion, schemaDir)
			if err != nil {
				return err
			}
			return runCheck(a, args[0], jsonOutput)
		},
	}
	checkCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output diagnostics as JSON")

	completeCmd := &cobra.Command{
		Use:   "complete FILE",
		Short: "List completion candidates at a byte offset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAnalyzer(configPath, schemaVersion, schemaDir)
			if err != nil {
				return err
			}
			return runComplete(a, args[0], pos, jsonOutput)
		},
	}
	completeCmd.Flags().IntVar(&pos, "pos", 0, "Byte offset of the cursor")
	completeCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output candidates as JSON")
	_ = completeCmd.MarkFlagRequired("pos")

	contextCmd := &cobra.Command{
		Use:   "context FILE",
		Short: "Describe the structural context at a byte offset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAnalyzer(configPath, schemaVersion, schemaDir)
			if err != nil {
				return err
			}
			return runContext(a, args[0], pos, jsonOutput)
		},
	}
	contextCmd.Flags().IntVar(&pos, "pos", 0, "Byte offset of the cursor")
	contextCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output context as JSON")
	_ = contextCmd.MarkFlagRequired("pos")

	versionsCmd := &cobra.Command{
		Use:   "versions",
		Short: "List available schema versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAnalyzer(configPath, schemaVersion, schemaDir)
			if err != nil {
				return err
			}
			active := a.ActiveVersion()
			for _, v := range a.Versions() {
				marker := " "
				if v == active {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, v)
			}
			return nil
		},
	}

	rootCmd.AddCommand(checkCmd, completeCmd, contextCmd, versionsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newAnalyzer(configPath, schemaVersion, schemaDir string) (*analysis.Analyzer, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config load failed (%v), using defaults\n", err)
		cfg = config.Default()
	}
	for _, warning := range cfg.Validate() {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}

	// Flags override file and environment.
	if schemaVersion == "" {
		schemaVersion = cfg.Schema.Version
	}
	if schemaDir == "" {
		schemaDir = cfg.Schema.Dir
	}

	logger := log.New(log.Config{
		Level:  log.ParseLevel(cfg.Log.Level),
		Output: os.Stderr,
		Prefix: "stashlight",
	})

	var opts []registry.Option
	if schemaDir != "" {
		opts = append(opts, registry.WithDir(schemaDir))
	}
	a := analysis.New(registry.New(opts...), analysis.WithLogger(logger))

	if schemaVersion != "" {
		if err := a.SwitchVersion(schemaVersion); err != nil {
			return nil, fmt.Errorf("activating schema %s: %w", schemaVersion, err)
		}
	}
	return a, nil
}

func runCheck(a *analysis.Analyzer, path string, jsonOutput bool) error {
	source, err := readSource(path)
	if err != nil {
		return err
	}

	result := a.Check(source)

	if jsonOutput {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
	} else {
		for _, d := range result.Diagnostics {
			line, col := lineCol(source, d.From)
			fmt.Printf("%s:%d:%d: %s: %s\n", path, line, col, d.Severity, d.Message)
		}
		if len(result.Diagnostics) == 0 {
			fmt.Printf("%s: ok (schema %s)\n", path, a.ActiveVersion())
		}
	}

	if !result.OK {
		return fmt.Errorf("%s does not parse", path)
	}
	return nil
}

func runComplete(a *analysis.Analyzer, path string, pos int, jsonOutput bool) error {
	source, err := readSource(path)
	if err != nil {
		return err
	}

	result := a.CompletionAt(source, pos)

	if jsonOutput {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return nil
	}
	for _, opt := range result.Options {
		fmt.Printf("%-24s %s\n", opt.Label, opt.Detail)
	}
	return nil
}

func runContext(a *analysis.Analyzer, path string, pos int, jsonOutput bool) error {
	source, err := readSource(path)
	if err != nil {
		return err
	}

	info := a.ContextAt(source, pos)

	if jsonOutput {
		data, _ := json.MarshalIndent(info, "", "  ")
		fmt.Println(string(data))
		return nil
	}
	fmt.Printf("kind: %s\n", info.Kind)
	if info.SectionType != "" {
		fmt.Printf("section: %s\n", info.SectionType)
	}
	if info.PluginName != "" {
		fmt.Printf("plugin: %s\n", info.PluginName)
	}
	if info.OptionName != "" {
		fmt.Printf("option: %s\n", info.OptionName)
	}
	for _, p := range info.Plugins {
		fmt.Printf("  %-24s %s\n", p.Name, p.Description)
	}
	for _, o := range info.Options {
		required := ""
		if o.Required {
			required = " (required)"
		}
		fmt.Printf("  %-24s %s%s\n", o.Name, o.Type, required)
	}
	return nil
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// lineCol converts a byte offset to 1-based line and column.
func lineCol(source string, offset int) (int, int) {
	offset = diag.ClampTo(offset, source)
	line, col := 1, 1
	for i := 0; i < offset; i++ {
		if source[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
