// Package main provides the CLI entrypoint for seaconfig.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/slaide/seaconfig/internal/acquisition"
	"github.com/slaide/seaconfig/internal/config"
	"github.com/slaide/seaconfig/internal/log"
	"github.com/slaide/seaconfig/internal/version"
	"github.com/slaide/seaconfig/internal/wellplate"
)

var (
	rootLogLevel string
	rootDBPath   string

	fileCfg config.FileConfig
	logger  zerolog.Logger
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "seaconfig",
		Short:             "Wellplate catalog and acquisition config tool",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&rootDBPath, "db", config.DefaultDBPath(), "path of the config store")

	rootCmd.AddCommand(newPlatesCmd())
	rootCmd.AddCommand(newPlateCmd())
	rootCmd.AddCommand(newOffsetCmd())
	rootCmd.AddCommand(newNewCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newUpgradeCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newMachineCmd())
	rootCmd.AddCommand(newStoreCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// setup loads the config file and configures logging before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "config" {
		// The editor must open even when the file does not parse.
		log.Configure(log.Config{Level: rootLogLevel})
		logger = commandLogger(cmd)
		return nil
	}
	loaded, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := loaded.Validate(wellplate.Default()); err != nil {
		return fmt.Errorf("invalid config %s: %w", config.DefaultConfigPath(), err)
	}
	fileCfg = loaded
	applyStringConfig(cmd, "log-level", &rootLogLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "db", &rootDBPath, fileCfg.Store.Path)

	log.Configure(log.Config{Level: rootLogLevel})
	logger = commandLogger(cmd)
	return nil
}

func commandLogger(cmd *cobra.Command) zerolog.Logger {
	return log.Derive(func(c *zerolog.Context) {
		*c = c.Str("component", "cli").Str("command", cmd.CommandPath())
	})
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

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build and schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeLines(cmd, []string{
				"seaconfig " + version.String(),
				"schema " + acquisition.CurrentVersion.String(),
			})
		},
	}
}

func writeLines(cmd *cobra.Command, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
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

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# seaconfig configuration
# Uncomment a value to enable it. CLI flags override config values.

[log]
# level = "info"                # debug, info, warn or error

[store]
# path = %q

[defaults]
# project = "screen-1"          # Project of new configs
# cell-line = "HeLa"            # Cell line of new configs
# wellplate = %q   # Catalog id used by "seaconfig new"
# autofocus = false             # Enable autofocus in new configs

# Machine settings copied into every new config.
# [[machine]]
# name = "Binning"
# handle = "binning"
# kind = "int"
# value = 1
#
# [[machine]]
# name = "Laser autofocus"
# handle = "laser_af"
# kind = "option"
# value = false
`,
		config.DefaultDBPath(),
		defaultPlateID,
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
