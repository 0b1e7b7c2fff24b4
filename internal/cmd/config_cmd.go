package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/cmdpal/internal/config"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Get or set configuration values",
	GroupID: groupSetup,
	Long: `Get or set cmdpal configuration values.

Configuration is stored in ~/.config/cmdpal/config.yaml (XDG compliant).

Keys are in the format: section.key
Sections: search, picker, log

Examples:
  cmdpal config list                        # List all keys
  cmdpal config get search.max_results      # Show one value
  cmdpal config set picker.layout bottom-up # Change a value`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigList(cmd, args)
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration keys",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return getConfig(cmd.OutOrStdout(), cfg, args[0])
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := config.DefaultPaths()
		// Environment overrides must not end up in the saved file.
		cfg, err := config.ReadFile(paths.ConfigFile())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return setConfig(cmd.OutOrStdout(), cfg, paths, args[0], args[1])
	},
}

func init() {
	configCmd.AddCommand(configListCmd, configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	paths := config.DefaultPaths()
	cfg, err := config.LoadFromFile(paths.ConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return listConfig(cmd.OutOrStdout(), cfg, paths)
}

func listConfig(w io.Writer, cfg *config.Config, paths *config.Paths) error {
	fmt.Fprintln(w, boldStyle.Render("Configuration Keys"))
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintln(w)

	var failedKeys []string
	for _, key := range config.ListKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			failedKeys = append(failedKeys, key)
			continue
		}

		displayValue := value
		if displayValue == "" {
			displayValue = dimStyle.Render("(not set)")
		}
		fmt.Fprintf(w, "  %s = %s\n", keyStyle.Render(key), displayValue)
	}

	if len(cfg.Picker.Tabs) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, boldStyle.Render("Picker Tabs"))
		for _, t := range cfg.Picker.Tabs {
			category := t.Category
			if category == "" {
				category = dimStyle.Render("(all)")
			}
			fmt.Fprintf(w, "  %s %q %s\n", keyStyle.Render(t.ID), t.Label, category)
		}
	}

	if len(failedKeys) > 0 {
		fmt.Fprintf(w, "\n%s Failed to retrieve keys: %s\n", warnStyle.Render("Warning:"), strings.Join(failedKeys, ", "))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Config file: %s\n", paths.ConfigFile())
	return nil
}

func getConfig(w io.Writer, cfg *config.Config, key string) error {
	value, err := cfg.Get(key)
	if err != nil {
		return err
	}

	if value == "" {
		fmt.Fprintln(w, dimStyle.Render("(not set)"))
	} else {
		fmt.Fprintln(w, value)
	}
	return nil
}

func setConfig(w io.Writer, cfg *config.Config, paths *config.Paths, key, value string) error {
	if err := cfg.Set(key, value); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	if err := cfg.SaveToFile(paths.ConfigFile()); err != nil {
		return err
	}

	fmt.Fprintf(w, "%s = %s\n", keyStyle.Render(key), value)
	fmt.Fprintf(w, "Saved to: %s\n", paths.ConfigFile())
	return nil
}
