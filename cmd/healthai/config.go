// ABOUTME: CLI commands for inspecting and initialising configuration.
// ABOUTME: These run without opening storage.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/healthai/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Show or initialise configuration",
	Annotations: map[string]string{skipSetup: "true"},
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Print the effective configuration",
	Long:        `Print the configuration after defaults, the config file and HEALTHAI_* environment variables are merged.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipSetup: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		fmt.Print(string(out))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print the config file path",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipSetup: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(configFile())
	},
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write the default configuration file",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipSetup: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFile()
		if _, err := os.Stat(path); err == nil && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.Default().SaveTo(path); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		color.Green("✓ Wrote %s", path)
		return nil
	},
}

func configFile() string {
	if configPath != "" {
		return configPath
	}
	return config.GetConfigPath()
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing file")
	configCmd.AddCommand(configShowCmd, configPathCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}
