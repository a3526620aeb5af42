package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/snek/internal/config"
)

var flagResolved bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default configuration",
	Long: `Print the built-in configuration as YAML, ready to copy to
~/.snek/configs/snek.yaml and edit.

With --resolved, print the configuration play would use after applying
--config and --difficulty.

Examples:
  snek config > ~/.snek/configs/snek.yaml
  snek config --resolved --difficulty hard`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagResolved, "resolved", false, "Print the effective configuration")
	configCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom snek config YAML")
	configCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runConfig(_ *cobra.Command, _ []string) {
	if !flagResolved {
		fmt.Print(string(config.GetDefaultYAML()))
		return
	}

	cfg, _, err := loadGameConfig()
	if err != nil {
		fail("%v", err)
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		fail("encoding config: %v", err)
	}
	fmt.Print(string(out))
}
