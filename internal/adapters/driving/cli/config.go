package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sopsearch-cli/internal/adapters/driven/ai"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application configuration",
	Long: `View and edit configuration stored in the TOML config file.

Keys use dot notation, e.g. generation.provider or knowledge.dirs.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE:  runConfigPath,
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configured generation providers",
	RunE:  runConfigCheck,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if err := initConfig(); err != nil {
		return err
	}

	cmd.Println("Current Configuration")
	cmd.Println("=====================")
	cmd.Println()

	cmd.Println("[Knowledge]")
	for _, dir := range settings.KnowledgeDirs {
		cmd.Printf("  Dir: %s\n", dir)
	}
	if settings.ChunkCap > 0 {
		cmd.Printf("  Chunk cap: %d\n", settings.ChunkCap)
	}
	cmd.Println()

	cmd.Println("[Generation]")
	if settings.Generator.IsConfigured() {
		cmd.Printf("  Provider: %s\n", settings.Generator.Provider)
		if settings.Generator.Model != "" {
			cmd.Printf("  Model: %s\n", settings.Generator.Model)
		}
		if settings.Generator.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Generator.APIKey))
		}
	} else {
		cmd.Println("  Provider: (not configured, answers stay offline)")
	}
	if settings.Fallback.IsConfigured() {
		cmd.Printf("  Fallback: %s", settings.Fallback.Provider)
		if settings.Fallback.Model != "" {
			cmd.Printf(" (%s)", settings.Fallback.Model)
		}
		cmd.Println()
	}
	if settings.GenerationBudget > 0 {
		cmd.Printf("  Budget: %d calls/minute\n", settings.GenerationBudget)
	}
	cmd.Println()

	if settings.MinScore > 0 {
		cmd.Println("[Ranking]")
		cmd.Printf("  Min score: %.0f\n", settings.MinScore)
		cmd.Println()
	}

	cmd.Printf("Config file: %s\n", configStore.Path())
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := initConfig(); err != nil {
		return err
	}

	key, raw := args[0], args[1]
	if err := configStore.Set(key, coerceValue(raw)); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if err := initConfig(); err != nil {
		return err
	}
	cmd.Println(configStore.Path())
	return nil
}

func runConfigCheck(cmd *cobra.Command, _ []string) error {
	if err := initConfig(); err != nil {
		return err
	}

	checked := false
	if settings.Generator.IsConfigured() {
		checked = true
		cmd.Printf("Checking %s... ", settings.Generator.Provider)
		if err := ai.ValidateGenerator(&settings.Generator); err != nil {
			cmd.Printf("FAILED: %v\n", err)
		} else {
			cmd.Println("OK")
		}
	}
	if settings.Fallback.IsConfigured() {
		checked = true
		cmd.Printf("Checking fallback %s... ", settings.Fallback.Provider)
		if err := ai.ValidateGenerator(&settings.Fallback); err != nil {
			cmd.Printf("FAILED: %v\n", err)
		} else {
			cmd.Println("OK")
		}
	}

	if !checked {
		cmd.Println("No generation provider configured; nothing to check.")
	}
	return nil
}

// coerceValue turns a CLI string into the most specific TOML type.
// Comma-separated values become a string slice.
func coerceValue(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return raw
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
