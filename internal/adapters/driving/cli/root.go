// Package cli implements the sopsearch command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sopsearch-cli/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/sopsearch-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sopsearch-cli/internal/assembler"
	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
	"github.com/custodia-labs/sopsearch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sopsearch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/sopsearch-cli/internal/core/services"
	"github.com/custodia-labs/sopsearch-cli/internal/knowledge"
	"github.com/custodia-labs/sopsearch-cli/internal/logger"
	"github.com/custodia-labs/sopsearch-cli/internal/ranker"
)

// version is set at build time via ldflags.
var version = "dev"

// Flags shared across commands.
var (
	verbose   bool
	configDir string
)

// Services wired lazily on first use. Tests may set these directly.
var (
	configStore    driven.ConfigStore
	settings       domain.Settings
	knowledgeStore *knowledge.Store
	answerService  driving.AnswerService
	ingestService  driving.IngestService
	generator      driven.Generator
)

var rootCmd = &cobra.Command{
	Use:   "sopsearch",
	Short: "Policy Q&A over operating-procedure knowledge collections",
	Long: `sopsearch ingests operating-procedure documents (docx, pptx, csv)
into JSON knowledge collections and answers policy questions from them.

Answers are grounded in the ingested collections; when nothing relevant
exists the tool says so instead of guessing.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.sopsearch)")
}

// Execute runs the root command.
func Execute() {
	// Optional .env for API keys during development
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initConfig loads the config store and settings once.
func initConfig() error {
	if configStore != nil {
		return nil
	}

	store, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	configStore = store
	settings = store.Settings()
	if len(settings.KnowledgeDirs) == 0 {
		settings.KnowledgeDirs = []string{defaultKnowledgeDir()}
	}
	return nil
}

// initKnowledge loads the knowledge store from the configured
// collection directories.
func initKnowledge() error {
	if knowledgeStore != nil {
		return nil
	}
	if err := initConfig(); err != nil {
		return err
	}

	knowledgeStore = knowledge.New(settings.KnowledgeDirs...)
	if err := knowledgeStore.Load(); err != nil {
		return fmt.Errorf("loading knowledge collections: %w", err)
	}
	logger.Debug("Knowledge corpus: %d chunks from %d dirs",
		knowledgeStore.Len(), len(settings.KnowledgeDirs))
	return nil
}

// initAnswerService wires the full answer pipeline. Generator wiring
// is best-effort: a misconfigured provider degrades to offline
// answers with a warning rather than failing the command.
func initAnswerService() error {
	if answerService != nil {
		return nil
	}
	if err := initKnowledge(); err != nil {
		return err
	}

	if generator == nil {
		gen, err := ai.CreateGeneratorChain(&settings.Generator, &settings.Fallback)
		if err != nil {
			logger.Warn("Generator unavailable, answers stay offline: %v", err)
		} else {
			generator = gen
		}
	}

	svc := services.NewAnswerService(knowledgeStore, ranker.New(), assembler.New(), generator)
	if settings.GenerationBudget >= 0 {
		svc.SetGenerationBudget(settings.GenerationBudget)
	}
	if settings.MinScore > 0 {
		svc.SetMinScore(settings.MinScore)
	}
	answerService = svc
	return nil
}

// defaultKnowledgeDir is used when no collection dirs are configured.
func defaultKnowledgeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "knowledge"
	}
	return filepath.Join(home, ".sopsearch", "knowledge")
}
