package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
	"github.com/custodia-labs/sopsearch-cli/internal/core/services"
	"github.com/custodia-labs/sopsearch-cli/internal/extractors/csvx"
	"github.com/custodia-labs/sopsearch-cli/internal/extractors/docx"
	"github.com/custodia-labs/sopsearch-cli/internal/extractors/pptx"
)

var (
	ingestOut  string
	ingestMode string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [source-dir]",
	Short: "Convert source documents into knowledge collections",
	Long: `Walks the source directory, extracts sections from docx, pptx and
csv documents, classifies them by topic and market, and writes one
JSON collection per topic into the output directory.

Modes:
  smart - retrieval-sized chunks (default)
  full  - larger archival chunks`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestOut, "out", "o", "", "output directory (default: first configured knowledge dir)")
	ingestCmd.Flags().StringVar(&ingestMode, "mode", "smart", "chunking mode: smart or full")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := initConfig(); err != nil {
		return err
	}

	outDir := ingestOut
	if outDir == "" {
		outDir = settings.KnowledgeDirs[0]
	}

	if ingestService == nil {
		svc := services.NewIngestService(
			docx.New(),
			pptx.New(),
			csvx.New(),
		)
		svc.SetChunkCap(settings.ChunkCap)
		ingestService = svc
	}

	report, err := ingestService.Ingest(context.Background(), args[0], outDir, domain.ParseIngestMode(ingestMode))
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	outputIngestReport(cmd, report, outDir)
	return nil
}

func outputIngestReport(cmd *cobra.Command, report *domain.IngestReport, outDir string) {
	cmd.Println(color.GreenString("Ingestion complete."))
	cmd.Println()
	cmd.Printf("  Files scanned:   %d\n", report.FilesScanned)
	cmd.Printf("  Files extracted: %d\n", report.FilesExtracted)
	cmd.Printf("  Files skipped:   %d\n", report.FilesSkipped)
	cmd.Printf("  Chunks written:  %d\n", report.Chunks)

	if report.Chunks > 0 {
		cmd.Println()
		for _, topic := range domain.Topics() {
			if n := report.ByTopic[topic]; n > 0 {
				cmd.Printf("    %-8s %d\n", topic, n)
			}
		}
	}
	if report.GlossaryEntries > 0 {
		cmd.Printf("  Glossary terms:  %d\n", report.GlossaryEntries)
	}
	if report.TagDefinitions > 0 {
		cmd.Printf("  Tag definitions: %d\n", report.TagDefinitions)
	}

	cmd.Println()
	cmd.Printf("Collections written to %s\n", outDir)
}
