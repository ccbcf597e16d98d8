package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
)

var corpusWatch bool

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Show what the knowledge collections contain",
	Long: `Prints chunk counts per topic and market for the configured
collection directories.

With --watch the command keeps running and reloads the corpus whenever
a collection file changes.`,
	RunE: runCorpus,
}

func init() {
	corpusCmd.Flags().BoolVarP(&corpusWatch, "watch", "w", false, "watch collection dirs and reload on change")
	rootCmd.AddCommand(corpusCmd)
}

func runCorpus(cmd *cobra.Command, _ []string) error {
	if err := initKnowledge(); err != nil {
		return err
	}

	outputCorpusSummary(cmd)

	if !corpusWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Println()
	cmd.Println("Watching for collection changes (Ctrl-C to stop)...")

	err := knowledgeStore.Watch(ctx, func() {
		cmd.Println()
		cmd.Println(color.CyanString("Collections changed, corpus reloaded."))
		outputCorpusSummary(cmd)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func outputCorpusSummary(cmd *cobra.Command) {
	total := knowledgeStore.Len()
	if total == 0 {
		cmd.Println(color.YellowString("Knowledge corpus is empty."))
		for _, dir := range knowledgeStore.Dirs() {
			cmd.Printf("  dir: %s\n", dir)
		}
		return
	}

	byTopic, byMarket := knowledgeStore.CountBy()

	cmd.Printf("%s (%d chunks)\n", color.New(color.Bold).Sprint("Knowledge corpus"), total)
	cmd.Println()
	cmd.Println("By topic:")
	for _, topic := range domain.Topics() {
		if n := byTopic[topic]; n > 0 {
			cmd.Printf("  %-8s %d\n", topic, n)
		}
	}
	cmd.Println()
	cmd.Println("By market:")
	for _, market := range []domain.Market{domain.MarketAE, domain.MarketJO, domain.MarketSA, domain.MarketAll} {
		if n := byMarket[market]; n > 0 {
			cmd.Printf("  %-4s %d\n", market, n)
		}
	}
}
