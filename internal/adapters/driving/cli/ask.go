package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
)

var (
	askMarket  string
	askOffline bool
	askJSON    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a policy question from the knowledge collections",
	Long: `Ranks the knowledge collections against the question and prints a
grounded answer with its sources. When no relevant policy exists the
answer is a fixed refusal rather than a guess.

The market flag narrows ranking to one market (ae, jo, sa); without it
market-agnostic policy competes equally.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askMarket, "market", "m", "", "market preference: ae, jo or sa")
	askCmd.Flags().BoolVar(&askOffline, "offline", false, "skip generation, answer from collections only")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

// askResponse is the JSON output shape.
type askResponse struct {
	Answer    string                  `json:"answer"`
	Generated bool                    `json:"generated"`
	Sources   []domain.KnowledgeChunk `json:"sources"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := initAnswerService(); err != nil {
		return err
	}

	warnIfEmptyCorpus(cmd)

	preference := domain.ParseMarketPreference(askMarket)
	if askMarket != "" && preference == domain.PreferAuto {
		return fmt.Errorf("unknown market %q (expected ae, jo or sa)", askMarket)
	}

	answer := answerService.BuildAnswer(context.Background(), domain.Query{
		Question:     args[0],
		Preference:   preference,
		ForceOffline: askOffline,
	})

	if askJSON {
		return outputAskJSON(cmd, answer)
	}
	return outputAskText(cmd, answer)
}

func outputAskJSON(cmd *cobra.Command, answer *domain.Answer) error {
	resp := askResponse{
		Answer:    answer.Text,
		Generated: answer.Generated,
		Sources:   answer.Sources,
	}
	if resp.Sources == nil {
		resp.Sources = []domain.KnowledgeChunk{}
	}

	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAskText(cmd *cobra.Command, answer *domain.Answer) error {
	if answer.Text == domain.RefusalAnswer {
		cmd.Println(color.YellowString(answer.Text))
		return nil
	}

	cmd.Println(answer.Text)

	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println(color.CyanString("Sources:"))
		for _, src := range answer.Sources {
			cmd.Printf("  %s  %s\n",
				color.New(color.Bold).Sprintf("%s", src.Title),
				color.HiBlackString("[%s/%s]", src.Market, src.Topic))
		}
	}
	if answer.Generated {
		cmd.Println()
		cmd.Println(color.HiBlackString("(generated from %d sources)", len(answer.Sources)))
	}
	return nil
}

// warnIfEmptyCorpus nudges the user toward ingest when the collection
// dirs hold nothing.
func warnIfEmptyCorpus(cmd *cobra.Command) {
	if knowledgeStore != nil && knowledgeStore.Len() == 0 {
		cmd.Println(color.YellowString(
			"Knowledge corpus is empty. Run 'sopsearch ingest <dir>' first (dirs: %s).",
			strings.Join(knowledgeStore.Dirs(), ", ")))
	}
}
