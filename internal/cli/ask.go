package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"insightpdf/internal/domain"
	"insightpdf/internal/usecase"
)

var (
	askSession  string
	askQuestion string
	askTopK     int
	askSources  bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask a question against an ingested session",
	Long: `Ask a natural-language question answered from the documents of one
previously ingested session.

Examples:
  insightpdf ask -s 2f0b... -q "What is the termination clause?"
  insightpdf ask -s 2f0b... -q "Summarize chapter 3" -k 8 --sources`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askSession, "session", "s", "", "session identifier (required)")
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "question to ask (required)")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of passages to retrieve (default from config)")
	askCmd.Flags().BoolVar(&askSources, "sources", false, "print the grounding passages")
	askCmd.MarkFlagRequired("session")
	askCmd.MarkFlagRequired("question")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	synthesizer, err := newSynthesizer(cfg)
	if err != nil {
		return err
	}

	st, err := openStore(GetRootDir())
	if err != nil {
		return err
	}
	defer st.Close()

	queryUC := usecase.NewQueryUseCase(st, newSessionCache(cfg), embedder, synthesizer, cfg.Retrieve.TopK)

	answer, err := queryUC.Query(cmd.Context(), askSession, askQuestion, askTopK)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("unknown session %q; run 'insightpdf ingest' first or check the identifier", askSession)
		}
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Println(answer.Text)

	if askSources {
		fmt.Println("\nSources:")
		for i, p := range answer.Passages {
			fmt.Printf("  [%d] %s p.%d (score: %.3f)\n", i+1, p.Chunk.Source, p.Chunk.Page, p.Score)
		}
	}
	return nil
}
