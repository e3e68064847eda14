package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"insightpdf/internal/adapter/chunker"
	"insightpdf/internal/adapter/extractor"
	"insightpdf/internal/adapter/fs"
	"insightpdf/internal/domain"
	"insightpdf/internal/usecase"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [paths...]",
	Short: "Ingest PDF documents into a new session",
	Long: `Ingest one or more PDF documents into a new session. Each argument may
be a file, a directory (searched recursively) or a glob pattern.
Prints the session identifier to use with 'ask'.

Examples:
  insightpdf ingest report.pdf
  insightpdf ingest docs/ "archive/**/*.pdf"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	paths, err := fs.CollectPDFs(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no PDF files found")
	}

	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetDescription("Reading"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)

	uploads := make([]domain.Upload, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		uploads = append(uploads, domain.Upload{
			Filename: filepath.Base(path),
			Data:     data,
		})
		bar.Add(1)
	}

	chk, err := chunker.NewWindowChunker(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		return err
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	st, err := openStore(GetRootDir())
	if err != nil {
		return err
	}
	defer st.Close()

	ingestUC := usecase.NewIngestUseCase(
		extractor.NewPDFExtractor(),
		chk,
		embedder,
		st,
		newSessionCache(cfg),
		cfg.Embedding.BatchSize,
	)

	result, err := ingestUC.Ingest(cmd.Context(), uploads)

	for _, doc := range result.Documents {
		if doc.Error != "" {
			fmt.Printf("  ! %s: %s\n", doc.Filename, doc.Error)
		} else {
			fmt.Printf("  + %s (%d pages, %d bytes)\n", doc.Filename, doc.PageCount, doc.ByteSize)
		}
	}
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("\nSession: %s (%d chunks indexed)\n", result.SessionID, result.ChunkCount)
	return nil
}
