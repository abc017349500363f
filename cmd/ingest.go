package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"docqa/internal/ingest"
	"docqa/internal/progress"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index the documents directory into the vector store",
	Long: `Walks the configured documents directory, extracts text from supported
files, splits it into overlapping chunks, embeds them, and persists the
vector store plus a chunk sidecar under the data directory.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("docs", "", "override the documents directory")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if docs, _ := cmd.Flags().GetString("docs"); docs != "" {
		cfg.DocsDir = docs
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	pipeline := ingest.NewPipeline(ingest.Options{
		DocsDir:      cfg.DocsDir,
		DataDir:      cfg.DataDir,
		Include:      cfg.Include,
		Exclude:      cfg.Exclude,
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
	}, store, progress.NewReporter())

	stats, err := pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("ingesting documents: %w", err)
	}

	fmt.Printf("Indexed %d documents into %d chunks", stats.Documents, stats.Chunks)
	if stats.Skipped > 0 {
		fmt.Printf(" (%d files skipped)", stats.Skipped)
	}
	fmt.Println()
	return nil
}
