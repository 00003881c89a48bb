package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"bookrag/internal/adapter/chunker"
	"bookrag/internal/adapter/fs"
	"bookrag/internal/adapter/textproc"
	"bookrag/internal/domain"
	"bookrag/internal/usecase"
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Embed and index the book's chapters",
	Long: `Index the book's source files into the vector collection. Each file is
split into overlapping token windows, embedded, and upserted with stable
point IDs, so re-running the command is safe.

Examples:
  bookrag index .              # Index the current directory
  bookrag index /path/to/book  # Index a specific directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	cfg := GetConfig()
	ctx := cmd.Context()

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}
	index, err := buildVectorIndex(cfg)
	if err != nil {
		return err
	}

	if err := index.EnsureCollection(ctx, embedder.Dimension()); err != nil {
		var mismatch *domain.ConfigurationMismatchError
		if errors.As(err, &mismatch) {
			return fmt.Errorf("collection %q was created with different settings (%s); "+
				"drop it or change vector.collection before re-indexing: %w",
				cfg.Vector.Collection, mismatch.Resource, err)
		}
		return fmt.Errorf("failed to prepare collection: %w", err)
	}

	chk, err := chunker.NewTokenChunker(cfg.Chunking.Size, cfg.Chunking.Overlap, textproc.NewTokenizer())
	if err != nil {
		return fmt.Errorf("invalid chunking config: %w", err)
	}

	walker := fs.NewWalker(cfg.Book.Includes, cfg.Book.Excludes)
	files, err := walker.Walk(path)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", path, err)
	}
	if len(files) == 0 {
		fmt.Println("No book files found.")
		return nil
	}

	fmt.Printf("Indexing %d files from %s...\n", len(files), path)

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Indexing[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)

	indexer := usecase.NewIndexer(chk, embedder, index, embedLimiter(cfg), cfg.Embedding.BatchSize, nil)

	var totalChunks int
	var failures []string
	for i, f := range files {
		content, err := os.ReadFile(f.Path)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", f.RelPath, err))
			bar.Set(i + 1)
			continue
		}

		res, err := indexer.IndexDocument(ctx, string(content), f.RelPath, map[string]string{
			"file_name": filepath.Base(f.Path),
		})
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", f.RelPath, err))
			bar.Set(i + 1)
			continue
		}

		totalChunks += res.ChunksIndexed
		bar.Set(i + 1)
	}

	fmt.Printf("\nIndexing complete:\n")
	fmt.Printf("  Files indexed:  %d\n", len(files)-len(failures))
	fmt.Printf("  Chunks created: %d\n", totalChunks)
	fmt.Printf("  Collection:     %s\n", cfg.Vector.Collection)

	if len(failures) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, f := range failures {
			fmt.Printf("  - %s\n", f)
		}
	}

	return nil
}
