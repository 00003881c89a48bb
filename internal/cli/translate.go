package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	translateFrom string
	translateTo   string
	translateOut  string
)

var translateCmd = &cobra.Command{
	Use:   "translate <chapter-file>",
	Short: "Translate a chapter to another language",
	Long: `Translate a chapter's content, keeping markdown structure and code
snippets intact. Results are cached per (content, source, target) pair.

Examples:
  bookrag translate ch1.md --to ur
  bookrag translate ch1.md --from en --to es -o ch1-es.md`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)
	translateCmd.Flags().StringVar(&translateFrom, "from", "en", "source language code")
	translateCmd.Flags().StringVar(&translateTo, "to", "ur", "target language code")
	translateCmd.Flags().StringVarP(&translateOut, "output", "o", "", "write result to file instead of stdout")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read chapter: %w", err)
	}

	cfg := GetConfig()
	kv, err := openKV(GetRootDir(), cfg)
	if err != nil {
		return err
	}
	defer kv.Close()

	tr := buildTranslator(cfg, kv)
	res, err := tr.Translate(cmd.Context(), string(content), translateFrom, translateTo)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	if res.Cached {
		fmt.Fprintln(os.Stderr, "Using cached translation")
	}

	if translateOut != "" {
		if err := os.WriteFile(translateOut, []byte(res.Content), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Written to %s\n", translateOut)
		return nil
	}

	fmt.Println(res.Content)
	return nil
}
