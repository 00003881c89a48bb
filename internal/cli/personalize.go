package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bookrag/internal/usecase"
)

var (
	personalizeUserID     string
	personalizeSoftware   string
	personalizeHardware   string
	personalizeComplexity string
	personalizeLanguages  string
	personalizeIndustry   string
	personalizeGoals      string
	personalizeOut        string
)

var personalizeCmd = &cobra.Command{
	Use:   "personalize <chapter-file>",
	Short: "Adapt a chapter to a reader's experience level",
	Long: `Rewrite a chapter for a reader's background. The target complexity is
derived from the reader's software and hardware experience unless set
explicitly with --complexity. Results are cached per (content, user,
chapter, complexity), so repeated runs are free.

Examples:
  bookrag personalize ch1.md --software beginner --hardware beginner
  bookrag personalize ch1.md --user alice --complexity expert -o ch1-alice.md`,
	Args: cobra.ExactArgs(1),
	RunE: runPersonalize,
}

func init() {
	rootCmd.AddCommand(personalizeCmd)
	personalizeCmd.Flags().StringVar(&personalizeUserID, "user", "default", "reader identifier for cache scoping")
	personalizeCmd.Flags().StringVar(&personalizeSoftware, "software", "beginner", "software experience: beginner|intermediate|advanced|expert")
	personalizeCmd.Flags().StringVar(&personalizeHardware, "hardware", "beginner", "hardware experience: beginner|intermediate|advanced|expert")
	personalizeCmd.Flags().StringVar(&personalizeComplexity, "complexity", "auto", "target complexity (auto derives from experience)")
	personalizeCmd.Flags().StringVar(&personalizeLanguages, "languages", "", "programming languages the reader knows")
	personalizeCmd.Flags().StringVar(&personalizeIndustry, "industry", "", "reader's industry")
	personalizeCmd.Flags().StringVar(&personalizeGoals, "goals", "", "what the reader wants from the book")
	personalizeCmd.Flags().StringVarP(&personalizeOut, "output", "o", "", "write result to file instead of stdout")
}

func runPersonalize(cmd *cobra.Command, args []string) error {
	chapterPath := args[0]
	content, err := os.ReadFile(chapterPath)
	if err != nil {
		return fmt.Errorf("failed to read chapter: %w", err)
	}

	cfg := GetConfig()
	kv, err := openKV(GetRootDir(), cfg)
	if err != nil {
		return err
	}
	defer kv.Close()

	profile := usecase.ReaderProfile{
		UserID:             personalizeUserID,
		SoftwareExperience: personalizeSoftware,
		HardwareExperience: personalizeHardware,
		DeclaredComplexity: personalizeComplexity,
		Languages:          personalizeLanguages,
		Industry:           personalizeIndustry,
		Goals:              personalizeGoals,
	}

	p := buildPersonalizer(cfg, kv)
	res, err := p.Personalize(cmd.Context(), string(content), filepath.Clean(chapterPath), profile)
	if err != nil {
		return fmt.Errorf("personalization failed: %w", err)
	}

	if res.Cached {
		fmt.Fprintf(os.Stderr, "Using cached result (complexity: %s)\n", res.Complexity)
	} else {
		fmt.Fprintf(os.Stderr, "Personalized for complexity: %s\n", res.Complexity)
	}

	if personalizeOut != "" {
		if err := os.WriteFile(personalizeOut, []byte(res.Content), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Written to %s\n", personalizeOut)
		return nil
	}

	fmt.Println(res.Content)
	return nil
}
