package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"bookrag/internal/adapter/store"
)

var historyJSON bool

var historyCmd = &cobra.Command{
	Use:   "history <session-id>",
	Short: "Show a session's conversation history",
	Long: `Print the stored turns for a chat session, oldest first, with the
sources each answer was grounded in.

Examples:
  bookrag history 2f1c0a...
  bookrag history 2f1c0a... --json`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	sessionID := args[0]

	kv, err := openKV(GetRootDir(), GetConfig())
	if err != nil {
		return err
	}
	defer kv.Close()

	records, err := store.NewHistoryStore(kv).Records(sessionID)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if historyJSON {
		output, _ := json.MarshalIndent(records, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(records) == 0 {
		fmt.Println("No history for this session.")
		return nil
	}

	for i, r := range records {
		fmt.Printf("--- [%d] %s ---\n", i+1, r.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("You: %s\n", r.User)
		fmt.Printf("Assistant: %s\n", r.Assistant)
		if len(r.Context) > 0 {
			fmt.Printf("Sources:")
			for _, s := range r.Context {
				fmt.Printf(" %s (%.2f)", s.SourceLabel, s.Score)
			}
			fmt.Println()
		}
		fmt.Println()
	}

	return nil
}
