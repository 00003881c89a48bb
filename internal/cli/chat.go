package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	chatMessageText  string
	chatSessionID    string
	chatSelectedText string
	chatShowContext  bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask the book a question",
	Long: `Ask a question about the book. The answer is grounded in passages
retrieved from the indexed chapters; pass --session to keep conversation
history across invocations.

Examples:
  bookrag chat -q "what is red-green-refactor?"
  bookrag chat -q "explain this" --selected "some pasted paragraph"
  bookrag chat -q "and the next step?" --session 2f1c...`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVarP(&chatMessageText, "query", "q", "", "question to ask (required)")
	chatCmd.Flags().StringVar(&chatSessionID, "session", "", "session ID for conversation history (default: new session)")
	chatCmd.Flags().StringVar(&chatSelectedText, "selected", "", "text the reader selected; used as context instead of search")
	chatCmd.Flags().BoolVar(&chatShowContext, "show-context", false, "print the retrieved passages after the answer")
	chatCmd.MarkFlagRequired("query")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	kv, err := openKV(GetRootDir(), cfg)
	if err != nil {
		return err
	}
	defer kv.Close()

	svc, err := buildChatService(cfg, kv)
	if err != nil {
		return err
	}

	sessionID := chatSessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	result := svc.Chat(cmd.Context(), sessionID, chatMessageText, chatSelectedText)

	fmt.Println(result.Response)

	if chatShowContext && len(result.Context) > 0 {
		fmt.Printf("\n--- Context (%d passages) ---\n", len(result.Context))
		for i, s := range result.Context {
			fmt.Printf("[%d] %s (score: %.2f)\n", i+1, s.SourceLabel, s.Score)
			text := s.Text
			if len(text) > 300 {
				text = text[:300] + "..."
			}
			fmt.Println(text)
			fmt.Println()
		}
	}

	if chatSessionID == "" {
		fmt.Printf("\nSession: %s (pass --session %s to continue this conversation)\n", sessionID, sessionID)
	}

	return nil
}
