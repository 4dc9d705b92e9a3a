package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var askConversationID string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long: `Sends a question to the backend and streams the answer to stdout.

By default a new conversation is started. Use --conversation to continue
an existing one; list conversation IDs with "docchat conversations list".`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askConversationID, "conversation", "c", "", "conversation ID to continue")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatFactory == nil {
		return errors.New("chat service not configured")
	}

	ctx := cmd.Context()

	if askConversationID != "" {
		if conversationService == nil {
			return errors.New("conversation service not configured")
		}
		if _, err := conversationService.Load(ctx, askConversationID); err != nil {
			return fmt.Errorf("loading conversation %s: %w", askConversationID, err)
		}
	}

	renderer := newWriterRenderer(cmd.OutOrStdout())
	chat := chatFactory(renderer)

	if err := chat.Send(ctx, args[0]); err != nil {
		if renderer.Printed() {
			cmd.Println()
		}
		return fmt.Errorf("query failed: %w", err)
	}
	cmd.Println()

	final := renderer.Final()
	if final == nil {
		return nil
	}

	if len(final.Citations) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, c := range final.Citations {
			ref := fmt.Sprintf("  [%d] %s", i+1, c.DocumentName)
			if c.PageNumber > 0 {
				ref += fmt.Sprintf(", page %d", c.PageNumber)
			}
			if c.RelevanceScore > 0 {
				ref += fmt.Sprintf(" (relevance: %.2f)", c.RelevanceScore)
			}
			cmd.Println(ref)
			if c.Preview != "" {
				cmd.Printf("      %s\n", c.Preview)
			}
		}
	}

	if conversationService != nil {
		if id := conversationService.ActiveID(); id != "" {
			cmd.Println()
			cmd.Printf("Conversation: %s\n", id)
		}
	}

	return nil
}
