package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

var conversationsJSON bool

var conversationsCmd = &cobra.Command{
	Use:   "conversations",
	Short: "Manage conversations",
	Long:  `List, show, or delete conversations stored on the backend.`,
}

var conversationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations",
	RunE:  runConversationsList,
}

var conversationsShowCmd = &cobra.Command{
	Use:   "show [conversation-id]",
	Short: "Print a conversation's history",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationsShow,
}

var conversationsRmCmd = &cobra.Command{
	Use:   "rm [conversation-id]",
	Short: "Delete a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationsRm,
}

func init() {
	conversationsListCmd.Flags().BoolVar(&conversationsJSON, "json", false, "output conversations as JSON")
	conversationsCmd.AddCommand(conversationsListCmd)
	conversationsCmd.AddCommand(conversationsShowCmd)
	conversationsCmd.AddCommand(conversationsRmCmd)
	rootCmd.AddCommand(conversationsCmd)
}

func runConversationsList(cmd *cobra.Command, _ []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	if err := conversationService.Reconcile(cmd.Context()); err != nil {
		return fmt.Errorf("listing conversations: %w", err)
	}

	summaries := conversationService.Summaries()

	if conversationsJSON {
		return outputConversationsJSON(cmd, summaries)
	}

	if len(summaries) == 0 {
		cmd.Println("No conversations.")
		return nil
	}

	for _, conv := range summaries {
		cmd.Printf("  %s  %s\n", conv.ID, conv.Title)
	}
	return nil
}

func outputConversationsJSON(cmd *cobra.Command, summaries []domain.Conversation) error {
	type conversationOut struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	out := make([]conversationOut, 0, len(summaries))
	for _, conv := range summaries {
		out = append(out, conversationOut{ID: conv.ID, Title: conv.Title})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal conversations: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func runConversationsShow(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	history, err := conversationService.Load(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("loading conversation: %w", err)
	}

	for i := range history {
		msg := &history[i]
		label := "You"
		if msg.Role == domain.RoleAssistant {
			label = "Assistant"
		}
		cmd.Printf("%s: %s\n", label, msg.Content)
		for _, c := range msg.Citations {
			cmd.Printf("    [%s", c.DocumentName)
			if c.PageNumber > 0 {
				cmd.Printf(", page %d", c.PageNumber)
			}
			cmd.Println("]")
		}
		cmd.Println()
	}
	return nil
}

func runConversationsRm(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	if err := conversationService.Remove(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}

	cmd.Printf("Deleted conversation %s\n", args[0])
	return nil
}
