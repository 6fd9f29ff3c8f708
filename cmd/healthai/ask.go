// ABOUTME: CLI command for chatting with the health assistant.
// ABOUTME: Joins all arguments into one message.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Ask the health assistant a question",
	Long: `Ask the health assistant about your data.

The assistant recognises questions about heart rate, sleep, steps or
activity, and recommendations.

Examples:
  healthai ask "how is my heart rate?"
  healthai ask what should I do about sleep`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reply, err := current.svc.Chat(cmd.Context(), current.user().ID, strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("failed to ask: %w", err)
		}
		fmt.Println(color.CyanString(reply.Response))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
