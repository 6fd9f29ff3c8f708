// ABOUTME: CLI commands for accounts.
// ABOUTME: Registers users and shows the identity commands act as.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/healthai/internal/session"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userRegisterCmd = &cobra.Command{
	Use:   "register <email> <name>",
	Short: "Register a new account",
	Long: `Register a new account. Use --email on later commands to act as it.

Example:
  healthai user register ada@example.com "Ada Lovelace" --password secret1
  healthai --email ada@example.com --password secret1 list`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := current.auth.Register(cmd.Context(), session.New(), args[0], userPassword, args[1])
		if err != nil {
			return fmt.Errorf("failed to register: %w", err)
		}
		color.Green("✓ Registered %s", u.Email)
		fmt.Printf("  %s %s\n", color.New(color.Faint).Sprint(u.ID), u.Name)
		return nil
	},
}

var userWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current identity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u := current.user()
		fmt.Printf("%s %s\n", u.Name, color.New(color.Faint).Sprintf("<%s>", u.Email))
		fmt.Printf("  id    %s\n", u.ID)
		if u.IsDemo {
			fmt.Println("  demo  yes")
		}
		return nil
	},
}

func init() {
	userCmd.AddCommand(userRegisterCmd, userWhoamiCmd)
	rootCmd.AddCommand(userCmd)
}
