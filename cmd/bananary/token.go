package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/rozo-ai/bananary-go/pkg/credential"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the payment-bypass access token",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set <token>",
	Short: "Store a bypass token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := credential.NewKeyringStore(keyringService)
		if err := store.Set(credential.StorageKey, args[0]); err != nil {
			return fmt.Errorf("store token: %w", err)
		}
		fmt.Println("token stored")
		return nil
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored bypass token",
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver := credential.NewResolver(credential.NewKeyringStore(keyringService), url.Values{})
		if err := resolver.Clear(); err != nil {
			return fmt.Errorf("clear token: %w", err)
		}
		fmt.Println("token cleared")
		return nil
	},
}

var tokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Report whether a bypass token is active",
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver := credential.NewResolver(credential.NewKeyringStore(keyringService), url.Values{})
		if resolver.Active() {
			fmt.Println("bypass token active; requests skip the payment protocol")
		} else {
			fmt.Println("no bypass token; requests use the payment protocol")
		}
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd, tokenClearCmd, tokenShowCmd)
	rootCmd.AddCommand(tokenCmd)
}
