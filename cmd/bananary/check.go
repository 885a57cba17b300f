package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe the endpoint's payment demands without paying",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, cfg, err := newService()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
		defer cancel()

		info, err := service.CheckPayment(ctx)
		if err != nil {
			return err
		}

		if !info.Required {
			fmt.Println("no payment required")
			return nil
		}
		fmt.Printf("payment required: %s\n", info.Price)
		if info.Description != "" {
			fmt.Printf("description: %s\n", info.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
