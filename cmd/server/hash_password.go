package main

import (
	"fmt"

	"github.com/mcdur/task-management-api/internal/services"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func hashPasswordCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for use in AUTH_USER_PASSWORD or AUTH_ADMIN_PASSWORD",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := services.NewBcryptHasher(cost).Hash(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().IntVarP(&cost, "cost", "c", bcrypt.DefaultCost, "bcrypt cost")

	return cmd
}
