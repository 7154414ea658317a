package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoStageSetting/GoStageSetting/internal/password"
)

func init() { //nolint: gochecknoinits
	passwordCmd.AddCommand(passwordHashCmd)
	rootCmd.AddCommand(passwordCmd)
}

var (
	passwordCmd = &cobra.Command{
		Use:   "password",
		Short: "Manage the admin password",
	}

	passwordHashCmd = &cobra.Command{
		Use:   "hash [password]",
		Short: "Print the argon2id hash for [Webserver.Admin].PasswordHash",
		Long: `Print the argon2id hash for [Webserver.Admin].PasswordHash.
Without an argument a random password is generated and printed as well.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var plain string

			if len(args) == 1 {
				plain = args[0]
			} else {
				generated, err := password.Generate(password.DefaultLen, password.Chars)
				if err != nil {
					return err
				}

				plain = generated

				fmt.Fprintln(cmd.OutOrStdout(), "password:", plain)
			}

			hash, err := password.Hash(plain)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), hash)

			return nil
		},
	}
)
