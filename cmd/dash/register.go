package dash

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmmeyer1800/accountabilidash/internal/session"
)

var (
	registerEmail string
	registerName  string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}

		email := registerEmail
		if email == "" {
			email, err = promptLine(cmd, "Email: ")
			if err != nil {
				return err
			}
		}
		password, err := promptPassword(cmd, "Password: ")
		if err != nil {
			return err
		}

		var fullName *string
		if registerName != "" {
			fullName = &registerName
		}

		err = e.session.Register(cmd.Context(), email, password, fullName)
		if errors.Is(err, session.ErrLoginAfterRegister) {
			// The account exists; only the automatic sign-in failed.
			fmt.Fprintln(cmd.OutOrStdout(), "Account created, but sign-in failed. Run `dash login`.")
			return err
		}
		if err != nil {
			return err
		}

		if user := e.session.User(); user != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s\n", user.DisplayName())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Account email (prompted when omitted)")
	registerCmd.Flags().StringVar(&registerName, "name", "", "Full name (optional)")
}
