package dash

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmmeyer1800/accountabilidash/internal/api"
	"github.com/cmmeyer1800/accountabilidash/internal/session"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check API reachability and session health",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "API: %s\n", e.cfg.APIURL)

		issues := 0
		status, err := e.client.Health(cmd.Context())
		if err != nil {
			fmt.Fprintf(out, "Health: unreachable (%v)\n", err)
			issues++
		} else {
			fmt.Fprintf(out, "Health: %s\n", status.Status)
		}

		switch e.session.State() {
		case session.StateAnonymous:
			fmt.Fprintln(out, "Session: none")
		default:
			if _, err := e.session.Hydrate(cmd.Context()); err != nil && api.ErrorKind(err) == api.KindNetwork {
				fmt.Fprintln(out, "Session: token stored, could not validate")
				issues++
				break
			}
			if user := e.session.User(); user != nil {
				fmt.Fprintf(out, "Session: valid, signed in as %s\n", user.Email)
			} else {
				fmt.Fprintln(out, "Session: stored token was rejected and has been cleared")
			}
		}

		if issues > 0 {
			return fmt.Errorf("doctor found %d issue(s)", issues)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
