// Package dash is the Accountabilidash command tree: a terminal client for
// the goal-tracking API. Commands render text views over the session,
// service, and api layers; they hold no business logic of their own.
package dash

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagAPIURL    string
	flagConfigDir string
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "dash",
	Short: "dash tracks your goals and habits from your terminal",
	Long: "dash is the terminal client for Accountabilidash: register, sign in,\n" +
		"create one-time or recurring goals, check in against them, and watch\n" +
		"your progress on the dashboard.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Base URL of the Accountabilidash API")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "Directory holding the session token")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}
