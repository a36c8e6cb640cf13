package dash

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/cmmeyer1800/accountabilidash/internal/api"
	"github.com/cmmeyer1800/accountabilidash/internal/app"
	"github.com/cmmeyer1800/accountabilidash/internal/config"
	"github.com/cmmeyer1800/accountabilidash/internal/guard"
	"github.com/cmmeyer1800/accountabilidash/internal/logging"
	"github.com/cmmeyer1800/accountabilidash/internal/session"
)

// env wires one command invocation: resolved config, logger, API client,
// and the session store that owns the token.
type env struct {
	cfg     config.Config
	log     *zap.Logger
	client  *api.Client
	session *session.Store
}

// newEnv resolves configuration (flags over env over defaults) and builds
// the client/session pair. The session store is the client's token source.
func newEnv() (*env, error) {
	cfg := config.FromEnv()
	if flagAPIURL != "" {
		cfg.APIURL = flagAPIURL
	}
	if flagConfigDir != "" {
		cfg.ConfigDir = flagConfigDir
	}
	if flagVerbose {
		cfg.LogLevel = "debug"
	}
	if cfg.ConfigDir == "" {
		dir, err := app.DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		cfg.ConfigDir = dir
	}

	log := logging.New(cfg.LogLevel)
	tokens := session.NewTokenStore(cfg.ConfigDir, log)
	client := api.New(cfg.APIURL, nil)
	store := session.NewStore(client, tokens, log)
	client.Token = store.Token

	return &env{cfg: cfg, log: log, client: client, session: store}, nil
}

// requireSession hydrates the session and applies the navigation guard for
// a protected command. When the guard redirects to login and stdin is a
// terminal, it prompts for credentials and, once signed in, lets the
// original command continue (the post-login return). On a non-terminal it
// fails with a login hint.
func requireSession(cmd *cobra.Command, e *env) error {
	ctx := cmd.Context()
	if _, err := e.session.Hydrate(ctx); err != nil && api.ErrorKind(err) == api.KindNetwork {
		return err
	}

	switch guard.Decide(e.session.State()) {
	case guard.Allow:
		return nil
	case guard.Defer:
		// Hydration was cancelled mid-flight; a fresh invocation will
		// settle it.
		return fmt.Errorf("session state unresolved, try again")
	default:
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return fmt.Errorf("not signed in; run `dash login` first")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Sign in to continue with `dash %s`.\n", cmd.Name())
	if err := promptLogin(ctx, cmd, e, ""); err != nil {
		return err
	}
	return nil
}

// promptLogin asks for credentials and signs in. A non-empty email skips
// the email prompt.
func promptLogin(ctx context.Context, cmd *cobra.Command, e *env, email string) error {
	var err error
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
	if err := e.session.Login(ctx, email, password); err != nil {
		if api.IsAuthRejected(err) || api.IsValidation(err) {
			return fmt.Errorf("invalid email or password")
		}
		return err
	}
	if user := e.session.User(); user != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", user.DisplayName())
	}
	return nil
}

// promptLine reads one line byte-wise so consecutive prompts never buffer
// ahead of each other on a piped stdin.
func promptLine(cmd *cobra.Command, label string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), label)
	in := cmd.InOrStdin()
	var line []byte
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			line = append(line, buf[0])
		}
		if err != nil {
			if len(line) == 0 {
				return "", fmt.Errorf("read input: %w", err)
			}
			break
		}
	}
	return strings.TrimSpace(string(line)), nil
}

// promptPassword reads without echo when stdin is a terminal and falls back
// to a plain line read otherwise (tests pipe stdin).
func promptPassword(cmd *cobra.Command, label string) (string, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return promptLine(cmd, label)
	}
	fmt.Fprint(cmd.OutOrStdout(), label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// checkAuthRejected applies the global 401 reaction: tear the session down
// and point at the login command. Other errors pass through unchanged.
func checkAuthRejected(e *env, err error) error {
	if err == nil || !api.IsAuthRejected(err) {
		return err
	}
	e.session.HandleAuthRejected()
	return fmt.Errorf("session expired; run `dash login`")
}
