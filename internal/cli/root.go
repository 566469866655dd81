// Package cli implements the sweetshop command line front end.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/01moynul/sweetshop-golang/internal/client"
	"github.com/01moynul/sweetshop-golang/internal/localstore"
	"github.com/01moynul/sweetshop-golang/internal/session"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	APIURL    string
	StatePath string
	Format    string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

const defaultAPIURL = "http://localhost:8080/api"

// NewRootCommand creates the root command for the sweetshop CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "sweetshop",
		Short:         "Browse, buy and manage sweets from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	apiURL := os.Getenv("SWEETSHOP_API")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	cmd.PersistentFlags().StringVar(&opts.APIURL, "api", apiURL, "API base URL (env SWEETSHOP_API)")
	cmd.PersistentFlags().StringVar(&opts.StatePath, "state", defaultStatePath(), "file holding the session and cart")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewCategoriesCommand(opts))
	cmd.AddCommand(NewSweetCommand(opts))
	cmd.AddCommand(NewCartCommand(opts))
	cmd.AddCommand(NewCheckoutCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sweetshop.json"
	}
	return filepath.Join(home, ".sweetshop", "state.json")
}

// env is what a command needs to talk to the API and the local state.
type env struct {
	store   *localstore.Store
	session *session.Session
	client  *client.Client
	out     *Output
}

func (o *RootOptions) open(cmd *cobra.Command) (*env, error) {
	ls := localstore.Open(o.StatePath)
	sess, err := session.Load(ls)
	if err != nil {
		return nil, err
	}

	c := client.New(o.APIURL)
	if sess.LoggedIn() {
		c.SetToken(sess.Token)
	}

	return &env{
		store:   ls,
		session: sess,
		client:  c,
		out:     NewOutput(o.Format, cmd.OutOrStdout()),
	}, nil
}

var errNotLoggedIn = errors.New("not logged in: run 'sweetshop login' first")

func (e *env) requireLogin() error {
	if !e.session.LoggedIn() {
		return errNotLoggedIn
	}
	return nil
}

// apiError drops a rejected session so the next command starts clean.
func (e *env) apiError(err error) error {
	if client.IsUnauthorized(err) && e.session.LoggedIn() {
		if clearErr := session.Clear(e.store); clearErr != nil {
			return clearErr
		}
		return fmt.Errorf("session expired, please log in again: %w", err)
	}
	return err
}
