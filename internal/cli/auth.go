package cli

import (
	"github.com/spf13/cobra"

	"github.com/01moynul/sweetshop-golang/internal/client"
	"github.com/01moynul/sweetshop-golang/internal/session"
)

func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	var req client.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			resp, err := e.client.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			return e.saveSession(resp)
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "full name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	cmd.Flags().StringVar(&req.Mobile, "mobile", "", "mobile number")
	for _, name := range []string{"name", "email", "password", "mobile"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			resp, err := e.client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return e.saveSession(resp)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			if err := session.Clear(e.store); err != nil {
				return err
			}
			return e.out.Message("Logged out.")
		},
	}
}

func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			if err := e.requireLogin(); err != nil {
				return err
			}

			user := e.session.User
			if remote {
				user, err = e.client.Me(cmd.Context())
				if err != nil {
					return e.apiError(err)
				}
			}
			return e.out.User(user)
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "ask the server instead of the stored session")
	return cmd
}

func (e *env) saveSession(resp *client.AuthResponse) error {
	user := resp.User
	sess := &session.Session{Token: resp.Token, User: &user}
	if err := sess.Save(e.store); err != nil {
		return err
	}
	e.session = sess
	return e.out.User(&user)
}
