package main

import (
	"fmt"
	"os"

	"artclub/internal/domain/models"
	"artclub/internal/transport/http/dto"

	"github.com/spf13/cobra"
)

type envFunc func() *env

func loginCmd(get envFunc) *cobra.Command {
	var creds models.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := get()
			if creds.Password == "" {
				creds.Password = os.Getenv("ARTCLUB_PASSWORD")
			}

			sess, err := e.auth.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}

			fmt.Fprintf(e.out, "%s signed in as %s (%s)\n", green("ok"), sess.User.FullName(), sess.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "password, defaults to $ARTCLUB_PASSWORD")

	return cmd
}

func logoutCmd(get envFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := get()
			e.auth.Logout(cmd.Context())
			fmt.Fprintln(e.out, green("ok"), "signed out")
			return nil
		},
	}
}

func whoamiCmd(get envFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := get()
			if _, err := e.restore(cmd.Context()); err != nil {
				return err
			}

			sess := e.auth.Session()
			if sess.User == nil {
				return errNotLoggedIn
			}

			fmt.Fprintf(e.out, "%s <%s>\nrole: %s\nactive: %s\n",
				bold(sess.User.FullName()), sess.User.Email, sess.Role, yesNo(sess.User.IsActive))
			return nil
		},
	}
}

func registerCmd(get envFunc) *cobra.Command {
	var req dto.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account, it stays inactive until an admin enables it",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := get()
			if req.Password1 == "" {
				req.Password1 = os.Getenv("ARTCLUB_PASSWORD")
			}
			if req.Password2 == "" {
				req.Password2 = req.Password1
			}

			if err := e.auth.Register(cmd.Context(), req); err != nil {
				return err
			}

			fmt.Fprintln(e.out, green("ok"), "account created, wait for an admin to activate it")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Username, "username", "", "user name")
	f.StringVar(&req.Email, "email", "", "account email")
	f.StringVar(&req.FirstName, "first-name", "", "first name")
	f.StringVar(&req.LastName, "last-name", "", "last name")
	f.StringVar(&req.Password1, "password", "", "password, defaults to $ARTCLUB_PASSWORD")
	f.StringVar(&req.Password2, "password-confirm", "", "repeat the password")

	return cmd
}
