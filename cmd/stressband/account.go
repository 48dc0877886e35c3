package main

import (
	"context"
	"fmt"

	"github.com/nao1215/stressband/internal/auth"
	"github.com/nao1215/stressband/internal/storage"
	"github.com/spf13/cobra"
)

// NewAccountCmd creates the account command and its subcommands.
func NewAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the local StressBand accounts",
		Long: `Account manages the local accounts selecting the patient or professional
dashboard. Accounts are kept in the data directory (stressband.db).

Two demonstration accounts exist until the first sign-up:
  patient@example.com / patient123  (patient)
  pro@example.com     / pro123      (pro)

Examples:
  stressband account signin --email pro@example.com --password pro123
  stressband account whoami
  stressband account signup --email me@example.com --password secret --role patient
  stressband account signout`,
	}

	cmd.PersistentFlags().String("data-dir", "", "Directory of the account database (default: XDG data directory)")

	cmd.AddCommand(newSignUpCmd())
	cmd.AddCommand(newSignInCmd())
	cmd.AddCommand(newSignOutCmd())
	cmd.AddCommand(newWhoAmICmd())

	return cmd
}

// withAccounts opens the account store, runs fn and closes the store.
func withAccounts(cmd *cobra.Command, fn func(ctx context.Context, a *auth.Accounts) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := overrideFlag(cmd, "data-dir", &cfg.DataDir, cmd.Flags().GetString); err != nil {
		return err
	}

	logger := newLogger(cmd, cfg)

	store, err := storage.Open(cfg.DataDir, storage.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open account store: %w", err)
	}
	defer store.Close()

	return fn(cmd.Context(), auth.New(store, auth.WithLogger(logger)))
}

// credentialFlags registers the --email and --password flags.
func credentialFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("email", "e", "", "Account e-mail")
	cmd.Flags().StringP("password", "p", "", "Account password")
}

func credentials(cmd *cobra.Command) (string, string, error) {
	email, err := cmd.Flags().GetString("email")
	if err != nil {
		return "", "", err
	}
	password, err := cmd.Flags().GetString("password")
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}

// authError prefixes err with the message shown to users.
func authError(err error) error {
	return fmt.Errorf("%s (%w)", auth.Message(err), err)
}

func newSignUpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, password, err := credentials(cmd)
			if err != nil {
				return err
			}
			rawRole, err := cmd.Flags().GetString("role")
			if err != nil {
				return err
			}
			role, err := auth.ParseRole(rawRole)
			if err != nil {
				return authError(err)
			}

			return withAccounts(cmd, func(ctx context.Context, a *auth.Accounts) error {
				user, err := a.SignUp(ctx, email, password, role)
				if err != nil {
					return authError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Compte créé : %s (%s), tableau de bord %s\n",
					user.Email, user.Role, user.Role.DashboardPath())
				return nil
			})
		},
	}

	credentialFlags(cmd)
	cmd.Flags().StringP("role", "r", string(auth.RolePatient), "Account role: patient or pro")

	return cmd
}

func newSignInCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in to an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, password, err := credentials(cmd)
			if err != nil {
				return err
			}

			return withAccounts(cmd, func(ctx context.Context, a *auth.Accounts) error {
				user, err := a.SignIn(ctx, email, password)
				if err != nil {
					return authError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Connecté : %s (%s), tableau de bord %s\n",
					user.Email, user.Role, user.Role.DashboardPath())
				return nil
			})
		},
	}

	credentialFlags(cmd)

	return cmd
}

func newSignOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out of the current account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withAccounts(cmd, func(ctx context.Context, a *auth.Accounts) error {
				if err := a.SignOut(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Déconnecté.")
				return nil
			})
		},
	}
}

func newWhoAmICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withAccounts(cmd, func(ctx context.Context, a *auth.Accounts) error {
				user, err := a.CurrentUser(ctx)
				if err != nil {
					return err
				}
				if user == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Aucun compte connecté.")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", user.Email, user.Role)
				return nil
			})
		},
	}
}

