package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"library-backend/internal/domains/user/model"
	userRepo "library-backend/internal/domains/user/repository"
	userService "library-backend/internal/domains/user/service"
	"library-backend/internal/infrastructure/database"
)

func newCreateUserCmd() *cobra.Command {
	var (
		name  string
		email string
		role  string
	)

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a login account (admin or petugas by default)",
		Example: `  libctl create-user --name "Admin Perpustakaan" --email admin@library.test
  echo "$PASSWORD" | libctl create-user --email staff@library.test --name Staff --role petugas`,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword("Password: ")
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}

			db, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			// token issuing, cache and throttling are not needed here
			svc := userService.NewAuthService(userRepo.NewPostgresRepository(db.Pool), nil, nil, userService.Throttle{})
			user, err := svc.CreateUser(cmd.Context(), model.CreateUserRequest{
				Name:     name,
				Email:    email,
				Password: password,
				Role:     model.Role(strings.ToLower(role)),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s user %s (%s)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&role, "role", string(model.RoleAdmin), "admin, petugas or anggota")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newEnsureSearchIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-search-index",
		Short: "Create the fulltext index used by book search if it is missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			created, err := database.EnsureSearchIndex(cmd.Context(), db.Pool)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created index %s\n", database.BookSearchIndex)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Index %s already exists\n", database.BookSearchIndex)
			}
			return nil
		},
	}
}

// readPassword masks input on a terminal and reads one line from a pipe otherwise
func readPassword(prompt string) (string, error) {
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", errors.New("no password on stdin")
		}
		return strings.TrimSpace(line), nil
	}

	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
