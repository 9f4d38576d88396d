package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"notekeeper/internal/config"
	"notekeeper/internal/db"
	"notekeeper/internal/db/mock"
	applog "notekeeper/internal/log"
	"notekeeper/internal/store"
	"notekeeper/internal/workspace"
)

// openWorkspace connects to the configured database. Tests swap it for an
// in-memory store.
var openWorkspace = func(cmd *cobra.Command) (*workspace.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := applog.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	if cfg.Database.UseMock {
		database, err := mock.New(cmd.Context())
		if err != nil {
			return nil, fmt.Errorf("open mock database: %w", err)
		}
		return workspace.New(store.New(database), workspace.Options{BcryptCost: cfg.Auth.BcryptCost}), nil
	}
	database, err := db.Configure(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return workspace.New(store.New(database), workspace.Options{BcryptCost: cfg.Auth.BcryptCost}), nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "notectl",
		Short:         "Administer notekeeper accounts and notes from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newImportCmd(), newExportCmd(), newCreateUserCmd())
	return root
}

func newImportCmd() *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "import <csv>",
		Short: "Import notes from a CSV file with title, content, folder, favorite and locked columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			csvPath := args[0]
			if _, err := os.Stat(csvPath); err != nil {
				return fmt.Errorf("locate csv: %w", err)
			}
			rows, err := readNotesCSV(csvPath)
			if err != nil {
				return fmt.Errorf("read csv: %w", err)
			}
			svc, err := openWorkspace(cmd)
			if err != nil {
				return err
			}

			imported, err := svc.ImportNotes(cmd.Context(), username, rows)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d notes from %s\n", imported, filepath.Base(csvPath))
			return err
		},
	}
	cmd.Flags().StringVarP(&username, "user", "u", "", "owner of the imported notes")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		username string
		output   string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a user's folders and notes as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			snapshot, err := svc.Export(cmd.Context(), username)
			if err != nil {
				if errors.Is(err, workspace.ErrNotFound) {
					return fmt.Errorf("user %q not found", username)
				}
				return err
			}

			out := cmd.OutOrStdout()
			if output != "" && output != "-" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer file.Close()
				out = file
			}
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(snapshot)
		},
	}
	cmd.Flags().StringVarP(&username, "user", "u", "", "account to export")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "destination file, - for stdout")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newCreateUserCmd() *cobra.Command {
	var (
		username string
		password string
	)
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Register a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("NOTEKEEPER_PASSWORD")
			}
			svc, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			user, err := svc.Register(cmd.Context(), strings.TrimSpace(username), password, password)
			if err != nil {
				var inputErr *workspace.InputError
				if errors.As(err, &inputErr) {
					return fmt.Errorf("invalid %s: %s", inputErr.Field, inputErr.Code)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "user", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password, defaults to $NOTEKEEPER_PASSWORD")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
