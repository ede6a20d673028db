package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Dosada05/tournament-brackets/db"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/roster"
	"github.com/Dosada05/tournament-brackets/services"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "bracketctl",
		Short:        "Offline tools for the tournament brackets service",
		SilenceUsage: true,
	}

	root.AddCommand(
		newPreviewCmd(),
		newMigrateCmd(),
		newSchemaCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newPreviewCmd() *cobra.Command {
	var bracketType string
	cmd := &cobra.Command{
		Use:   "preview NAME...",
		Short: "Print the bracket that would be generated for the given entrants",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := models.NewTournamentState(models.Tournament{
				Name:   "preview",
				Format: "1v1",
				Status: models.StatusOpen,
			})
			r := roster.NewStore(state)
			for _, name := range args {
				if _, err := r.Add(models.ListParticipant, name); err != nil {
					return err
				}
			}

			snapshot, err := services.PreviewBracket(cmd.Context(), state, services.GenerateBracketInput{
				BracketType: models.BracketType(bracketType),
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(snapshot)
		},
	}
	cmd.Flags().StringVar(&bracketType, "type", string(models.BracketSingleElim), "bracket type: single_elim or double_elim")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema to DATABASE_URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn := os.Getenv("DATABASE_URL")
			if dsn == "" {
				return errors.New("DATABASE_URL environment variable is not set")
			}
			conn, err := db.Connect(dsn, timeout)
			if err != nil {
				return err
			}
			defer conn.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			if err := db.Migrate(ctx, conn); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "connection and migration timeout")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), db.Schema())
			return err
		},
	}
}
