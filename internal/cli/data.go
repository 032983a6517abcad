package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/invoicer/internal/app"
	"github.com/mmynk/invoicer/internal/storage/file"
	"github.com/mmynk/invoicer/internal/storage/sqlite"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the data directory and any missing collection files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := file.Ensure(rootOpts.cfg.DataDir, app.Collections...)
			if err != nil {
				return err
			}
			for _, path := range created {
				fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
			}
			if len(created) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to do")
			}
			return nil
		},
	}
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	var fixtures string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Overwrite the collection files with fixtures",
		Long: `Overwrite the collection files in the data directory with the same-named
files from the fixtures directory.

A running server keeps its in-memory copy until it is sent SIGHUP.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fixtures == "" {
				fixtures = rootOpts.cfg.FixturesPath()
			}
			replaced, err := file.CopyFixtures(fixtures, rootOpts.cfg.DataDir)
			if err != nil {
				return err
			}
			for _, name := range replaced {
				fmt.Fprintf(cmd.OutOrStdout(), "reset %s from %s\n", name, fixtures)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fixtures, "fixtures", "", "fixtures directory (default <data>/fixtures)")
	return cmd
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the JSON collection files into the SQLite database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = rootOpts.cfg.SQLitePath
			}
			db, err := sqlite.New(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Import(cmd.Context(), file.New(rootOpts.cfg.DataDir), app.Collections...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d collections into %s\n", len(app.Collections), dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "sqlite", "", "database path (default from config)")
	return cmd
}
