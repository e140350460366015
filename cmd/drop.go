package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/storage"
)

var dropForce bool

// dropCmd deletes one stored import, or the whole database file.
var dropCmd = &cobra.Command{
	Use:   "drop [hash-prefix]",
	Short: "Delete a stored import or the whole database",
	Long: `With a hash prefix, delete that import and its matches. Without one,
permanently delete the SQLite database file. Both require --force.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 1 {
		return dropImport(cmd, args[0])
	}
	if !dropForce {
		fmt.Fprintf(cmd.ErrOrStderr(), "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(cmd.ErrOrStderr(), "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(out, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	// WAL side files; absent when the database was closed cleanly.
	for _, suffix := range []string{"-wal", "-shm"} {
		_ = os.Remove(dbPath + suffix)
	}
	fmt.Fprintf(out, "Deleted: %s\n", dbPath)
	return nil
}

func dropImport(cmd *cobra.Command, prefix string) error {
	out := cmd.OutOrStdout()
	if !dbExists() {
		fmt.Fprintln(out, "Database does not exist, nothing to drop.")
		return nil
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	imp, err := db.GetImportByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query import: %w", err)
	}
	if imp == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "No import found with hash prefix %q\n", prefix)
		return nil
	}
	if !dropForce {
		fmt.Fprintf(cmd.ErrOrStderr(), "This will delete import %s (%s, %d matches).\n",
			storage.ShortHash(imp.SourceHash), imp.SourceName, imp.Matches)
		fmt.Fprintf(cmd.ErrOrStderr(), "Re-run with --force to confirm.\n")
		return nil
	}
	if _, err := db.DeleteImport(imp.SourceHash); err != nil {
		return fmt.Errorf("delete import: %w", err)
	}
	fmt.Fprintf(out, "Deleted import %s\n", storage.ShortHash(imp.SourceHash))
	return nil
}
