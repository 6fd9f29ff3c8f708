// ABOUTME: CLI command for copying data between storage backends.
// ABOUTME: Copies the current user's keys from the configured backend to --to.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/healthai/internal/config"
	"github.com/harperreed/healthai/internal/storage"
	"github.com/harperreed/healthai/internal/store"
	"github.com/spf13/cobra"
)

var (
	migrateTo     string
	migrateDryRun bool
	migrateForce  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data to another storage backend",
	Long: `Copy the current user's data from the configured backend to another.

The user's metrics, insights and data sources are copied, along with the
account record for registered users. An on-disk destination (sqlite or
badger) that already holds data is refused unless --force is given, in
which case existing values are overwritten. Switch 'backend' in the config
afterwards.

USAGE:

  healthai migrate --to badger --dry-run   # Preview what would be copied
  healthai migrate --to badger             # Copy from sqlite to badger
  healthai --backend charm migrate --to sqlite`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		src := current.cfg.GetBackend()
		if migrateTo == "" {
			return fmt.Errorf("--to is required (one of %v)", config.Backends)
		}
		if migrateTo == src {
			return fmt.Errorf("destination backend is the same as the source (%s)", src)
		}

		u := current.user()
		keys := store.KeysFor(u.ID)
		if !u.IsDemo {
			keys = append(keys, store.UserKey(u.Email))
		}

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Printf("Would copy %d keys from %s to %s:\n", len(keys), src, migrateTo)
			for _, k := range keys {
				fmt.Printf("  %s\n", k)
			}
			return nil
		}

		dstCfg := *current.cfg
		dstCfg.Backend = migrateTo
		if err := dstCfg.Validate(); err != nil {
			return fmt.Errorf("invalid destination: %w", err)
		}
		if !migrateForce {
			inUse, err := hasData(dstCfg.StoragePath())
			if err != nil {
				return err
			}
			if inUse {
				return fmt.Errorf("%s already holds data (use --force to overwrite)", dstCfg.StoragePath())
			}
		}
		dst, err := dstCfg.OpenStorage(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", migrateTo, err)
		}
		defer func() { _ = dst.Close() }()

		summary, err := storage.MigrateKeys(cmd.Context(), current.kv, dst, keys)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated %s to %s", src, migrateTo)
		fmt.Printf("  %d copied, %d missing\n", summary.Copied, summary.Missing)
		return nil
	},
}

// hasData reports whether an on-disk backend location exists with content.
// An empty path means the backend is not on disk.
func hasData(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("check %s: %w", path, err)
	}
	if info.IsDir() {
		return storage.IsDirNonEmpty(path)
	}
	return info.Size() > 0, nil
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend")
	migrateCmd.Flags().BoolVarP(&migrateForce, "force", "f", false, "overwrite a destination that already holds data")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}
