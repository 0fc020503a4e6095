package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/pocketledger/pocketledger/internal/backup"
	"github.com/pocketledger/pocketledger/internal/cli"
	"github.com/pocketledger/pocketledger/internal/common"
	"github.com/spf13/cobra"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up and restore the whole ledger",
	}

	cmd.AddCommand(backupCreateCmd())
	cmd.AddCommand(backupRestoreCmd())
	cmd.AddCommand(backupStatusCmd())
	cmd.AddCommand(backupIntervalCmd())

	return cmd
}

func backupCreateCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Write a backup snapshot",
		Long: `Write the full ledger state to the backup file. Without --force the
configured interval decides whether a backup is due; --force always writes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			scheduler := backup.NewScheduler(store, backup.NewCodec(store), backupDir())
			path, err := scheduler.Run(ctx, time.Now(), force)
			if err != nil {
				return err
			}
			if path == "" {
				fmt.Println(cli.InfoStyle.Render("No backup due. Use --force to back up anyway."))
				return nil
			}

			fmt.Println(cli.FormatSuccess("Backup written to " + path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "back up regardless of the configured interval")
	return cmd
}

func backupRestoreCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the entire ledger with a snapshot",
		Long: `Destructively replace all accounts, categories, transactions and settings
with the contents of a backup file. The rewrite is transactional: a failure
leaves the current ledger untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			flow := backup.NewRestoreFlow(backup.NewCodec(store))
			if err := flow.PickFile(args[0]); err != nil {
				return err
			}

			if !yes {
				fmt.Println(cli.FormatWarning("This replaces the entire ledger. Re-run with --yes to proceed."))
				// The only safe cancellation point: nothing has been read or
				// written yet.
				return flow.Cancel()
			}

			if err := flow.Apply(ctx); err != nil {
				if errors.Is(err, common.ErrMalformedBackup) {
					return fmt.Errorf("backup file is not usable: %w", err)
				}
				return err
			}

			fmt.Println(cli.FormatSuccess("Ledger restored from " + args[0]))
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation step")
	return cmd
}

func backupStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show backup configuration and last backup time",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			interval := string(backup.IntervalNever)
			if raw, err := store.GetSetting(ctx, backup.SettingInterval); err == nil {
				interval = raw
			} else if !errors.Is(err, common.ErrNotFound) {
				return err
			}

			lastAt := "never"
			if raw, err := store.GetSetting(ctx, backup.SettingLastBackupAt); err == nil {
				lastAt = raw
			} else if !errors.Is(err, common.ErrNotFound) {
				return err
			}

			scheduler := backup.NewScheduler(store, backup.NewCodec(store), backupDir())
			fmt.Printf("Interval:    %s\n", interval)
			fmt.Printf("Last backup: %s\n", lastAt)
			fmt.Printf("File:        %s", scheduler.Path())
			if backup.Exists(scheduler.Path()) {
				fmt.Printf(" %s\n", cli.SuccessStyle.Render("(present)"))
			} else {
				fmt.Printf(" %s\n", cli.SubtleStyle.Render("(absent)"))
			}
			return nil
		},
	}
}

func backupIntervalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interval <daily|weekly|monthly|never>",
		Short: "Set the automatic backup interval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			interval, err := backup.ParseInterval(args[0])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SetSetting(ctx, backup.SettingInterval, string(interval)); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("Backup interval set to " + string(interval)))
			return nil
		},
	}
}
