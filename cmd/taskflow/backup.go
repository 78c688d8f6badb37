package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskflow/internal/i18n"
	"taskflow/internal/service"
)

func (c *cli) exportCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write a JSON backup of tasks, profile and settings",
		Long: `Writes the backup document to file, or to stdout when no file is given.
With --dir the file is named taskflow-backup-YYYY-MM-DD.json inside that directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			backups := c.app.Backups
			switch {
			case dir != "":
				path, err := backups.ExportToDir(ctx, dir)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			case len(args) == 0 || args[0] == "-":
				return backups.Export(ctx, cmd.OutOrStdout())
			}

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("create %s: %w", args[0], err)
			}
			if err := backups.Export(ctx, f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "write a dated backup file into this directory")
	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	var tasks bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Restore profile and settings from a backup",
		Long: `Restores the profile and settings found in a backup file.
Tasks in the file are ignored unless --tasks is given, in which case they
replace the current list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			res, err := c.app.Backups.Import(cmd.Context(), f, service.ImportOptions{Tasks: tasks})
			if errors.Is(err, service.ErrMalformedBackup) {
				c.logger.Warn("import rejected", zap.String("file", args[0]), zap.Error(err))
				return errors.New(i18n.T("importError"))
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, i18n.T("dataImportedSuccess"))
			fmt.Fprintf(out, "%s: %s, %s: %s", i18n.T("settings"), yesNo(res.Settings), i18n.T("profile"), yesNo(res.Profile))
			if tasks {
				fmt.Fprintf(out, ", %s: %d", i18n.T("tasks"), res.Tasks)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&tasks, "tasks", false, "also replace the task list")
	return cmd
}
