package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"taskflow/internal/i18n"
	"taskflow/internal/model"
)

func (c *cli) themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|system|toggle]",
		Short:     "Show or change the colour theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "system", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			themes := c.app.Themes
			if len(args) == 1 {
				switch arg := strings.ToLower(args[0]); arg {
				case "toggle":
					if _, err := themes.Toggle(ctx, c.cfg.SystemDark); err != nil {
						return err
					}
				default:
					theme, err := model.ParseTheme(arg)
					if err != nil {
						return err
					}
					if err := themes.SetTheme(ctx, theme); err != nil {
						return err
					}
				}
			}
			shown := "light"
			if themes.IsDark(ctx, c.cfg.SystemDark) {
				shown = "dark"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", i18n.T("theme"), themes.Theme(ctx), shown)
			return nil
		},
	}
}

func (c *cli) settingsCmd() *cobra.Command {
	var (
		theme           string
		notifications   bool
		autoSave        bool
		completionSound bool
		reset           bool
	)
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if reset {
				if err := c.app.Settings.ResetSettings(ctx); err != nil {
					return err
				}
			}
			settings := c.app.Settings.Settings(ctx)
			changed := cmd.Flags().Changed
			dirty := changed("theme") || changed("notifications") || changed("auto-save") || changed("completion-sound")

			if changed("theme") {
				t, err := model.ParseTheme(strings.ToLower(theme))
				if err != nil {
					return err
				}
				settings.Theme = t
			}
			if changed("notifications") {
				settings.Notifications = notifications
			}
			if changed("auto-save") {
				settings.AutoSave = autoSave
			}
			if changed("completion-sound") {
				settings.CompletionSound = completionSound
			}

			out := cmd.OutOrStdout()
			if dirty {
				if err := c.app.Settings.SaveSettings(ctx, settings); err != nil {
					return err
				}
				fmt.Fprintln(out, i18n.T("settingsSaved"))
			}
			fmt.Fprintf(out, "%s: %s\n", i18n.T("theme"), settings.Theme)
			fmt.Fprintf(out, "%s: %s\n", i18n.T("pushNotifications"), yesNo(settings.Notifications))
			fmt.Fprintf(out, "%s: %s\n", i18n.T("autoSave"), yesNo(settings.AutoSave))
			fmt.Fprintf(out, "%s: %s\n", i18n.T("completionSound"), yesNo(settings.CompletionSound))
			return nil
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "light, dark or system")
	cmd.Flags().BoolVar(&notifications, "notifications", true, "push notifications")
	cmd.Flags().BoolVar(&autoSave, "auto-save", true, "auto save")
	cmd.Flags().BoolVar(&completionSound, "completion-sound", false, "play a sound on completion")
	cmd.Flags().BoolVar(&reset, "reset", false, "restore default preferences before applying other flags")
	return cmd
}

func (c *cli) profileCmd() *cobra.Command {
	var (
		name, email, avatar string
		reset               bool
	)
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the user profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if reset {
				if err := c.app.Settings.ResetProfile(ctx); err != nil {
					return err
				}
			}
			profile := c.app.Settings.Profile(ctx)
			changed := cmd.Flags().Changed
			dirty := changed("name") || changed("email") || changed("avatar")
			if changed("name") {
				profile.Name = strings.TrimSpace(name)
			}
			if changed("email") {
				profile.Email = strings.TrimSpace(email)
			}
			if changed("avatar") {
				profile.Avatar = strings.TrimSpace(avatar)
			}

			out := cmd.OutOrStdout()
			if dirty {
				if err := c.app.Settings.SaveProfile(ctx, profile); err != nil {
					return err
				}
				fmt.Fprintln(out, i18n.T("settingsSaved"))
			}
			stats := c.app.Store.Stats()
			fmt.Fprintf(out, "%s: %s\n", i18n.T("displayName"), profile.Name)
			fmt.Fprintf(out, "%s: %s\n", i18n.T("emailAddress"), profile.Email)
			fmt.Fprintf(out, "avatar: %s\n", profile.Avatar)
			fmt.Fprintf(out, "%s: %d/%d · %s %d%%\n",
				i18n.T("completed"), stats.Completed, stats.Total,
				i18n.T("completionRate"), stats.CompletionRate())
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&avatar, "avatar", "", "avatar URL")
	cmd.Flags().BoolVar(&reset, "reset", false, "restore the default profile before applying other flags")
	return cmd
}

func (c *cli) clearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Erase all tasks, settings and the profile",
		Long: `Erases every stored key. Without --yes it only lists the keys that
would be erased and exits with an error.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				keys, err := c.app.Settings.StoredKeys(cmd.Context())
				if err != nil {
					return err
				}
				for _, key := range keys {
					fmt.Fprintln(cmd.OutOrStdout(), key)
				}
				return errors.New(i18n.T("confirmClearData") + " (--yes)")
			}
			if err := c.app.Settings.ClearAll(cmd.Context()); err != nil {
				return err
			}
			c.app.Store.Reload(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("clearAllData")+": ok")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm")
	return cmd
}

func yesNo(v bool) string {
	if v {
		return i18n.T("yes")
	}
	return i18n.T("no")
}
