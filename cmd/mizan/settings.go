package main

import (
	"github.com/spf13/cobra"
	"mizan/internal/render"
	"mizan/internal/settings"
)

var (
	flagArabicFamily string
	flagArabicSize   int
	flagEnglishSize  int
)

func withSettings(cmd *cobra.Command, fn func(svc *settings.Service) (settings.FontSettings, error)) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	storage, err := settings.OpenSQLite(a.cfg.Settings.Path)
	if err != nil {
		return err
	}
	defer storage.Close()

	current, err := fn(settings.NewService(storage, a.logger))
	if err != nil {
		return err
	}
	return render.Settings(cmd.OutOrStdout(), current)
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the saved font settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSettings(cmd, func(svc *settings.Service) (settings.FontSettings, error) {
			return svc.Get(cmd.Context())
		})
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change font settings; flags left out keep their value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch settings.FontSettingsPatch
		if cmd.Flags().Changed("arabic-family") {
			patch.ArabicFontFamily = &flagArabicFamily
		}
		if cmd.Flags().Changed("arabic-size") {
			patch.ArabicFontSize = &flagArabicSize
		}
		if cmd.Flags().Changed("english-size") {
			patch.EnglishFontSize = &flagEnglishSize
		}
		return withSettings(cmd, func(svc *settings.Service) (settings.FontSettings, error) {
			return svc.Update(cmd.Context(), patch)
		})
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default font settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSettings(cmd, func(svc *settings.Service) (settings.FontSettings, error) {
			return svc.Reset(cmd.Context())
		})
	},
}

func init() {
	settingsSetCmd.Flags().StringVar(&flagArabicFamily, "arabic-family", "", "one of: arabic, Scheherazade New, Cairo, Noto Naskh Arabic")
	settingsSetCmd.Flags().IntVar(&flagArabicSize, "arabic-size", 0, "arabic font size in px (14-32)")
	settingsSetCmd.Flags().IntVar(&flagEnglishSize, "english-size", 0, "english font size in px (12-24)")
	settingsCmd.AddCommand(settingsSetCmd, settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}
