package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"crepbook/pkg/usecase"
)

func buildSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the stored application settings",
		Long: `Settings live in .crepbook.settings.json inside the application
directory (CREPBOOK_CONFIG_DIR, or the user config directory).`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print every setting",
			Args:  cobra.NoArgs,
			RunE:  runSettingsShow,
		},
		&cobra.Command{
			Use:   "root [path]",
			Short: "Print the default vault path, or set it when path is given",
			Args:  cobra.MaximumNArgs(1),
			RunE:  runSettingsRoot,
		},
		&cobra.Command{
			Use:   "autosave [ms]",
			Short: "Print the autosave interval, or set it when ms is given",
			Args:  cobra.MaximumNArgs(1),
			RunE:  runSettingsAutosave,
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Delete the settings file and fall back to defaults",
			Args:  cobra.NoArgs,
			RunE:  runSettingsReset,
		},
	)

	return cmd
}

func runSettingsShow(_ *cobra.Command, _ []string) error {
	return withService(func(svc *usecase.Service) error {
		current := svc.Settings().Get()
		return render(current, func() {
			fmt.Printf("default_root_path: %s\n", current.DefaultRootPath)
			fmt.Printf("autosave_ms:       %d\n", current.AutosaveMs)
			if verbose {
				fmt.Printf("file:              %s\n", svc.Meta().SettingsPath())
			}
		})
	})
}

func runSettingsRoot(_ *cobra.Command, args []string) error {
	return withService(func(svc *usecase.Service) error {
		if len(args) == 1 {
			if err := svc.Settings().SetDefaultRootPath(args[0]); err != nil {
				return err
			}
		}
		path := svc.Settings().DefaultRootPath()
		return render(path, func() {
			fmt.Println(path)
		})
	})
}

func runSettingsAutosave(_ *cobra.Command, args []string) error {
	return withService(func(svc *usecase.Service) error {
		if len(args) == 1 {
			ms, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid autosave interval %q: %w", args[0], err)
			}
			if err := svc.Settings().SetAutosaveMs(ms); err != nil {
				return err
			}
		}
		ms := svc.Settings().AutosaveMs()
		return render(ms, func() {
			fmt.Println(ms)
		})
	})
}

func runSettingsReset(_ *cobra.Command, _ []string) error {
	return withService(func(svc *usecase.Service) error {
		if err := svc.Settings().Reset(); err != nil {
			return err
		}
		return render(svc.Settings().Get(), func() {
			fmt.Println("Settings reset to defaults.")
		})
	})
}
