package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"crepbook/pkg/usecase"
)

func buildLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [dir]",
		Short: "List the folders and files directly inside a directory",
		Long: `Lists the direct children of a directory, folders first, in the order
the filesystem returns them. Symlinks are listed by what they point at.`,
		Args: cobra.ExactArgs(1),
		RunE: runLs,
	}
}

func runLs(_ *cobra.Command, args []string) error {
	return withService(func(svc *usecase.Service) error {
		content, err := svc.Ops().ListDir(args[0])
		if err != nil {
			return err
		}
		return render(content, func() {
			for _, dir := range content.Dirs {
				fmt.Printf("%s%c\n", filepath.Base(dir), filepath.Separator)
			}
			for _, file := range content.Files {
				fmt.Println(filepath.Base(file))
			}
			if verbose {
				fmt.Println()
				printSummary(
					fmt.Sprintf("Folders: %d", len(content.Dirs)),
					fmt.Sprintf("Files:   %d", len(content.Files)),
				)
			}
		})
	})
}

func buildMkdirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir [dir]",
		Short: "Create a directory (the parent must exist)",
		Args:  cobra.ExactArgs(1),
		RunE:  runMkdir,
	}
}

func runMkdir(_ *cobra.Command, args []string) error {
	return withService(func(svc *usecase.Service) error {
		if err := svc.Ops().CreateDir(args[0]); err != nil {
			return err
		}
		return render(pathResult{Path: args[0], Value: true}, func() {
			fmt.Printf("MKDIR: %s\n", args[0])
		})
	})
}
