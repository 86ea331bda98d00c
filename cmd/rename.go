package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"crepbook/pkg/usecase"
)

var nextDir bool

func buildNextCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next [path]",
		Short: "Print the first free path for a new file or folder",
		Long: `Prints the path unchanged when nothing occupies it, otherwise the first
free sibling with a numeric suffix. Nothing is created.

Files keep their extension; folders are renumbered as a whole:

  notes        -> notes1
  draft7       -> draft8
  doc.txt      -> doc1.txt
  archive.d    -> archive.d1   (with --dir)`,
		Args: cobra.ExactArgs(1),
		RunE: runNext,
	}
	cmd.Flags().BoolVarP(&nextDir, "dir", "d", false, "Resolve a folder name (renumber the whole name)")
	return cmd
}

func runNext(_ *cobra.Command, args []string) error {
	return withService(func(svc *usecase.Service) error {
		var next string
		if nextDir {
			next = svc.Ops().NextAvailableDirPath(args[0])
		} else {
			next = svc.Ops().NextAvailableFilePath(args[0])
		}
		return render(pathResult{Path: args[0], Value: next}, func() {
			fmt.Println(next)
		})
	})
}

func buildRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename [old] [new]",
		Short: "Rename a file or folder, renumbering the new name when it is taken",
		Long: `Renames old to new. When new is already taken, the first free
numbered variant is used instead and printed. Renaming a path to itself does
nothing.

Examples:
  crepbook rename notes/draft.md notes/final.md
  crepbook rename --root ~/vault ~/vault/inbox ~/vault/archive`,
		Args: cobra.ExactArgs(2),
		RunE: runRename,
	}
}

func runRename(_ *cobra.Command, args []string) error {
	oldPath, newPath := args[0], args[1]

	return withService(func(svc *usecase.Service) error {
		req := usecase.RenameRequest{OldPath: oldPath, NewPath: newPath}

		var result usecase.RenameResult
		if info, err := os.Lstat(oldPath); err == nil && info.IsDir() {
			result = svc.RenameDir(req)
			if !result.OK {
				return fmt.Errorf("rename %s: %s (%s)", oldPath, result.Error, result.Kind)
			}
		} else {
			path, err := svc.RenameFile(req)
			if err != nil {
				return err
			}
			result = usecase.RenameResult{OK: true, Path: path}
		}

		return render(result, func() {
			fmt.Printf("RENAME: %s\n", oldPath)
			fmt.Printf("    TO: %s\n", result.Path)
			if result.Path != newPath {
				fmt.Printf("  NOTE: %s was taken\n", newPath)
			}
		})
	})
}

var createDir bool

func buildCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [dir] [name]",
		Short: "Create an empty note or folder named name inside dir",
		Long: `Creates name inside dir. The name is trimmed and must be a single entry
name. When it is taken, the next free numbered name is used.

Examples:
  crepbook create ~/vault todo.md        # todo.md, or todo1.md if taken
  crepbook create --dir ~/vault ideas    # ideas, or ideas1 if taken`,
		Args: cobra.ExactArgs(2),
		RunE: runCreate,
	}
	cmd.Flags().BoolVarP(&createDir, "dir", "d", false, "Create a folder instead of a file")
	return cmd
}

func runCreate(_ *cobra.Command, args []string) error {
	return withService(func(svc *usecase.Service) error {
		execution, err := svc.Create(usecase.CreateRequest{
			Dir:   args[0],
			Name:  args[1],
			IsDir: createDir,
		})
		if err != nil {
			return err
		}

		return render(execution, func() {
			fmt.Printf("CREATE: %s\n", execution.Path)
			if execution.Renumbered() {
				fmt.Printf("  NOTE: %s was taken\n", execution.Requested)
			}
		})
	})
}
