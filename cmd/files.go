package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"crepbook/pkg/usecase"
)

type pathResult struct {
	Path  string `json:"path" yaml:"path"`
	Value any    `json:"value" yaml:"value"`
}

func buildExistsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exists [path]",
		Short: "Report whether anything occupies a path",
		Args:  cobra.ExactArgs(1),
		RunE:  runExists,
	}
}

func runExists(_ *cobra.Command, args []string) error {
	return withService(func(svc *usecase.Service) error {
		exists := svc.Ops().Exists(args[0])
		return render(pathResult{Path: args[0], Value: exists}, func() {
			fmt.Println(exists)
		})
	})
}

func buildReadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "read [file]",
		Short: "Print a text file",
		Args:  cobra.ExactArgs(1),
		RunE:  runRead,
	}
}

func runRead(_ *cobra.Command, args []string) error {
	return withService(func(svc *usecase.Service) error {
		content, err := svc.Ops().ReadFile(args[0])
		if err != nil {
			return err
		}
		return render(pathResult{Path: args[0], Value: content}, func() {
			fmt.Print(content)
		})
	})
}

func buildWriteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "write [file] [content]",
		Short: "Replace a file's content, reading stdin when content is omitted",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runWrite,
	}
}

func runWrite(cmd *cobra.Command, args []string) error {
	var content string
	if len(args) == 2 {
		content = args[1]
	} else {
		var in io.Reader = os.Stdin
		if cmd != nil {
			in = cmd.InOrStdin()
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		content = string(data)
	}

	return withService(func(svc *usecase.Service) error {
		if err := svc.Ops().WriteFile(args[0], content); err != nil {
			return err
		}
		return render(pathResult{Path: args[0], Value: len(content)}, func() {
			fmt.Printf("WRITE: %s (%d bytes)\n", args[0], len(content))
		})
	})
}

func buildTouchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "touch [file]",
		Short: "Create an empty file, truncating an existing one",
		Args:  cobra.ExactArgs(1),
		RunE:  runTouch,
	}
}

func runTouch(_ *cobra.Command, args []string) error {
	return withService(func(svc *usecase.Service) error {
		if err := svc.Ops().CreateFile(args[0]); err != nil {
			return err
		}
		return render(pathResult{Path: args[0], Value: true}, func() {
			fmt.Printf("CREATE: %s\n", args[0])
		})
	})
}

var rmRecursive bool

func buildRmCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm [path]",
		Short: "Delete a file, or a directory tree with -r",
		Args:  cobra.ExactArgs(1),
		RunE:  runRm,
	}
	cmd.Flags().BoolVarP(&rmRecursive, "recursive", "r", false, "Delete a directory and everything below it")
	return cmd
}

func runRm(_ *cobra.Command, args []string) error {
	return withService(func(svc *usecase.Service) error {
		var err error
		if rmRecursive {
			err = svc.Ops().DeleteDir(args[0])
		} else {
			err = svc.Ops().DeleteFile(args[0])
		}
		if err != nil {
			return err
		}
		return render(pathResult{Path: args[0], Value: true}, func() {
			fmt.Printf("DELETE: %s\n", args[0])
		})
	})
}

func buildEmptyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "empty [path]",
		Short: "Report whether a file has no content or a directory has no entries",
		Args:  cobra.ExactArgs(1),
		RunE:  runEmpty,
	}
}

func runEmpty(_ *cobra.Command, args []string) error {
	return withService(func(svc *usecase.Service) error {
		var (
			empty bool
			err   error
		)
		if info, statErr := os.Stat(args[0]); statErr == nil && info.IsDir() {
			empty, err = svc.Ops().IsDirEmpty(args[0])
		} else {
			empty, err = svc.Ops().IsFileEmpty(args[0])
		}
		if err != nil {
			return err
		}
		return render(pathResult{Path: args[0], Value: empty}, func() {
			fmt.Println(empty)
		})
	})
}
