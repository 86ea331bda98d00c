package ipc

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"crepbook/pkg/usecase"
)

var (
	// ErrUnknownCommand is returned for a command name with no handler.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidArgument is returned when command arguments cannot be decoded
	// or a required one is missing.
	ErrInvalidArgument = errors.New("invalid argument")
)

type handler func(svc *usecase.Service, raw []byte) (any, error)

type fileArgs struct {
	Filename string `json:"filename"`
}

type writeArgs struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type renameFileArgs struct {
	OldFilename string `json:"oldFilename"`
	NewFilename string `json:"newFilename"`
}

type dirArgs struct {
	Path string `json:"path"`
}

type renameDirArgs struct {
	OldPath string `json:"oldPath"`
	NewPath string `json:"newPath"`
}

// rootArgs keeps "" (clear the root) apart from a missing key.
type rootArgs struct {
	Path *string `json:"path"`
}

type autosaveArgs struct {
	Ms *uint64 `json:"ms"`
}

type noArgs struct{}

// commands maps every command name the desktop shell invokes to its handler.
var commands = map[string]handler{
	"fs_file_exist": command(func(svc *usecase.Service, a fileArgs) (any, error) {
		if err := required("filename", a.Filename); err != nil {
			return nil, err
		}
		return svc.Ops().Exists(a.Filename), nil
	}),
	"fs_read_file": command(func(svc *usecase.Service, a fileArgs) (any, error) {
		if err := required("filename", a.Filename); err != nil {
			return nil, err
		}
		return svc.Ops().ReadFile(a.Filename)
	}),
	"fs_write_file": command(func(svc *usecase.Service, a writeArgs) (any, error) {
		if err := required("filename", a.Filename); err != nil {
			return nil, err
		}
		return true, svc.Ops().WriteFile(a.Filename, a.Content)
	}),
	"fs_create_file": command(func(svc *usecase.Service, a fileArgs) (any, error) {
		if err := required("filename", a.Filename); err != nil {
			return nil, err
		}
		return true, svc.Ops().CreateFile(a.Filename)
	}),
	"fs_delete_file": command(func(svc *usecase.Service, a fileArgs) (any, error) {
		if err := required("filename", a.Filename); err != nil {
			return nil, err
		}
		return true, svc.Ops().DeleteFile(a.Filename)
	}),
	"fs_is_file_empty": command(func(svc *usecase.Service, a fileArgs) (any, error) {
		if err := required("filename", a.Filename); err != nil {
			return nil, err
		}
		return svc.Ops().IsFileEmpty(a.Filename)
	}),
	"fs_next_available_file_path": command(func(svc *usecase.Service, a fileArgs) (any, error) {
		if err := required("filename", a.Filename); err != nil {
			return nil, err
		}
		return svc.Ops().NextAvailableFilePath(a.Filename), nil
	}),
	"fs_rename_file": command(func(svc *usecase.Service, a renameFileArgs) (any, error) {
		if err := required("oldFilename", a.OldFilename); err != nil {
			return nil, err
		}
		if err := required("newFilename", a.NewFilename); err != nil {
			return nil, err
		}
		return svc.RenameFile(usecase.RenameRequest{OldPath: a.OldFilename, NewPath: a.NewFilename})
	}),
	"fs_get_dir_content": command(func(svc *usecase.Service, a dirArgs) (any, error) {
		if err := required("path", a.Path); err != nil {
			return nil, err
		}
		return svc.Ops().ListDir(a.Path)
	}),
	"fs_create_dir": command(func(svc *usecase.Service, a dirArgs) (any, error) {
		if err := required("path", a.Path); err != nil {
			return nil, err
		}
		return true, svc.Ops().CreateDir(a.Path)
	}),
	"fs_delete_dir": command(func(svc *usecase.Service, a dirArgs) (any, error) {
		if err := required("path", a.Path); err != nil {
			return nil, err
		}
		return true, svc.Ops().DeleteDir(a.Path)
	}),
	"fs_is_dir_empty": command(func(svc *usecase.Service, a dirArgs) (any, error) {
		if err := required("path", a.Path); err != nil {
			return nil, err
		}
		return svc.Ops().IsDirEmpty(a.Path)
	}),
	"fs_next_available_dir_path": command(func(svc *usecase.Service, a dirArgs) (any, error) {
		if err := required("path", a.Path); err != nil {
			return nil, err
		}
		return svc.Ops().NextAvailableDirPath(a.Path), nil
	}),
	"fs_rename_dir": command(func(svc *usecase.Service, a renameDirArgs) (any, error) {
		if err := required("oldPath", a.OldPath); err != nil {
			return nil, err
		}
		if err := required("newPath", a.NewPath); err != nil {
			return nil, err
		}
		return svc.RenameDir(usecase.RenameRequest{OldPath: a.OldPath, NewPath: a.NewPath}), nil
	}),
	"settings_get_default_root_path": command(func(svc *usecase.Service, _ noArgs) (any, error) {
		return svc.Settings().DefaultRootPath(), nil
	}),
	"settings_set_default_root_path": command(func(svc *usecase.Service, a rootArgs) (any, error) {
		if a.Path == nil {
			return nil, fmt.Errorf("%w: path is required", ErrInvalidArgument)
		}
		return nil, svc.Settings().SetDefaultRootPath(*a.Path)
	}),
	"settings_get_autosave_ms": command(func(svc *usecase.Service, _ noArgs) (any, error) {
		return svc.Settings().AutosaveMs(), nil
	}),
	"settings_set_autosave_ms": command(func(svc *usecase.Service, a autosaveArgs) (any, error) {
		if a.Ms == nil {
			return nil, fmt.Errorf("%w: ms is required", ErrInvalidArgument)
		}
		return nil, svc.Settings().SetAutosaveMs(*a.Ms)
	}),
	"settings_get_all": command(func(svc *usecase.Service, _ noArgs) (any, error) {
		return svc.Settings().Get(), nil
	}),
	"settings_reset_to_defaults": command(func(svc *usecase.Service, _ noArgs) (any, error) {
		return nil, svc.Settings().Reset()
	}),
}

// Commands returns the names of every registered command.
func Commands() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	return names
}

func command[A any](fn func(svc *usecase.Service, args A) (any, error)) handler {
	return func(svc *usecase.Service, raw []byte) (any, error) {
		var args A
		if len(raw) > 0 {
			if err := sonic.Unmarshal(raw, &args); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
			}
		}
		return fn(svc, args)
	}
}

func required(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidArgument, name)
	}
	return nil
}
