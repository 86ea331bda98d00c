// Package settings persists the user's application settings as a small JSON
// document in the per-user config directory.
package settings

// DefaultAutosaveMs is the autosave interval used when none is stored.
const DefaultAutosaveMs uint64 = 10000

// Settings is the persisted settings document.
type Settings struct {
	// DefaultRootPath is the vault opened at startup. Empty means none.
	DefaultRootPath string `json:"default_root_path" yaml:"default_root_path"`
	// AutosaveMs is the editor autosave interval in milliseconds.
	AutosaveMs uint64 `json:"autosave_ms" yaml:"autosave_ms"`
}

// Default returns the settings used when nothing valid is stored.
func Default() Settings {
	return Settings{
		DefaultRootPath: "",
		AutosaveMs:      DefaultAutosaveMs,
	}
}
