//go:build windows
// +build windows

// Package config loads walk profiles from TOML files, for compliance
// tools that run one fixed policy against many roots (spec.md §1's
// stated audience). Modeled on theanswer42-bt-go's internal/config, which
// loads its own settings via github.com/BurntSushi/toml.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	wintree "github.com/bali3355/Fast-Folder-Exploring-with-Security"
)

// Profile is a serializable set of walk defaults. Field names map to TOML
// keys matching the option names in spec.md §6's options surface.
type Profile struct {
	SearchFor        string `toml:"search_for"`
	IncludeInherited bool   `toml:"include_inherited"`
	ResolveOwner     bool   `toml:"resolve_owner"`
	UseNativeOwner   bool   `toml:"use_native_owner"`
	MaxDepth         int    `toml:"max_depth"`
	SearchPattern    string `toml:"search_pattern"`
	Workers          int    `toml:"workers"`
}

// DefaultProfile matches wintree's own built-in defaults (options.go's
// applyOptions), so loading no file and loading a config with everything
// left at its zero value behave the same way.
func DefaultProfile() Profile {
	return Profile{
		SearchFor:        "files",
		IncludeInherited: true,
		ResolveOwner:     true,
		UseNativeOwner:   true,
		MaxDepth:         -1,
		SearchPattern:    "*",
	}
}

// Load reads and parses a TOML profile from path.
func Load(path string) (Profile, error) {
	p := DefaultProfile()

	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Profile{}, fmt.Errorf("config: decode %s: %w", path, err)
	}

	return p, nil
}

// Options translates the profile into an [wintree.Option] slice.
func (p Profile) Options() ([]wintree.Option, error) {
	searchFor, err := parseSearchFor(p.SearchFor)
	if err != nil {
		return nil, err
	}

	opts := []wintree.Option{
		wintree.WithSearchFor(searchFor),
		wintree.WithIncludeInherited(p.IncludeInherited),
		wintree.WithResolveOwner(p.ResolveOwner),
		wintree.WithUseNativeOwner(p.UseNativeOwner),
		wintree.WithMaxDepth(p.MaxDepth),
		wintree.WithSearchPattern(p.SearchPattern),
	}

	if p.Workers > 0 {
		opts = append(opts, wintree.WithWorkers(p.Workers))
	}

	return opts, nil
}

func parseSearchFor(s string) (wintree.SearchFor, error) {
	switch s {
	case "", "files":
		return wintree.SearchFiles, nil
	case "dirs", "directories":
		return wintree.SearchDirs, nil
	case "both":
		return wintree.SearchBoth, nil
	default:
		return 0, fmt.Errorf("config: unknown search_for %q", s)
	}
}
