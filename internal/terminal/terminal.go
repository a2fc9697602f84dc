// Package terminal abstracts the terminal emulators claude-menu can open
// sessions in. Each emulator gets an Adapter that manages named launch
// profiles and starts sessions inside them; the direct adapter is the
// lowest common denominator that works on any TTY.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/baaaaaaaka/claude-menu/internal/env"
)

// ProfilePrefix marks every profile claude-menu owns. Profiles without the
// prefix are never listed, modified, or removed.
const ProfilePrefix = "Claude-"

// maxProfileSuffix bounds the unique-name search. Hitting it means a
// hundred profiles share one base name, which is never legitimate.
const maxProfileSuffix = 100

var ErrNamingExhausted = errors.New("terminal: profile name space exhausted")

// ProfileOptions describes a profile to create.
type ProfileOptions struct {
	// Base is the human part of the profile name, without ProfilePrefix.
	Base string
	// WorkDir is the directory new sessions in this profile start in.
	WorkDir string
	// Command is run inside the profile instead of the user's shell.
	Command []string
	// Background is an optional image path applied at creation.
	Background string
}

// LaunchSpec describes one session launch.
type LaunchSpec struct {
	// Profile names an existing profile; empty means emulator defaults.
	Profile string
	WorkDir string
	Command []string
	Env     []string
}

// Adapter manages launch profiles for one terminal emulator.
//
// CreateProfile returns ProfileName(opts.Base) and replaces any existing
// profile with that name; callers wanting a fresh name pick one with
// UniqueProfileName first. RemoveProfile of an unknown or unprefixed name
// is a no-op. SetBackground fails for unknown or unprefixed profiles;
// adapters with no background support treat it as a no-op.
type Adapter interface {
	Name() string
	IsAvailable() bool
	CreateProfile(opts ProfileOptions) (string, error)
	RemoveProfile(name string) error
	ListProfiles() ([]string, error)
	SetBackground(profile, imagePath string) error
	LaunchSession(ctx context.Context, spec LaunchSpec) (pid int, err error)
}

// ProfileName prefixes base with ProfilePrefix, sanitizing separators that
// would break profile file names.
func ProfileName(base string) string {
	base = strings.TrimSpace(base)
	base = strings.ReplaceAll(base, "/", "-")
	base = strings.ReplaceAll(base, " ", "-")
	if base == "" {
		base = "session"
	}
	return ProfilePrefix + base
}

// UniqueProfileName returns ProfileName(base), suffixed with a counter
// starting at 1 when the plain name is taken. ErrNamingExhausted is the one
// hard error in profile management.
func UniqueProfileName(base string, existing []string) (string, error) {
	taken := make(map[string]bool, len(existing))
	for _, name := range existing {
		taken[name] = true
	}
	name := ProfileName(base)
	if !taken[name] {
		return name, nil
	}
	for i := 1; i <= maxProfileSuffix; i++ {
		candidate := fmt.Sprintf("%s-%d", name, i)
		if !taken[candidate] {
			return candidate, nil
		}
	}
	return "", ErrNamingExhausted
}

// IsManagedProfile reports whether name belongs to claude-menu.
func IsManagedProfile(name string) bool {
	return strings.HasPrefix(name, ProfilePrefix)
}

// backgroundUsable reports whether a background path can be applied at
// profile creation. A missing image is not an error; the profile is simply
// created without one.
func backgroundUsable(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}

// Detect picks the adapter name for the current environment. Without a
// graphical display only the direct adapter can work; otherwise emulator
// markers and PATH decide, preferring the emulator we are running inside.
func Detect(environ []string) string {
	if !env.HasDisplay(environ) {
		return "direct"
	}
	if _, ok := env.Lookup(environ, "KITTY_WINDOW_ID"); ok {
		return "kitty"
	}
	if _, ok := env.Lookup(environ, "KONSOLE_VERSION"); ok {
		return "konsole"
	}
	if _, err := exec.LookPath("kitty"); err == nil {
		return "kitty"
	}
	if _, err := exec.LookPath("konsole"); err == nil {
		return "konsole"
	}
	return "direct"
}

// ForName builds the named adapter. An unknown or unavailable adapter
// degrades to direct with a warning rather than failing the launch.
func ForName(name string, log *slog.Logger) Adapter {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	var a Adapter
	switch name {
	case "kitty":
		a = NewKitty(log)
	case "konsole":
		a = NewKonsole(log)
	case "direct", "":
		return NewDirect(log)
	default:
		log.Warn("unknown terminal, using direct", "terminal", name)
		return NewDirect(log)
	}
	if !a.IsAvailable() {
		log.Warn("terminal not available, using direct", "terminal", name)
		return NewDirect(log)
	}
	return a
}

// IsWSL reports whether the process runs under Windows Subsystem for Linux.
// Konsole profile paths differ there when KDE runs on the Windows side.
func IsWSL() bool {
	b, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(b)), "microsoft")
}
