package terminal

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ---------------------------------------------------------------------------
// ProfileName / UniqueProfileName
// ---------------------------------------------------------------------------

func TestProfileName_Basic(t *testing.T) {
	if got := ProfileName("myproj"); got != "Claude-myproj" {
		t.Errorf("got %q", got)
	}
}

func TestProfileName_Sanitizes(t *testing.T) {
	if got := ProfileName("home/alice proj"); got != "Claude-home-alice-proj" {
		t.Errorf("got %q", got)
	}
}

func TestProfileName_Empty(t *testing.T) {
	if got := ProfileName("  "); got != "Claude-session" {
		t.Errorf("got %q", got)
	}
}

func TestUniqueProfileName_FirstFree(t *testing.T) {
	got, err := UniqueProfileName("proj", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Claude-proj" {
		t.Errorf("got %q", got)
	}
}

func TestUniqueProfileName_CounterStartsAtOne(t *testing.T) {
	got, err := UniqueProfileName("proj", []string{"Claude-proj"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "Claude-proj-1" {
		t.Errorf("got %q", got)
	}
}

func TestUniqueProfileName_Counter(t *testing.T) {
	existing := []string{"Claude-proj", "Claude-proj-1", "Claude-proj-2"}
	got, err := UniqueProfileName("proj", existing)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Claude-proj-3" {
		t.Errorf("got %q", got)
	}
}

func TestUniqueProfileName_Exhausted(t *testing.T) {
	existing := []string{"Claude-proj"}
	for i := 1; i <= maxProfileSuffix; i++ {
		existing = append(existing, fmt.Sprintf("Claude-proj-%d", i))
	}
	_, err := UniqueProfileName("proj", existing)
	if !errors.Is(err, ErrNamingExhausted) {
		t.Errorf("err = %v, want ErrNamingExhausted", err)
	}
}

func TestIsManagedProfile(t *testing.T) {
	if !IsManagedProfile("Claude-x") {
		t.Error("Claude-x should be managed")
	}
	if IsManagedProfile("Shell") {
		t.Error("Shell should not be managed")
	}
}

// ---------------------------------------------------------------------------
// Detect / ForName
// ---------------------------------------------------------------------------

func TestDetect_NoDisplay(t *testing.T) {
	if got := Detect([]string{"PATH=/bin"}); got != "direct" {
		t.Errorf("got %q", got)
	}
}

func TestDetect_KittyMarker(t *testing.T) {
	environ := []string{"DISPLAY=:0", "KITTY_WINDOW_ID=1"}
	if got := Detect(environ); got != "kitty" {
		t.Errorf("got %q", got)
	}
}

func TestDetect_KonsoleMarker(t *testing.T) {
	environ := []string{"DISPLAY=:0", "KONSOLE_VERSION=230800"}
	if got := Detect(environ); got != "konsole" {
		t.Errorf("got %q", got)
	}
}

func TestForName_Direct(t *testing.T) {
	a := ForName("direct", discardLogger())
	if a.Name() != "direct" {
		t.Errorf("Name = %q", a.Name())
	}
}

func TestForName_EmptyDefaultsToDirect(t *testing.T) {
	if a := ForName("", discardLogger()); a.Name() != "direct" {
		t.Errorf("Name = %q", a.Name())
	}
}

func TestForName_UnknownFallsBack(t *testing.T) {
	if a := ForName("wezterm", discardLogger()); a.Name() != "direct" {
		t.Errorf("Name = %q", a.Name())
	}
}
