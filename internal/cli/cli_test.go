package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Keep profile and background paths inside the test dir.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListOutputsSessions(t *testing.T) {
	claudeDir := writeSessionFixture(t)
	configPath := filepath.Join(t.TempDir(), "config.json")

	out, err := runCommand(t,
		"--config", configPath,
		"--claude-dir", claudeDir,
		"--terminal", "direct",
		"list",
	)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "abc12345-0000-0000-0000-000000000000") {
		t.Fatalf("output missing session: %s", out)
	}
	if !strings.Contains(out, "/tmp/proj") {
		t.Fatalf("output missing project path: %s", out)
	}
}

func TestListPretty(t *testing.T) {
	claudeDir := writeSessionFixture(t)
	configPath := filepath.Join(t.TempDir(), "config.json")

	out, err := runCommand(t,
		"--config", configPath,
		"--claude-dir", claudeDir,
		"--terminal", "direct",
		"list", "--pretty",
	)
	if err != nil {
		t.Fatalf("list --pretty: %v", err)
	}
	if !strings.Contains(out, "\n  ") {
		t.Fatalf("expected indented output: %s", out)
	}
}

func TestShowPrintsSessionByPrefix(t *testing.T) {
	claudeDir := writeSessionFixture(t)
	configPath := filepath.Join(t.TempDir(), "config.json")

	out, err := runCommand(t,
		"--config", configPath,
		"--claude-dir", claudeDir,
		"--terminal", "direct",
		"show", "abc12345",
	)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "hello there") {
		t.Fatalf("output missing first prompt: %s", out)
	}
}

func TestShowUnknownSession(t *testing.T) {
	claudeDir := writeSessionFixture(t)
	configPath := filepath.Join(t.TempDir(), "config.json")

	_, err := runCommand(t,
		"--config", configPath,
		"--claude-dir", claudeDir,
		"--terminal", "direct",
		"show", "nope",
	)
	if err == nil {
		t.Fatal("expected error for unknown session")
	}
}

func TestResumeUnknownSession(t *testing.T) {
	claudeDir := writeSessionFixture(t)
	configPath := filepath.Join(t.TempDir(), "config.json")

	_, err := runCommand(t,
		"--config", configPath,
		"--claude-dir", claudeDir,
		"--terminal", "direct",
		"resume", "nope",
	)
	if err == nil {
		t.Fatal("expected error for unknown session")
	}
}

func TestBuildVersion(t *testing.T) {
	origCommit, origDate := commit, date
	t.Cleanup(func() { commit, date = origCommit, origDate })

	commit = "abcdef"
	date = "2026-08-30"
	got := buildVersion()
	if !strings.Contains(got, version) || !strings.Contains(got, "abcdef") || !strings.Contains(got, "2026-08-30") {
		t.Fatalf("buildVersion = %q", got)
	}
}

func TestDoctorReports(t *testing.T) {
	a := newTestApp(t, newFakeAdapter())
	var out bytes.Buffer
	if err := runDoctor(&out, a); err != nil {
		t.Fatalf("runDoctor: %v", err)
	}
	report := out.String()
	for _, want := range []string{"Config:", "Projects dir:", "Terminal:", "Sessions:", "Launches:"} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
	if !strings.Contains(report, "Sessions:     1") {
		t.Fatalf("expected one session in report:\n%s", report)
	}
}
