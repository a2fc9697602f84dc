// Package background renders per-session wallpaper images for terminal
// profiles. ImageMagick does the drawing when installed; a built-in
// renderer covers machines without it.
package background

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	imageWidth  = 1920
	imageHeight = 1080
	// Dark blue wash the session text is drawn over.
	canvasColor = "#141428"
)

// Info is what gets rendered onto a session's background.
type Info struct {
	SessionID   string
	Title       string
	ProjectPath string
	Branch      string
	Model       string
}

// lines is the text stack drawn on the image, top to bottom. It doubles as
// the change signature stored next to the image.
func (i Info) lines() []string {
	out := []string{filepath.Base(strings.TrimSpace(i.ProjectPath))}
	if i.Title != "" {
		out = append(out, i.Title)
	}
	if i.Branch != "" {
		out = append(out, "⎇ "+i.Branch)
	}
	if i.Model != "" {
		out = append(out, i.Model)
	}
	return out
}

// Generator writes images and their change signatures under Dir.
type Generator struct {
	Dir string
	Log *slog.Logger
}

func NewGenerator(dir string, log *slog.Logger) *Generator {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Generator{Dir: dir, Log: log}
}

// DefaultDir returns the backgrounds directory next to the config file.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(base, "claude-menu", "backgrounds"), nil
}

func (g *Generator) ImagePath(sessionID string) string {
	return filepath.Join(g.Dir, sessionID+".png")
}

func (g *Generator) metaPath(sessionID string) string {
	return filepath.Join(g.Dir, sessionID+".txt")
}

// Generate renders the background for info and returns the image path.
func (g *Generator) Generate(ctx context.Context, info Info) (string, error) {
	if info.SessionID == "" {
		return "", fmt.Errorf("background: empty session ID")
	}
	if err := os.MkdirAll(g.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create backgrounds dir: %w", err)
	}

	imagePath := g.ImagePath(info.SessionID)
	lines := info.lines()

	if err := g.renderMagick(ctx, imagePath, lines); err != nil {
		g.Log.Debug("imagemagick unavailable, using built-in renderer", "error", err)
		if err := renderImage(imagePath, lines); err != nil {
			return "", err
		}
	}

	sig := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(g.metaPath(info.SessionID), []byte(sig), 0o644); err != nil {
		return "", fmt.Errorf("write background signature: %w", err)
	}
	return imagePath, nil
}

// RefreshIfChanged regenerates the image only when the rendered text
// changed since the last Generate. The second result reports whether a new
// image was written.
func (g *Generator) RefreshIfChanged(ctx context.Context, info Info) (string, bool, error) {
	imagePath := g.ImagePath(info.SessionID)
	want := strings.Join(info.lines(), "\n") + "\n"

	have, err := os.ReadFile(g.metaPath(info.SessionID))
	if err == nil && string(have) == want {
		if _, err := os.Stat(imagePath); err == nil {
			return imagePath, false, nil
		}
	}

	path, err := g.Generate(ctx, info)
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}

// Remove deletes a session's image and signature.
func (g *Generator) Remove(sessionID string) error {
	for _, p := range []string{g.ImagePath(sessionID), g.metaPath(sessionID)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// renderMagick shells out to ImageMagick. Both the v7 "magick" entry point
// and the classic "convert" are tried.
func (g *Generator) renderMagick(ctx context.Context, imagePath string, lines []string) error {
	bin, err := exec.LookPath("magick")
	if err != nil {
		bin, err = exec.LookPath("convert")
		if err != nil {
			return fmt.Errorf("imagemagick not found: %w", err)
		}
	}

	args := []string{
		"-size", fmt.Sprintf("%dx%d", imageWidth, imageHeight),
		"xc:" + canvasColor,
		"-gravity", "center",
		"-fill", "#c8c8dc",
	}
	for i, line := range lines {
		pointsize := "64"
		if i > 0 {
			pointsize = "36"
		}
		offset := fmt.Sprintf("+0%+d", -80+i*90)
		args = append(args, "-pointsize", pointsize, "-annotate", offset, line)
	}
	args = append(args, imagePath)

	cmd := exec.CommandContext(ctx, bin, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("imagemagick: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
