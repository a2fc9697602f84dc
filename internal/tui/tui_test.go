package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/baaaaaaaka/claude-menu/internal/claudehistory"
)

func newTestScreen(t *testing.T, w, h int) tcell.Screen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(func() { screen.Fini() })
	return screen
}

type sizedScreen struct {
	tcell.Screen
}

func (s *sizedScreen) Init() error {
	if err := s.Screen.Init(); err != nil {
		return err
	}
	s.Screen.SetSize(80, 24)
	return nil
}

func newTestState(projects []claudehistory.Project) *uiState {
	return &uiState{
		projects:       projects,
		focus:          "projects",
		lastListFocus:  "projects",
		previewCache:   map[string]string{},
		previewError:   map[string]string{},
		previewLoading: map[string]bool{},
	}
}

func TestHandleKeyQuit(t *testing.T) {
	screen := newTestScreen(t, 120, 40)
	state := newTestState([]claudehistory.Project{{Key: "one", Path: "/tmp"}})

	_, err := handleKey(context.Background(), screen, state, Options{}, tcell.NewEventKey(tcell.KeyRune, 'q', 0))
	if !errors.Is(err, errQuit) {
		t.Fatalf("expected quit error, got %v", err)
	}
}

func TestHandleKeyJKNavigation(t *testing.T) {
	screen := newTestScreen(t, 120, 40)
	state := newTestState([]claudehistory.Project{
		{Key: "one", Path: "/tmp/one"},
		{Key: "two", Path: "/tmp/two"},
	})

	_, err := handleKey(context.Background(), screen, state, Options{}, tcell.NewEventKey(tcell.KeyRune, 'j', 0))
	if err != nil {
		t.Fatalf("handleKey error: %v", err)
	}
	if state.projectState.selected != 1 {
		t.Fatalf("expected selection=1, got %d", state.projectState.selected)
	}

	_, err = handleKey(context.Background(), screen, state, Options{}, tcell.NewEventKey(tcell.KeyRune, 'k', 0))
	if err != nil {
		t.Fatalf("handleKey error: %v", err)
	}
	if state.projectState.selected != 0 {
		t.Fatalf("expected selection=0, got %d", state.projectState.selected)
	}
}

func TestHandleKeyEnterResumesSession(t *testing.T) {
	screen := newTestScreen(t, 120, 40)
	now := time.Now()
	project := claudehistory.Project{
		Key:  "one",
		Path: "/tmp/one",
		Sessions: []claudehistory.Session{
			{SessionID: "sess-1", CustomTitle: "hello", ModifiedAt: now},
		},
	}
	state := newTestState([]claudehistory.Project{project})
	state.focus = "sessions"
	state.lastListFocus = "sessions"
	state.sessionState.selected = 1

	selection, err := handleKey(context.Background(), screen, state, Options{}, tcell.NewEventKey(tcell.KeyEnter, 0, 0))
	if err != nil {
		t.Fatalf("handleKey error: %v", err)
	}
	if selection == nil || selection.Session.SessionID != "sess-1" {
		t.Fatalf("expected session sess-1, got %#v", selection)
	}
	if selection.Action != ActionResume {
		t.Fatalf("expected resume action, got %q", selection.Action)
	}
}

func TestHandleKeyEnterOnNewItem(t *testing.T) {
	screen := newTestScreen(t, 120, 40)
	project := claudehistory.Project{Key: "one", Path: "/tmp/one"}
	state := newTestState([]claudehistory.Project{project})
	state.focus = "sessions"
	state.lastListFocus = "sessions"
	state.sessionState.selected = 0

	selection, err := handleKey(context.Background(), screen, state, Options{}, tcell.NewEventKey(tcell.KeyEnter, 0, 0))
	if err != nil {
		t.Fatalf("handleKey error: %v", err)
	}
	if selection == nil || selection.Action != ActionNew || selection.Cwd != "/tmp/one" {
		t.Fatalf("got %#v", selection)
	}
}

func TestHandleKeyCtrlN(t *testing.T) {
	screen := newTestScreen(t, 120, 40)
	project := claudehistory.Project{Key: "one", Path: "/tmp/one"}
	state := newTestState([]claudehistory.Project{project})

	selection, err := handleKey(context.Background(), screen, state, Options{}, tcell.NewEventKey(tcell.KeyCtrlN, 0, 0))
	if err != nil {
		t.Fatalf("handleKey error: %v", err)
	}
	if selection == nil || selection.Action != ActionNew || selection.Cwd != "/tmp/one" {
		t.Fatalf("got %#v", selection)
	}
}

func TestHandleKeyCtrlFForksSelected(t *testing.T) {
	screen := newTestScreen(t, 120, 40)
	project := claudehistory.Project{
		Key:  "one",
		Path: "/tmp/one",
		Sessions: []claudehistory.Session{
			{SessionID: "sess-f", CustomTitle: "fork me"},
		},
	}
	state := newTestState([]claudehistory.Project{project})
	state.focus = "sessions"
	state.lastListFocus = "sessions"
	state.sessionState.selected = 1

	selection, err := handleKey(context.Background(), screen, state, Options{}, tcell.NewEventKey(tcell.KeyCtrlF, 0, 0))
	if err != nil {
		t.Fatalf("handleKey error: %v", err)
	}
	if selection == nil || selection.Action != ActionFork || selection.Session.SessionID != "sess-f" {
		t.Fatalf("got %#v", selection)
	}
}

func TestHandleKeyCtrlXRemovesProfile(t *testing.T) {
	screen := newTestScreen(t, 120, 40)
	project := claudehistory.Project{
		Key:  "one",
		Path: "/tmp/one",
		Sessions: []claudehistory.Session{
			{SessionID: "sess-x", CustomTitle: "drop"},
		},
	}
	state := newTestState([]claudehistory.Project{project})
	state.focus = "sessions"
	state.lastListFocus = "sessions"
	state.sessionState.selected = 1

	selection, err := handleKey(context.Background(), screen, state, Options{}, tcell.NewEventKey(tcell.KeyCtrlX, 0, 0))
	if err != nil {
		t.Fatalf("handleKey error: %v", err)
	}
	if selection == nil || selection.Action != ActionRemoveProfile || selection.Session.SessionID != "sess-x" {
		t.Fatalf("got %#v", selection)
	}
}

func TestHandleKeyRenameFlow(t *testing.T) {
	screen := newTestScreen(t, 120, 40)
	project := claudehistory.Project{
		Key:  "one",
		Path: "/tmp/one",
		Sessions: []claudehistory.Session{
			{SessionID: "sess-r", CustomTitle: "old"},
		},
	}
	state := newTestState([]claudehistory.Project{project})
	state.focus = "sessions"
	state.lastListFocus = "sessions"
	state.sessionState.selected = 1

	if _, err := handleKey(context.Background(), screen, state, Options{}, tcell.NewEventKey(tcell.KeyCtrlE, 0, 0)); err != nil {
		t.Fatalf("handleKey error: %v", err)
	}
	if state.inputMode != "rename" || state.inputBuffer != "old" {
		t.Fatalf("state = %q %q", state.inputMode, state.inputBuffer)
	}

	// Clear the seeded title and type a new one.
	for range "old" {
		if _, err := handleKey(context.Background(), screen, state, Options{}, tcell.NewEventKey(tcell.KeyBackspace2, 0, 0)); err != nil {
			t.Fatalf("handleKey error: %v", err)
		}
	}
	for _, ch := range "new title" {
		if _, err := handleKey(context.Background(), screen, state, Options{}, tcell.NewEventKey(tcell.KeyRune, ch, 0)); err != nil {
			t.Fatalf("handleKey error: %v", err)
		}
	}

	selection, err := handleKey(context.Background(), screen, state, Options{}, tcell.NewEventKey(tcell.KeyEnter, 0, 0))
	if err != nil {
		t.Fatalf("handleKey error: %v", err)
	}
	if selection == nil || selection.Action != ActionRename {
		t.Fatalf("got %#v", selection)
	}
	if selection.NewTitle != "new title" || selection.Session.SessionID != "sess-r" {
		t.Fatalf("got %#v", selection)
	}
	if state.inputMode != "" {
		t.Fatalf("input mode not cleared: %q", state.inputMode)
	}
}

func TestHandleKeyRenameEscCancels(t *testing.T) {
	screen := newTestScreen(t, 120, 40)
	project := claudehistory.Project{
		Key:  "one",
		Path: "/tmp/one",
		Sessions: []claudehistory.Session{
			{SessionID: "sess-r", CustomTitle: "old"},
		},
	}
	state := newTestState([]claudehistory.Project{project})
	state.focus = "sessions"
	state.lastListFocus = "sessions"
	state.sessionState.selected = 1

	if _, err := handleKey(context.Background(), screen, state, Options{}, tcell.NewEventKey(tcell.KeyCtrlE, 0, 0)); err != nil {
		t.Fatalf("handleKey error: %v", err)
	}
	selection, err := handleKey(context.Background(), screen, state, Options{}, tcell.NewEventKey(tcell.KeyESC, 0, 0))
	if err != nil {
		t.Fatalf("handleKey error: %v", err)
	}
	if selection != nil {
		t.Fatalf("esc must not select, got %#v", selection)
	}
	if state.inputMode != "" {
		t.Fatalf("input mode not cleared: %q", state.inputMode)
	}
}

func TestHandleKeySessionFilter(t *testing.T) {
	screen := newTestScreen(t, 120, 40)
	project := claudehistory.Project{
		Key:  "one",
		Path: "/tmp/one",
		Sessions: []claudehistory.Session{
			{SessionID: "a", CustomTitle: "alpha work"},
			{SessionID: "b", CustomTitle: "beta work"},
		},
	}
	state := newTestState([]claudehistory.Project{project})
	state.focus = "sessions"
	state.lastListFocus = "sessions"

	if _, err := handleKey(context.Background(), screen, state, Options{}, tcell.NewEventKey(tcell.KeyRune, '/', 0)); err != nil {
		t.Fatalf("handleKey error: %v", err)
	}
	for _, ch := range "beta" {
		if _, err := handleKey(context.Background(), screen, state, Options{}, tcell.NewEventKey(tcell.KeyRune, ch, 0)); err != nil {
			t.Fatalf("handleKey error: %v", err)
		}
	}
	if _, err := handleKey(context.Background(), screen, state, Options{}, tcell.NewEventKey(tcell.KeyEnter, 0, 0)); err != nil {
		t.Fatalf("handleKey error: %v", err)
	}
	if state.sessionFilter != "beta" {
		t.Fatalf("filter = %q", state.sessionFilter)
	}

	items := filterSessions(buildSessionItems(project), state.sessionFilter)
	// The (New Session) row stays visible regardless of filter.
	if len(items) != 2 || items[1].session.SessionID != "b" {
		t.Fatalf("items = %#v", items)
	}
}

func TestNewSessionCwdPrefersProjectPath(t *testing.T) {
	project := claudehistory.Project{Path: "/tmp/project"}
	if got := newSessionCwd(project, "/tmp/default"); got != "/tmp/project" {
		t.Fatalf("expected project path, got %q", got)
	}
}

func TestNewSessionCwdUsesDefaultWhenNoProjectPath(t *testing.T) {
	project := claudehistory.Project{}
	if got := newSessionCwd(project, "/tmp/default"); got != "/tmp/default" {
		t.Fatalf("expected default cwd, got %q", got)
	}
}

func TestBuildSessionItemsLabels(t *testing.T) {
	now := time.Now()
	project := claudehistory.Project{
		Path: "/tmp/p",
		Sessions: []claudehistory.Session{
			{SessionID: "s1", CustomTitle: "titled", ModifiedAt: now.Add(-2 * time.Hour), GitBranch: "main"},
			{SessionID: "s2", FirstPrompt: "raw prompt", Unindexed: true, ModifiedAt: now},
		},
	}
	items := buildSessionItems(project)
	if len(items) != 3 {
		t.Fatalf("len = %d", len(items))
	}
	if items[0].kind != sessionItemNew {
		t.Fatalf("first item kind = %q", items[0].kind)
	}
	if got := items[1].label; !strings.Contains(got, "titled") || !strings.Contains(got, "main") {
		t.Fatalf("label = %q", got)
	}
	if got := items[2].label; !strings.Contains(got, "raw prompt") || !strings.Contains(got, "*") {
		t.Fatalf("label = %q", got)
	}
}

func TestBuildProjectItemsCurrentFirst(t *testing.T) {
	projects := []claudehistory.Project{
		{Key: "/a", Path: "/a"},
		{Key: "/b", Path: "/b"},
	}
	items := buildProjectItems(projects, "/b")
	if len(items) != 2 {
		t.Fatalf("len = %d", len(items))
	}
	if !items[0].isCurrent || items[0].project.Path != "/b" {
		t.Fatalf("items[0] = %#v", items[0])
	}
}

func TestBuildProjectItemsSynthesizesCurrent(t *testing.T) {
	items := buildProjectItems(nil, "/somewhere")
	if len(items) != 1 || !items[0].isCurrent || items[0].project.Path != "/somewhere" {
		t.Fatalf("items = %#v", items)
	}
}

func TestSelectActionQuit(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")

	orig := newScreen
	newScreen = func() (tcell.Screen, error) {
		return &sizedScreen{Screen: sim}, nil
	}
	t.Cleanup(func() { newScreen = orig })

	type result struct {
		selection *Selection
		err       error
	}
	done := make(chan result, 1)

	opts := Options{
		LoadProjects: func(context.Context) ([]claudehistory.Project, error) {
			return []claudehistory.Project{{Key: "p", Path: "/tmp/p"}}, nil
		},
	}

	go func() {
		selection, err := SelectAction(context.Background(), opts)
		done <- result{selection: selection, err: err}
	}()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case res := <-done:
			if res.err != nil {
				t.Fatalf("SelectAction error: %v", res.err)
			}
			if res.selection != nil {
				t.Fatalf("expected nil selection on quit, got %#v", res.selection)
			}
			return
		case <-deadline:
			t.Fatal("SelectAction did not return")
		default:
			// The screen only accepts keys after SelectAction inits it,
			// so keep injecting until the loop picks up the quit.
			sim.InjectKey(tcell.KeyRune, 'q', 0)
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func TestSelectActionRequiresLoader(t *testing.T) {
	if _, err := SelectAction(context.Background(), Options{}); err == nil {
		t.Fatal("expected error without LoadProjects")
	}
}

func TestListStateEnsureVisible(t *testing.T) {
	s := listState{selected: 9}
	s.ensureVisible(5, 10)
	if s.scroll != 5 {
		t.Fatalf("scroll = %d", s.scroll)
	}
	s.selected = 0
	s.ensureVisible(5, 10)
	if s.scroll != 0 {
		t.Fatalf("scroll = %d", s.scroll)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("abcdef", 3)
	if len(lines) != 2 || lines[0] != "abc" || lines[1] != "def" {
		t.Fatalf("lines = %#v", lines)
	}
	if got := wrapText("", 3); len(got) != 1 || got[0] != "" {
		t.Fatalf("got = %#v", got)
	}
}

func TestTruncateAndPad(t *testing.T) {
	if got := truncate("hello", 3); got != "hel" {
		t.Fatalf("truncate = %q", got)
	}
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q", got)
	}
}
