package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/baaaaaaaka/claude-menu/internal/claudehistory"
)

var errQuit = errors.New("quit")

var newScreen = tcell.NewScreen

// Action is what the user asked the menu to do with the selection.
type Action string

const (
	ActionResume        Action = "resume"
	ActionNew           Action = "new"
	ActionFork          Action = "fork"
	ActionRename        Action = "rename"
	ActionRemoveProfile Action = "remove-profile"
)

// Selection is the menu's result. A nil Selection means the user quit.
type Selection struct {
	Action  Action
	Project claudehistory.Project
	Session claudehistory.Session
	// Cwd is set for ActionNew: the directory the new session starts in.
	Cwd string
	// NewTitle is set for ActionRename.
	NewTitle string
}

type Options struct {
	LoadProjects    func(context.Context) ([]claudehistory.Project, error)
	Version         string
	Terminal        string
	PreviewMessages int
	RefreshInterval time.Duration
	DefaultCwd      string
}

type uiEvent struct {
	when time.Time
	kind string
}

func (e *uiEvent) When() time.Time { return e.when }

type previewEvent struct {
	cacheKey string
	text     string
	err      error
}

type rect struct {
	y int
	x int
	h int
	w int
}

type layout struct {
	projects rect
	sessions rect
	preview  rect
	mode     string
}

type listState struct {
	selected int
	scroll   int
}

type previewState struct {
	scroll int
}

type projectItem struct {
	label         string
	project       claudehistory.Project
	isCurrent     bool
	alwaysVisible bool
}

type sessionItem struct {
	label         string
	session       claudehistory.Session
	kind          sessionItemKind
	alwaysVisible bool
}

type sessionItemKind string

const (
	sessionItemNew  sessionItemKind = "new"
	sessionItemMain sessionItemKind = "main"
)

type uiState struct {
	projects      []claudehistory.Project
	loadError     error
	focus         string
	lastListFocus string
	inputMode     string
	inputBuffer   string
	projectFilter string
	sessionFilter string
	projectState  listState
	sessionState  listState
	previewState  previewState

	previewCache   map[string]string
	previewError   map[string]string
	previewLoading map[string]bool
}

// SelectAction runs the interactive menu until the user picks an action or
// quits. A nil Selection with nil error means quit.
func SelectAction(ctx context.Context, opts Options) (*Selection, error) {
	if opts.LoadProjects == nil {
		return nil, errors.New("LoadProjects is required")
	}

	projects, err := opts.LoadProjects(ctx)
	state := &uiState{
		projects:       projects,
		loadError:      err,
		focus:          "projects",
		lastListFocus:  "projects",
		previewCache:   map[string]string{},
		previewError:   map[string]string{},
		previewLoading: map[string]bool{},
	}

	screen, err := newScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	defer screen.Fini()

	done := make(chan struct{})
	defer close(done)

	previewCh := make(chan previewEvent, 8)

	if opts.RefreshInterval > 0 {
		interval := opts.RefreshInterval
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					screen.PostEvent(&uiEvent{when: time.Now(), kind: "refresh"})
				case <-done:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		<-ctx.Done()
		screen.PostEvent(&uiEvent{when: time.Now(), kind: "quit"})
	}()

	for {
		if err := draw(screen, state, opts, previewCh); err != nil {
			return nil, err
		}
		ev := screen.PollEvent()

		switch tev := ev.(type) {
		case *uiEvent:
			switch tev.kind {
			case "quit":
				return nil, ctx.Err()
			case "refresh":
				refreshStatePreserveSelection(ctx, state, opts)
			case "preview":
				drainPreviews(state, previewCh)
			}
			continue
		case *tcell.EventResize:
			screen.Sync()
			continue
		case *tcell.EventKey:
			selection, err := handleKey(ctx, screen, state, opts, tev)
			if err != nil {
				if errors.Is(err, errQuit) {
					return nil, nil
				}
				return nil, err
			}
			if selection != nil {
				return selection, nil
			}
		}
	}
}

func drainPreviews(state *uiState, previewCh <-chan previewEvent) {
	for {
		select {
		case ev := <-previewCh:
			if ev.cacheKey == "" {
				continue
			}
			if ev.err != nil {
				state.previewError[ev.cacheKey] = ev.err.Error()
			} else {
				state.previewCache[ev.cacheKey] = ev.text
				delete(state.previewError, ev.cacheKey)
			}
			state.previewLoading[ev.cacheKey] = false
		default:
			return
		}
	}
}

func handleKey(
	ctx context.Context,
	screen tcell.Screen,
	state *uiState,
	opts Options,
	ev *tcell.EventKey,
) (*Selection, error) {
	if state.inputMode != "" {
		return handleInputKey(state, ev)
	}

	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyESC:
		return nil, errQuit
	case tcell.KeyCtrlR:
		refreshState(ctx, state, opts)
		return nil, nil
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return nil, errQuit
		case 'r', 'R':
			refreshState(ctx, state, opts)
			return nil, nil
		case '/':
			if state.focus == "projects" {
				state.inputMode = "projects"
				state.inputBuffer = state.projectFilter
			} else if state.focus == "sessions" {
				state.inputMode = "sessions"
				state.inputBuffer = state.sessionFilter
			}
			return nil, nil
		case 'h', 'H':
			if state.focus == "preview" {
				state.focus = state.lastListFocus
			} else {
				state.focus = "projects"
				state.lastListFocus = "projects"
			}
			return nil, nil
		case 'l', 'L':
			cycleFocusForward(state)
			return nil, nil
		}
	case tcell.KeyTab:
		cycleFocusForward(state)
		return nil, nil
	case tcell.KeyLeft:
		if state.focus == "preview" {
			state.focus = state.lastListFocus
		} else {
			state.focus = "projects"
			state.lastListFocus = "projects"
		}
		return nil, nil
	case tcell.KeyRight:
		cycleFocusForward(state)
		return nil, nil
	}

	layoutMode := computeLayout(screen)
	listFocus := state.focus
	if layoutMode.mode == "1col" && state.focus == "preview" {
		listFocus = state.lastListFocus
	}

	filteredProjects, filteredSessions := visibleItems(state, opts)
	selectedProject := selectedProject(filteredProjects, state.projectState.selected)
	selectedItem, selectedOk := selectedSessionItem(filteredSessions, state.sessionState.selected)

	var selectedSession *claudehistory.Session
	selectedIsNew := false
	if selectedOk {
		switch selectedItem.kind {
		case sessionItemNew:
			selectedIsNew = true
		case sessionItemMain:
			s := selectedItem.session
			selectedSession = &s
		}
	}

	switch ev.Key() {
	case tcell.KeyCtrlN:
		if cwd := newSessionCwd(selectedProject, opts.DefaultCwd); cwd != "" {
			return &Selection{Action: ActionNew, Project: selectedProject, Cwd: cwd}, nil
		}
		return nil, nil
	case tcell.KeyCtrlF:
		if selectedSession != nil {
			return &Selection{Action: ActionFork, Project: selectedProject, Session: *selectedSession}, nil
		}
		return nil, nil
	case tcell.KeyCtrlE:
		if selectedSession != nil {
			state.inputMode = "rename"
			state.inputBuffer = selectedSession.CustomTitle
		}
		return nil, nil
	case tcell.KeyCtrlX:
		if selectedSession != nil {
			return &Selection{Action: ActionRemoveProfile, Project: selectedProject, Session: *selectedSession}, nil
		}
		return nil, nil
	}

	if isEnterKey(ev) {
		if selectedSession != nil {
			return &Selection{Action: ActionResume, Project: selectedProject, Session: *selectedSession}, nil
		}
		if selectedIsNew {
			if cwd := newSessionCwd(selectedProject, opts.DefaultCwd); cwd != "" {
				return &Selection{Action: ActionNew, Project: selectedProject, Cwd: cwd}, nil
			}
		}
		return nil, nil
	}

	if listFocus == "projects" {
		prev := state.projectState.selected
		applyListNavigation(&state.projectState, len(filteredProjects), layoutMode.projects.h-2, ev)
		if state.projectState.selected != prev {
			state.sessionState = listState{}
			state.previewState = previewState{}
		}
		return nil, nil
	}

	if listFocus == "sessions" {
		prev := state.sessionState.selected
		applyListNavigation(&state.sessionState, len(filteredSessions), layoutMode.sessions.h-2, ev)
		if state.sessionState.selected != prev {
			state.previewState = previewState{}
		}
		return nil, nil
	}

	if state.focus == "preview" {
		previewText := previewTextForSession(state, selectedSession)
		lines := buildPreviewLines(selectedProject, selectedSession, selectedIsNew, state, previewText, opts)
		lines = wrapLines(lines, max(0, layoutMode.preview.w-2))
		applyPreviewNavigation(&state.previewState, len(lines), max(0, layoutMode.preview.h-2), ev)
	}
	return nil, nil
}

func handleInputKey(state *uiState, ev *tcell.EventKey) (*Selection, error) {
	switch ev.Key() {
	case tcell.KeyESC:
		state.inputMode = ""
		state.inputBuffer = ""
		return nil, nil
	case tcell.KeyEnter:
		mode := state.inputMode
		buf := strings.TrimSpace(state.inputBuffer)
		state.inputMode = ""
		state.inputBuffer = ""
		switch mode {
		case "projects":
			state.projectFilter = buf
		case "sessions":
			state.sessionFilter = buf
		case "rename":
			filteredProjects, filteredSessions := visibleItemsNoOpts(state)
			project := selectedProject(filteredProjects, state.projectState.selected)
			item, ok := selectedSessionItem(filteredSessions, state.sessionState.selected)
			if ok && item.kind == sessionItemMain {
				return &Selection{
					Action:   ActionRename,
					Project:  project,
					Session:  item.session,
					NewTitle: buf,
				}, nil
			}
		}
		return nil, nil
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(state.inputBuffer) > 0 {
			state.inputBuffer = state.inputBuffer[:len(state.inputBuffer)-1]
		}
		return nil, nil
	case tcell.KeyRune:
		ch := ev.Rune()
		if ch >= 32 {
			state.inputBuffer += string(ch)
		}
		return nil, nil
	default:
		return nil, nil
	}
}

func cycleFocusForward(state *uiState) {
	switch state.focus {
	case "projects":
		state.focus = "sessions"
		state.lastListFocus = "sessions"
	case "sessions":
		state.focus = "preview"
	default:
		state.focus = "projects"
		state.lastListFocus = "projects"
	}
}

func isEnterKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEnter, tcell.KeyCtrlJ, tcell.KeyCtrlM:
		return true
	case tcell.KeyRune:
		return ev.Rune() == '\n' || ev.Rune() == '\r'
	}
	return false
}

func visibleItems(state *uiState, opts Options) ([]projectItem, []sessionItem) {
	projects := buildProjectItems(state.projects, opts.DefaultCwd)
	filteredProjects := filterProjects(projects, state.projectFilter)
	state.projectState.clamp(len(filteredProjects))
	project := selectedProject(filteredProjects, state.projectState.selected)

	sessions := buildSessionItems(project)
	filteredSessions := filterSessions(sessions, state.sessionFilter)
	state.sessionState.clamp(len(filteredSessions))
	return filteredProjects, filteredSessions
}

// visibleItemsNoOpts rebuilds the lists when no Options are at hand (the
// rename input path).
func visibleItemsNoOpts(state *uiState) ([]projectItem, []sessionItem) {
	return visibleItems(state, Options{})
}

func refreshState(ctx context.Context, state *uiState, opts Options) {
	projects, err := opts.LoadProjects(ctx)
	if err != nil {
		state.loadError = err
		return
	}
	state.loadError = nil
	state.projects = projects
	state.projectState = listState{}
	state.sessionState = listState{}
	state.previewState = previewState{}
}

func refreshStatePreserveSelection(ctx context.Context, state *uiState, opts Options) {
	projects, err := opts.LoadProjects(ctx)
	if err != nil {
		state.loadError = err
		return
	}
	state.loadError = nil
	state.projects = projects
}

func computeLayout(screen tcell.Screen) layout {
	maxX, maxY := screen.Size()
	usableH := max(1, maxY-1)

	if maxX >= 120 && usableH >= 10 {
		leftW := min(40, max(24, maxX/4))
		midW := min(60, max(32, maxX/3))
		rightW := max(20, maxX-leftW-midW)
		return layout{
			projects: rect{y: 0, x: 0, h: usableH, w: leftW},
			sessions: rect{y: 0, x: leftW, h: usableH, w: midW},
			preview:  rect{y: 0, x: leftW + midW, h: usableH, w: rightW},
			mode:     "3col",
		}
	}

	if maxX >= 80 && usableH >= 10 {
		leftW := min(40, max(24, maxX/3))
		rightW := maxX - leftW
		convH := max(6, int(float64(usableH)*0.6))
		prevH := max(3, usableH-convH)
		return layout{
			projects: rect{y: 0, x: 0, h: usableH, w: leftW},
			sessions: rect{y: 0, x: leftW, h: convH, w: rightW},
			preview:  rect{y: convH, x: leftW, h: prevH, w: rightW},
			mode:     "2col",
		}
	}

	listH := max(1, int(float64(usableH)*0.6))
	if usableH > 1 {
		listH = clamp(listH, 1, usableH-1)
	}
	return layout{
		projects: rect{y: 0, x: 0, h: listH, w: maxX},
		sessions: rect{y: 0, x: 0, h: listH, w: maxX},
		preview:  rect{y: listH, x: 0, h: usableH - listH, w: maxX},
		mode:     "1col",
	}
}

func draw(screen tcell.Screen, state *uiState, opts Options, previewCh chan<- previewEvent) error {
	screen.Clear()

	filteredProjects, filteredSessions := visibleItems(state, opts)
	project := selectedProject(filteredProjects, state.projectState.selected)
	selectedItem, selectedOk := selectedSessionItem(filteredSessions, state.sessionState.selected)

	var selectedSession *claudehistory.Session
	selectedIsNew := false
	if selectedOk {
		switch selectedItem.kind {
		case sessionItemNew:
			selectedIsNew = true
		case sessionItemMain:
			s := selectedItem.session
			selectedSession = &s
		}
	}

	projectFilter := state.projectFilter
	sessionFilter := state.sessionFilter
	if state.inputMode == "projects" {
		projectFilter = state.inputBuffer
	}
	if state.inputMode == "sessions" {
		sessionFilter = state.inputBuffer
	}

	if selectedSession != nil {
		ensurePreview(screen, state, opts, selectedSession, previewCh)
	}

	layoutMode := computeLayout(screen)
	state.projectState.ensureVisible(layoutMode.projects.h-2, len(filteredProjects))
	state.sessionState.ensureVisible(layoutMode.sessions.h-2, len(filteredSessions))

	listFocus := state.focus
	if layoutMode.mode == "1col" && state.focus == "preview" {
		listFocus = state.lastListFocus
	}

	if layoutMode.mode == "1col" {
		title := "Projects"
		listFilter := projectFilter
		rows := renderProjectRows(filteredProjects, listFocus == "projects", state.projectState, layoutMode.projects.h-2)
		if listFocus == "sessions" {
			title = "Sessions"
			listFilter = sessionFilter
			rows = renderSessionRows(filteredSessions, true, state.sessionState, layoutMode.projects.h-2)
		}
		drawBox(screen, layoutMode.projects, title, listFocus != "preview", listFilter)
		drawList(screen, layoutMode.projects, rows)
	} else {
		drawBox(screen, layoutMode.projects, "Projects", state.focus == "projects", projectFilter)
		drawList(
			screen,
			layoutMode.projects,
			renderProjectRows(filteredProjects, state.focus == "projects", state.projectState, layoutMode.projects.h-2),
		)

		drawBox(screen, layoutMode.sessions, "Sessions", state.focus == "sessions", sessionFilter)
		drawList(
			screen,
			layoutMode.sessions,
			renderSessionRows(filteredSessions, state.focus == "sessions", state.sessionState, layoutMode.sessions.h-2),
		)
	}

	previewText := previewTextForSession(state, selectedSession)
	drawBox(screen, layoutMode.preview, "Preview", state.focus == "preview", "")
	lines := buildPreviewLines(project, selectedSession, selectedIsNew, state, previewText, opts)
	lines = wrapLines(lines, max(0, layoutMode.preview.w-2))
	viewH := max(0, layoutMode.preview.h-2)
	state.previewState.scroll = clamp(state.previewState.scroll, 0, max(0, len(lines)-viewH))
	drawPreview(screen, layoutMode.preview, lines, state.previewState.scroll)

	drawStatusLine(screen, statusText(state, selectedIsNew), versionLabel(opts.Version, opts.Terminal))
	screen.Show()
	return nil
}

func statusText(state *uiState, selectedIsNew bool) string {
	if state.inputMode == "rename" {
		return "New title: " + state.inputBuffer + "  Enter: apply  Esc: cancel"
	}
	if state.inputMode != "" {
		return "Type to search. Enter: apply  Esc: cancel"
	}
	if state.loadError != nil {
		return fmt.Sprintf("Load error: %v", state.loadError)
	}
	openLabel := "Enter: resume"
	if selectedIsNew {
		openLabel = "Enter: new"
	}
	return "Tab: switch  /: search  " + openLabel +
		"  ^N: new  ^F: fork  ^E: rename  ^X: drop profile  r: refresh  q: quit"
}

func ensurePreview(
	screen tcell.Screen,
	state *uiState,
	opts Options,
	session *claudehistory.Session,
	previewCh chan<- previewEvent,
) {
	cacheKey := strings.TrimSpace(session.SessionID)
	filePath := strings.TrimSpace(session.FilePath)
	if cacheKey == "" || filePath == "" {
		return
	}
	if _, ok := state.previewCache[cacheKey]; ok {
		return
	}
	if state.previewLoading[cacheKey] {
		return
	}
	state.previewLoading[cacheKey] = true

	maxMessages := opts.PreviewMessages
	if maxMessages <= 0 {
		maxMessages = 20
	}

	go func(key string, path string, maxMsgs int) {
		msgs, err := claudehistory.ReadSessionMessages(path, maxMsgs)
		text := ""
		if err == nil {
			text = claudehistory.FormatMessages(msgs, 400)
		}
		previewCh <- previewEvent{cacheKey: key, text: text, err: err}
		screen.PostEvent(&uiEvent{when: time.Now(), kind: "preview"})
	}(cacheKey, filePath, maxMessages)
}

func buildProjectItems(projects []claudehistory.Project, defaultCwd string) []projectItem {
	items := make([]projectItem, 0, len(projects)+1)
	currentPath := strings.TrimSpace(defaultCwd)
	currentIdx := -1

	for _, project := range projects {
		label := project.Path
		if label == "" {
			label = project.Key
		}
		if label == "" {
			label = "Unknown project"
		}
		if len(project.Sessions) > 0 {
			label = fmt.Sprintf("%s  (%d)", label, len(project.Sessions))
		}
		isCurrent := currentPath != "" && project.Path == currentPath
		if isCurrent {
			label = "[current] " + label
		}
		items = append(items, projectItem{
			label:         label,
			project:       project,
			isCurrent:     isCurrent,
			alwaysVisible: isCurrent,
		})
		if isCurrent {
			currentIdx = len(items) - 1
		}
	}

	if currentPath != "" {
		if currentIdx == -1 {
			project := claudehistory.Project{Path: currentPath}
			items = append([]projectItem{{
				label:         "[current] " + currentPath,
				project:       project,
				isCurrent:     true,
				alwaysVisible: true,
			}}, items...)
		} else if currentIdx != 0 {
			cur := items[currentIdx]
			items = append([]projectItem{cur}, append(items[:currentIdx], items[currentIdx+1:]...)...)
		}
	}

	return items
}

func buildSessionItems(project claudehistory.Project) []sessionItem {
	items := []sessionItem{{
		label:         "(New Session)",
		kind:          sessionItemNew,
		alwaysVisible: true,
	}}
	now := time.Now()
	for _, session := range project.Sessions {
		title := session.DisplayTitle()
		ts := claudehistory.FormatRelativeTime(session.ModifiedAt, now)
		if ts == "" {
			ts = "unknown"
		}
		suffix := ""
		if session.GitBranch != "" {
			suffix = "  " + session.GitBranch
		}
		if session.Unindexed {
			suffix += "  *"
		}
		label := fmt.Sprintf("%s  (%s)%s", title, ts, suffix)
		items = append(items, sessionItem{
			label:   label,
			session: session,
			kind:    sessionItemMain,
		})
	}
	return items
}

func selectedProject(items []projectItem, idx int) claudehistory.Project {
	if idx < 0 || idx >= len(items) {
		return claudehistory.Project{}
	}
	return items[idx].project
}

func selectedSessionItem(items []sessionItem, idx int) (sessionItem, bool) {
	if idx < 0 || idx >= len(items) {
		return sessionItem{}, false
	}
	return items[idx], true
}

func newSessionCwd(project claudehistory.Project, defaultCwd string) string {
	if strings.TrimSpace(project.Path) != "" {
		return strings.TrimSpace(project.Path)
	}
	return strings.TrimSpace(defaultCwd)
}

func buildPreviewLines(
	project claudehistory.Project,
	session *claudehistory.Session,
	selectedIsNew bool,
	state *uiState,
	previewText string,
	opts Options,
) []string {
	if state.loadError != nil {
		return []string{fmt.Sprintf("Load error: %v", state.loadError)}
	}
	if project.Path == "" && len(state.projects) == 0 {
		return []string{"No Claude sessions found.", "Run claude to create a session first."}
	}

	lines := []string{}
	if project.Path != "" {
		lines = append(lines, "Project:")
		lines = append(lines, "  "+project.Path)
	}
	if selectedIsNew {
		cwd := newSessionCwd(project, opts.DefaultCwd)
		lines = append(lines, "")
		if cwd != "" {
			lines = append(lines, "Start a new Claude session in:")
			lines = append(lines, "  "+cwd)
		} else {
			lines = append(lines, "Start a new Claude session in the current directory.")
		}
		return lines
	}
	if session == nil {
		lines = append(lines, "")
		lines = append(lines, "Select a session to preview.")
		return lines
	}

	lines = append(lines, "")
	lines = append(lines, "Session:")
	lines = append(lines, "  ID: "+session.SessionID)
	if session.CustomTitle != "" {
		lines = append(lines, "  Title: "+session.CustomTitle)
	}
	if session.FirstPrompt != "" {
		lines = append(lines, "  First prompt: "+session.FirstPrompt)
	}
	if session.MessageCount > 0 {
		lines = append(lines, fmt.Sprintf("  Messages: %d", session.MessageCount))
	}
	if session.GitBranch != "" {
		lines = append(lines, "  Branch: "+session.GitBranch)
	}
	if session.Model != "" {
		lines = append(lines, "  Model: "+session.Model)
	}
	if session.Unindexed {
		lines = append(lines, "  (recovered from raw log)")
	}
	if !session.CreatedAt.IsZero() {
		lines = append(lines, "  Created: "+session.CreatedAt.Format(time.RFC3339))
	}
	if !session.ModifiedAt.IsZero() {
		lines = append(lines, "  Modified: "+session.ModifiedAt.Format(time.RFC3339))
	}

	if previewText != "" {
		lines = append(lines, "")
		lines = append(lines, "Preview:")
		lines = append(lines, previewText)
	}
	return lines
}

func previewTextForSession(state *uiState, session *claudehistory.Session) string {
	if session == nil {
		return ""
	}
	cacheKey := strings.TrimSpace(session.SessionID)
	if cacheKey == "" {
		return ""
	}
	if errMsg, ok := state.previewError[cacheKey]; ok && errMsg != "" {
		return "Preview failed: " + errMsg
	}
	if text, ok := state.previewCache[cacheKey]; ok && text != "" {
		return text
	}
	if state.previewLoading[cacheKey] {
		return "Loading preview..."
	}
	return ""
}

func renderProjectRows(items []projectItem, focused bool, state listState, viewH int) []row {
	rows := make([]row, 0, min(len(items), viewH))
	start := clamp(state.scroll, 0, max(0, len(items)))
	end := min(len(items), start+max(0, viewH))
	for i := start; i < end; i++ {
		rows = append(rows, row{label: items[i].label, bold: items[i].isCurrent})
	}
	return applySelection(rows, focused, listState{selected: state.selected - start})
}

func renderSessionRows(items []sessionItem, focused bool, state listState, viewH int) []row {
	rows := make([]row, 0, min(len(items), viewH))
	start := clamp(state.scroll, 0, max(0, len(items)))
	end := min(len(items), start+max(0, viewH))
	for i := start; i < end; i++ {
		rows = append(rows, row{label: items[i].label, dim: items[i].session.Unindexed})
	}
	return applySelection(rows, focused, listState{selected: state.selected - start})
}

type row struct {
	label    string
	dim      bool
	bold     bool
	selected bool
	focused  bool
}

func applySelection(rows []row, focused bool, state listState) []row {
	if len(rows) == 0 {
		return rows
	}
	state.clamp(len(rows))
	rows[state.selected].selected = true
	rows[state.selected].focused = focused
	rows[state.selected].dim = false
	return rows
}

func filterProjects(items []projectItem, needle string) []projectItem {
	if strings.TrimSpace(needle) == "" {
		return items
	}
	n := strings.ToLower(needle)
	out := make([]projectItem, 0, len(items))
	for _, it := range items {
		if it.alwaysVisible || strings.Contains(strings.ToLower(it.label), n) {
			out = append(out, it)
		}
	}
	return out
}

func filterSessions(items []sessionItem, needle string) []sessionItem {
	if strings.TrimSpace(needle) == "" {
		return items
	}
	n := strings.ToLower(needle)
	out := make([]sessionItem, 0, len(items))
	for _, it := range items {
		if it.alwaysVisible || strings.Contains(strings.ToLower(it.label), n) {
			out = append(out, it)
		}
	}
	return out
}

func applyListNavigation(state *listState, nItems int, viewH int, ev *tcell.EventKey) {
	if nItems <= 0 {
		state.selected = 0
		state.scroll = 0
		return
	}
	switch ev.Key() {
	case tcell.KeyUp:
		state.selected = clamp(state.selected-1, 0, nItems-1)
	case tcell.KeyDown:
		state.selected = clamp(state.selected+1, 0, nItems-1)
	case tcell.KeyPgUp:
		state.selected = clamp(state.selected-max(1, viewH), 0, nItems-1)
	case tcell.KeyPgDn:
		state.selected = clamp(state.selected+max(1, viewH), 0, nItems-1)
	case tcell.KeyHome:
		state.selected = 0
	case tcell.KeyEnd:
		state.selected = nItems - 1
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k', 'K':
			state.selected = clamp(state.selected-1, 0, nItems-1)
		case 'j', 'J':
			state.selected = clamp(state.selected+1, 0, nItems-1)
		case 'g':
			state.selected = 0
		case 'G':
			state.selected = nItems - 1
		default:
			return
		}
	default:
		return
	}
	state.ensureVisible(viewH, nItems)
}

func applyPreviewNavigation(state *previewState, nLines int, viewH int, ev *tcell.EventKey) {
	if nLines <= 0 || viewH <= 0 {
		state.scroll = 0
		return
	}
	maxScroll := max(0, nLines-viewH)
	switch ev.Key() {
	case tcell.KeyUp:
		state.scroll = clamp(state.scroll-1, 0, maxScroll)
	case tcell.KeyDown:
		state.scroll = clamp(state.scroll+1, 0, maxScroll)
	case tcell.KeyPgUp:
		state.scroll = clamp(state.scroll-max(1, viewH), 0, maxScroll)
	case tcell.KeyPgDn:
		state.scroll = clamp(state.scroll+max(1, viewH), 0, maxScroll)
	case tcell.KeyHome:
		state.scroll = 0
	case tcell.KeyEnd:
		state.scroll = maxScroll
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k', 'K':
			state.scroll = clamp(state.scroll-1, 0, maxScroll)
		case 'j', 'J':
			state.scroll = clamp(state.scroll+1, 0, maxScroll)
		case 'g':
			state.scroll = 0
		case 'G':
			state.scroll = maxScroll
		}
	}
}

func (s *listState) clamp(nItems int) {
	if nItems <= 0 {
		s.selected = 0
		s.scroll = 0
		return
	}
	s.selected = clamp(s.selected, 0, nItems-1)
	s.scroll = clamp(s.scroll, 0, max(0, nItems-1))
}

func (s *listState) ensureVisible(viewH int, nItems int) {
	if nItems <= 0 || viewH <= 0 {
		s.scroll = 0
		return
	}
	maxScroll := max(0, nItems-viewH)
	if s.selected < s.scroll {
		s.scroll = s.selected
	} else if s.selected >= s.scroll+viewH {
		s.scroll = s.selected - viewH + 1
	}
	s.scroll = clamp(s.scroll, 0, maxScroll)
}

func drawBox(screen tcell.Screen, r rect, title string, focused bool, filter string) {
	if r.w <= 0 || r.h <= 0 {
		return
	}
	borderStyle := tcell.StyleDefault
	if focused {
		borderStyle = borderStyle.Bold(true)
	} else {
		borderStyle = borderStyle.Dim(true)
	}
	for x := r.x + 1; x < r.x+r.w-1; x++ {
		screen.SetContent(x, r.y, tcell.RuneHLine, nil, borderStyle)
		screen.SetContent(x, r.y+r.h-1, tcell.RuneHLine, nil, borderStyle)
	}
	for y := r.y + 1; y < r.y+r.h-1; y++ {
		screen.SetContent(r.x, y, tcell.RuneVLine, nil, borderStyle)
		screen.SetContent(r.x+r.w-1, y, tcell.RuneVLine, nil, borderStyle)
	}
	screen.SetContent(r.x, r.y, tcell.RuneULCorner, nil, borderStyle)
	screen.SetContent(r.x+r.w-1, r.y, tcell.RuneURCorner, nil, borderStyle)
	screen.SetContent(r.x, r.y+r.h-1, tcell.RuneLLCorner, nil, borderStyle)
	screen.SetContent(r.x+r.w-1, r.y+r.h-1, tcell.RuneLRCorner, nil, borderStyle)

	titleStyle := tcell.StyleDefault.Reverse(true)
	if focused {
		titleStyle = titleStyle.Bold(true)
		title = "> " + title + " <"
	} else {
		title = " " + title + " "
	}
	maxTitleWidth := max(0, r.w-2)
	title = truncate(title, maxTitleWidth)
	titleX := r.x + 1
	if maxTitleWidth > 0 {
		titleX = r.x + 1 + max(0, (maxTitleWidth-displayWidth(title))/2)
	}
	writeText(screen, titleX, r.y, title, titleStyle)

	if filter != "" && r.h >= 2 {
		hint := "/" + filter
		writeText(screen, r.x+1, r.y+r.h-1, truncate(hint, r.w-2), borderStyle.Dim(true))
	}
}

func drawList(screen tcell.Screen, r rect, rows []row) {
	if r.h < 3 || r.w < 4 {
		return
	}
	innerH := r.h - 2
	innerW := r.w - 2
	for i := 0; i < innerH; i++ {
		y := r.y + 1 + i
		if i >= len(rows) {
			writeText(screen, r.x+1, y, padRight("", innerW), tcell.StyleDefault)
			continue
		}
		row := rows[i]
		style := tcell.StyleDefault
		if row.bold {
			style = style.Bold(true)
		}
		if row.selected {
			style = style.Reverse(true)
			if row.focused {
				style = style.Bold(true)
			} else {
				style = style.Dim(true)
			}
		} else if row.dim {
			style = style.Dim(true)
		}
		writeText(screen, r.x+1, y, padRight(truncate(row.label, innerW), innerW), style)
	}
}

func drawPreview(screen tcell.Screen, r rect, lines []string, scroll int) {
	if r.h < 3 || r.w < 4 {
		return
	}
	innerH := r.h - 2
	innerW := r.w - 2
	scroll = clamp(scroll, 0, max(0, len(lines)-innerH))
	for i := 0; i < innerH; i++ {
		y := r.y + 1 + i
		idx := scroll + i
		if idx >= len(lines) {
			writeText(screen, r.x+1, y, padRight("", innerW), tcell.StyleDefault)
			continue
		}
		writeText(screen, r.x+1, y, padRight(truncate(lines[idx], innerW), innerW), tcell.StyleDefault)
	}
}

func drawStatusLine(screen tcell.Screen, left string, right string) {
	w, h := screen.Size()
	if h <= 0 {
		return
	}
	y := h - 1
	style := tcell.StyleDefault.Reverse(true)
	writeText(screen, 0, y, padRight("", w), style)

	rightText := truncate(right, w)
	leftLimit := max(0, w-displayWidth(rightText)-1)
	writeText(screen, 0, y, truncate(left, leftLimit), style)
	if rightText != "" {
		writeText(screen, max(0, w-displayWidth(rightText)), y, rightText, style)
	}
}

func writeText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	offset := 0
	for _, ch := range text {
		width := runewidth.RuneWidth(ch)
		if width == 0 {
			continue
		}
		screen.SetContent(x+offset, y, ch, nil, style)
		offset += width
	}
}

func wrapLines(lines []string, width int) []string {
	if width <= 0 {
		return nil
	}
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		out = append(out, wrapText(ln, width)...)
	}
	return out
}

func wrapText(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	if s == "" {
		return []string{""}
	}
	out := []string{}
	for _, ln := range strings.Split(s, "\n") {
		if ln == "" {
			out = append(out, "")
			continue
		}
		var buf strings.Builder
		curWidth := 0
		for _, ch := range ln {
			chWidth := runewidth.RuneWidth(ch)
			if chWidth == 0 {
				buf.WriteRune(ch)
				continue
			}
			if curWidth+chWidth > width {
				if curWidth == 0 {
					buf.WriteRune(ch)
					out = append(out, buf.String())
					buf.Reset()
					continue
				}
				out = append(out, buf.String())
				buf.Reset()
				curWidth = 0
			}
			buf.WriteRune(ch)
			curWidth += chWidth
		}
		out = append(out, buf.String())
	}
	return out
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if displayWidth(s) <= width {
		return s
	}
	var buf strings.Builder
	curWidth := 0
	for _, ch := range s {
		chWidth := runewidth.RuneWidth(ch)
		if chWidth == 0 {
			buf.WriteRune(ch)
			continue
		}
		if curWidth+chWidth > width {
			break
		}
		buf.WriteRune(ch)
		curWidth += chWidth
	}
	return buf.String()
}

func padRight(s string, width int) string {
	if displayWidth(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-displayWidth(s))
}

func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

func versionLabel(v, terminal string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		v = "dev"
	}
	if !strings.EqualFold(v, "dev") && !strings.HasPrefix(strings.ToLower(v), "v") {
		v = "v" + v
	}
	if terminal != "" {
		return terminal + "  " + v
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
