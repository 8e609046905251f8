// internal/tui/app.go
//
// Terminal browser for the content tree, built on bubbletea's Elm
// architecture: the App model holds all state, Update folds messages into
// the next model, View renders it to a string.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/hollowpine/inkwell/internal/logbook"
	"github.com/hollowpine/inkwell/internal/post"
	"github.com/hollowpine/inkwell/internal/render"
	"github.com/hollowpine/inkwell/internal/store"
)

// appState represents which screen we're on.
type appState int

const (
	stateList   appState = iota // post listing with search
	stateDetail                 // one post with metadata and related links
)

const defaultRelatedCount = 3

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF")).
			MarginBottom(1)
	draftBadgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))
	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1)
)

// rescanMsg carries the outcome of a content rescan.
type rescanMsg struct {
	count int
	err   error
}

// postItem implements list.Item for one post.
type postItem struct {
	post *post.Post
}

func (i postItem) Title() string {
	if i.post.Meta.Draft {
		return i.post.Meta.Title + " " + draftBadgeStyle.Render("[draft]")
	}
	return i.post.Meta.Title
}

func (i postItem) Description() string {
	return fmt.Sprintf("%s · %s", i.post.Meta.Date.Format("2006-01-02"), strings.Join(i.post.Meta.Authors, ", "))
}

func (i postItem) FilterValue() string { return i.post.Meta.Title }

// titleSource adapts a post slice to the fuzzy matcher.
type titleSource []*post.Post

func (s titleSource) Len() int            { return len(s) }
func (s titleSource) String(i int) string { return s[i].Meta.Title }

// App is the browser model. It holds ALL state for the session.
type App struct {
	store   *store.Store
	logbook *logbook.Logbook

	state        appState
	postList     list.Model
	showDrafts   bool
	relatedCount int

	searching bool
	query     string

	current *post.Post
	related []*post.Post

	statusMsg string
	width     int
	height    int
}

// AppOption customizes App construction.
type AppOption func(*App)

// WithDrafts starts the browser with drafts visible.
func WithDrafts(show bool) AppOption {
	return func(a *App) { a.showDrafts = show }
}

// WithRelatedCount caps the related links on the detail screen.
func WithRelatedCount(n int) AppOption {
	return func(a *App) {
		if n > 0 {
			a.relatedCount = n
		}
	}
}

// NewApp builds the browser over an already-opened store. The logbook may
// be nil; browsing then simply goes unrecorded.
func NewApp(st *store.Store, lb *logbook.Logbook, opts ...AppOption) *App {
	postList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	postList.Title = "◆ INKWELL"
	postList.SetShowStatusBar(false)
	postList.SetFilteringEnabled(false)

	app := &App{
		store:        st,
		logbook:      lb,
		state:        stateList,
		postList:     postList,
		relatedCount: defaultRelatedCount,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.refreshItems()
	app.logInfo("Session opened · %d post(s) loaded", st.Len())
	return app
}

// visiblePosts applies the draft toggle and the fuzzy query.
func (a *App) visiblePosts() []*post.Post {
	posts := a.store.Published()
	if a.showDrafts {
		posts = a.store.List()
	}
	query := strings.TrimSpace(a.query)
	if query == "" {
		return posts
	}
	matches := fuzzy.FindFrom(query, titleSource(posts))
	out := make([]*post.Post, 0, len(matches))
	for _, m := range matches {
		out = append(out, posts[m.Index])
	}
	return out
}

func (a *App) refreshItems() {
	posts := a.visiblePosts()
	items := make([]list.Item, len(posts))
	for i, p := range posts {
		items[i] = postItem{post: p}
	}
	a.postList.SetItems(items)
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update folds one message into the next model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.postList.SetSize(max(0, msg.Width-4), max(0, msg.Height-12))
		return a, nil

	case rescanMsg:
		if msg.err != nil {
			a.statusMsg = fmt.Sprintf("Rescan failed, kept previous snapshot: %v", msg.err)
			a.logWarn("Rescan failed: %v", msg.err)
			return a, nil
		}
		a.refreshItems()
		a.statusMsg = fmt.Sprintf("Rescanned · %d post(s)", msg.count)
		a.logInfo("Rescanned content tree · %d post(s)", msg.count)
		return a, nil

	case tea.KeyMsg:
		if a.searching {
			return a.updateSearch(msg)
		}
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.state == stateList {
				a.logInfo("Session closed")
				return a, tea.Quit
			}
			return a.returnToList()
		case "esc":
			if a.state == stateDetail {
				return a.returnToList()
			}
			if a.query != "" {
				a.query = ""
				a.refreshItems()
				a.statusMsg = ""
			}
			return a, nil
		case "/":
			if a.state == stateList {
				a.searching = true
				a.statusMsg = "Search: " + a.query
			}
			return a, nil
		case "d":
			a.showDrafts = !a.showDrafts
			a.refreshItems()
			if a.showDrafts {
				a.statusMsg = "Drafts shown"
			} else {
				a.statusMsg = "Drafts hidden"
			}
			return a, nil
		case "r":
			a.statusMsg = "Rescanning..."
			return a, a.rescan()
		case "enter":
			if a.state == stateList {
				return a.openSelected()
			}
			return a, nil
		}
	}

	if a.state == stateList {
		var cmd tea.Cmd
		a.postList, cmd = a.postList.Update(msg)
		return a, cmd
	}
	return a, nil
}

// updateSearch handles keystrokes while the fuzzy prompt is active.
func (a *App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc":
		a.searching = false
		a.query = ""
		a.refreshItems()
		a.statusMsg = ""
		return a, nil
	case "enter":
		a.searching = false
		if a.query == "" {
			a.statusMsg = ""
		}
		return a, nil
	case "backspace":
		if a.query != "" {
			runes := []rune(a.query)
			a.query = string(runes[:len(runes)-1])
		}
	default:
		if msg.Type == tea.KeyRunes {
			a.query += string(msg.Runes)
		}
	}
	a.refreshItems()
	a.statusMsg = "Search: " + a.query
	return a, nil
}

func (a *App) openSelected() (tea.Model, tea.Cmd) {
	item, ok := a.postList.SelectedItem().(postItem)
	if !ok {
		return a, nil
	}
	a.current = item.post
	a.related = render.Related(a.current, a.store.Published(), a.relatedCount)
	a.state = stateDetail
	a.logInfo("Opened post · %s", a.current.Slug)
	return a, nil
}

func (a *App) returnToList() (tea.Model, tea.Cmd) {
	a.state = stateList
	a.current = nil
	a.related = nil
	a.statusMsg = ""
	return a, nil
}

// rescan reloads the store off the Update loop.
func (a *App) rescan() tea.Cmd {
	return func() tea.Msg {
		if err := a.store.Reload(); err != nil {
			return rescanMsg{err: err}
		}
		return rescanMsg{count: a.store.Len()}
	}
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	var content string
	switch a.state {
	case stateList:
		content = a.postList.View()
	case stateDetail:
		content = a.renderDetail(width - 6)
	}
	sections := []string{
		headerStyle.Render("◆ INKWELL"),
		panelStyle.Width(max(20, width-2)).Render(content),
	}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	sections = append(sections, footerStyle.Render(a.footerText()))
	return strings.Join(sections, "\n")
}

func (a *App) footerText() string {
	if a.statusMsg != "" {
		return a.statusMsg
	}
	if a.state == stateDetail {
		return "Esc → back    q → back    Ctrl+C → quit"
	}
	return "Enter → open    / → search    d → drafts    r → rescan    q → quit"
}

func (a *App) renderDetail(width int) string {
	p := a.current
	if p == nil {
		return "No post selected."
	}
	title := p.Meta.Title
	if p.Meta.Draft {
		title += " " + draftBadgeStyle.Render("[draft]")
	}
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(title),
		metaStyle.Render(fmt.Sprintf("%s · %s",
			p.Meta.Date.Format(time.RFC3339),
			strings.Join(p.Meta.Authors, ", "))),
	}
	if len(p.Meta.Tags) > 0 {
		lines = append(lines, metaStyle.Render("Tags: "+strings.Join(p.Meta.Tags, ", ")))
	}
	lines = append(lines, "", strings.TrimSpace(string(p.Body)))
	if len(a.related) > 0 {
		var names []string
		for _, rel := range a.related {
			names = append(names, rel.Meta.Title)
		}
		lines = append(lines, "", metaStyle.Render("Related: "+strings.Join(names, " · ")))
	}
	return lipgloss.NewStyle().Width(max(20, width)).Render(strings.Join(lines, "\n"))
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, _ := a.logbook.Tail(6)
	if len(lines) == 0 {
		return ""
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render("LOG")
	body := metaStyle.Render(strings.Join(lines, "\n"))
	return panelStyle.Render(head + "\n" + body)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
