// Package tui is the interactive table explorer: a bubbletea program drawing
// the table grid around the session cursor.
package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/leaptable/internal/loader"
	"github.com/leapstack-labs/leaptable/internal/session"
	"github.com/leapstack-labs/leaptable/pkg/core"
)

// errNoSave is shown when the explorer runs without a view store.
var errNoSave = errors.New("saving is not available")

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Toggle     key.Binding
	Hide       key.Binding
	ShowHidden key.Binding
	Save       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Toggle:     key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "expand/collapse")),
	Hide:       key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "hide column")),
	ShowHidden: key.NewBinding(key.WithKeys("."), key.WithHelp(".", "show hidden")),
	Save:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save view")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Hide, k.Save, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Toggle, k.Hide, k.ShowHidden},
		{k.Save, k.Help, k.Quit},
	}
}

// Config configures the explorer.
type Config struct {
	Session *session.Session
	// Workbook supplies attribute names and link instance data (optional).
	Workbook *loader.Workbook
	Options  GridOptions
	// Save stores the current view and returns a status message (optional).
	Save func() (string, error)
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// workbookRef is shared by every copy of the model and the reload path.
type workbookRef struct {
	mu sync.RWMutex
	wb *loader.Workbook
}

func (r *workbookRef) get() *loader.Workbook {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.wb
}

func (r *workbookRef) set(wb *loader.Workbook) {
	r.mu.Lock()
	r.wb = wb
	r.mu.Unlock()
}

// changedMsg reports a session change.
type changedMsg struct{}

// Model is the bubbletea model of the explorer.
type Model struct {
	sess    *session.Session
	data    *workbookRef
	opts    GridOptions
	save    func() (string, error)
	logger  *slog.Logger
	styles  Styles
	help    help.Model
	changes chan struct{}

	width, height int
	// offset is the first body line on screen.
	offset int
	status string
	err    error
}

// New creates an explorer model subscribed to the session.
func New(cfg Config) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return Model{
		sess:    cfg.Session,
		data:    &workbookRef{wb: cfg.Workbook},
		opts:    cfg.Options,
		save:    cfg.Save,
		logger:  logger,
		styles:  DefaultStyles(),
		help:    help.New(),
		changes: cfg.Session.Subscribe(),
	}
}

// Reload installs a freshly loaded workbook. The cursor stays where it still
// resolves.
func (m Model) Reload(wb *loader.Workbook) {
	m.data.set(wb)
	m.sess.Replace(wb.TableModel(), wb.DocumentsByID())
	m.logger.Info("workbook reloaded", "path", wb.Path)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func waitForChange(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width

	case changedMsg:
		m.follow()
		return m, waitForChange(m.changes)

	case tea.KeyMsg:
		m.status, m.err = "", nil
		switch {
		case key.Matches(msg, keys.Quit):
			m.sess.Unsubscribe(m.changes)
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			m.sess.Move(core.Up)
		case key.Matches(msg, keys.Down):
			m.sess.Move(core.Down)
		case key.Matches(msg, keys.Left):
			m.sess.Move(core.Left)
		case key.Matches(msg, keys.Right):
			m.sess.Move(core.Right)
		case key.Matches(msg, keys.Toggle):
			m.err = m.sess.ToggleExpanded()
		case key.Matches(msg, keys.Hide):
			m.err = m.sess.HideColumn()
		case key.Matches(msg, keys.ShowHidden):
			m.opts.ShowHidden = !m.opts.ShowHidden
		case key.Matches(msg, keys.Save):
			if m.save == nil {
				m.err = errNoSave
				break
			}
			m.status, m.err = m.save()
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		if m.err != nil {
			m.logger.Debug("explorer action failed", "key", msg.String(), "error", m.err)
		}
		m.follow()
	}
	return m, nil
}

// WorkbookSource draws everything from wb.
func WorkbookSource(wb *loader.Workbook) Source {
	src := Source{
		Table:         wb.TableModel(),
		Documents:     wb.DocumentsByID(),
		Attributes:    wb.AttributesFor,
		LinkInstances: make(map[string]core.LinkInstance, len(wb.LinkInstances)),
	}
	for _, li := range wb.LinkInstances {
		src.LinkInstances[li.ID] = li
	}
	return src
}

// source combines the live session with the workbook's attributes and link
// instances.
func (m Model) source() Source {
	var src Source
	if wb := m.data.get(); wb != nil {
		src = WorkbookSource(wb)
	}
	src.Table = m.sess.Snapshot().Table
	src.Documents = m.sess.Documents()
	return src
}

// bodyHeight is the number of body lines that fit on screen, or -1 when the
// window size is unknown.
func (m Model) bodyHeight(g *Grid) int {
	if m.height <= 0 {
		return -1
	}
	fixed := len(g.Header) + 1 + 1 + lipgloss.Height(m.help.View(keys))
	return max(m.height-fixed, 1)
}

// follow scrolls the body so the cursor stays on screen.
func (m *Model) follow() {
	g := BuildGrid(m.source(), m.opts)
	visible := m.bodyHeight(g)
	if visible < 0 {
		m.offset = 0
		return
	}
	m.offset = min(m.offset, max(len(g.Body)-visible, 0))
	line, _, ok := g.Locate(m.sess.Cursor())
	header := len(g.Header)
	if header > 0 {
		header++
	}
	if !ok || line < header {
		return
	}
	body := line - header
	switch {
	case body < m.offset:
		m.offset = body
	case body >= m.offset+visible:
		m.offset = body - visible + 1
	}
}

// View implements tea.Model.
func (m Model) View() string {
	g := BuildGrid(m.source(), m.opts)
	cur := m.sess.Cursor()
	lines := strings.Split(strings.TrimSuffix(g.Render(cur, m.styles), "\n"), "\n")

	header := len(g.Header) + 1
	if len(g.Header) == 0 {
		header = 0
	}
	out := lines[:min(header, len(lines))]
	body := lines[min(header, len(lines)):]
	if visible := m.bodyHeight(g); visible >= 0 {
		start := min(m.offset, len(body))
		body = body[start:min(start+visible, len(body))]
	}
	out = append(append([]string(nil), out...), body...)

	// TODO: scroll horizontally to keep the cursor column visible.
	if m.width > 0 {
		clip := lipgloss.NewStyle().MaxWidth(m.width)
		for i, l := range out {
			out[i] = clip.Render(l)
		}
	}

	var b strings.Builder
	b.WriteString(strings.Join(out, "\n"))
	b.WriteString("\n")
	b.WriteString(m.statusLine(cur))
	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m Model) statusLine(cur core.Cursor) string {
	pos := "no cursor"
	if cur != nil {
		pos = fmt.Sprint(cur)
	}
	switch {
	case m.err != nil:
		return m.styles.Error.Render(fmt.Sprintf("%s  %v", pos, m.err))
	case m.status != "":
		return m.styles.Status.Render(fmt.Sprintf("%s  %s", pos, m.status))
	}
	return m.styles.Status.Render(pos)
}
