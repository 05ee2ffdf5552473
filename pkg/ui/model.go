// Package ui is the terminal front end: the sidebar tree, a properties pane
// and the dialogs that drive the panel controller.
package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/tunebook/pkg/bookmarks"
	"github.com/vanderheijden86/tunebook/pkg/config"
	"github.com/vanderheijden86/tunebook/pkg/debug"
	"github.com/vanderheijden86/tunebook/pkg/demod"
	"github.com/vanderheijden86/tunebook/pkg/metrics"
	"github.com/vanderheijden86/tunebook/pkg/model"
	"github.com/vanderheijden86/tunebook/pkg/panel"
	"github.com/vanderheijden86/tunebook/pkg/treesync"
	"github.com/vanderheijden86/tunebook/pkg/watcher"
)

// focus tracks which component receives keys.
type focus int

const (
	focusTree focus = iota
	focusSearch
	focusEdit
	focusHelp
)

// Deps are the collaborators the UI drives. Persister, Watcher and Errors
// may be nil.
type Deps struct {
	Store     *bookmarks.Store
	Demods    *demod.Registry
	Tuner     *demod.Tuner
	Sync      *treesync.Sync
	Persister *bookmarks.Persister
	Watcher   *watcher.Watcher
	Errors    <-chan error
	Config    config.Config
}

// syncTickMsg drives Sync.Tick.
type syncTickMsg struct{}

// FileChangedMsg is sent when the bookmark file changes on disk.
type FileChangedMsg struct{}

// backgroundErrorMsg carries an error from a background save.
type backgroundErrorMsg struct{ err error }

// Model is the main bubbletea model.
type Model struct {
	deps  Deps
	ctl   *panel.Controller
	theme Theme
	keys  KeyMap

	tree   TreeView
	search textinput.Model
	edit   textinput.Model
	help   help.Model
	helpVP viewport.Model

	editToken treesync.Token
	form      *formState
	focus     focus
	hidden    bool

	width  int
	height int

	statusMsg     string
	statusIsError bool
}

// NewModel builds the UI and runs the first rebuild.
func NewModel(d Deps) Model {
	theme := DefaultTheme(lipgloss.DefaultRenderer())

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "label, type or frequency"
	search.CharLimit = 120

	edit := textinput.New()
	edit.Prompt = "label: "
	edit.CharLimit = 120

	m := Model{
		deps:   d,
		ctl:    panel.New(d.Store, d.Demods, d.Tuner, d.Sync),
		theme:  theme,
		keys:   DefaultKeyMap(),
		tree:   NewTreeView(theme, d.Sync.Engine().Tree()),
		search: search,
		edit:   edit,
		help:   help.New(),
		helpVP: viewport.New(60, 20),
		width:  80,
		height: 24,
	}
	m.tree.SetSize(m.treeWidth(), m.treeHeight())
	return m.sync()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.deps.Config.RefreshInterval),
		WatchFileCmd(m.deps.Watcher),
		waitErrorCmd(m.deps.Errors),
	)
}

func tickCmd(d time.Duration) tea.Cmd {
	if d <= 0 {
		d = config.DefaultConfig().RefreshInterval
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return syncTickMsg{} })
}

// WatchFileCmd waits for the next change reported by w.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

func waitErrorCmd(ch <-chan error) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		err, ok := <-ch
		if !ok {
			return nil
		}
		return backgroundErrorMsg{err: err}
	}
}

// sync runs a tick and re-reads the tree. Called after every action so the
// next key sees the result.
func (m Model) sync() Model {
	res := m.deps.Sync.Tick()
	debug.LogIf(res.HintDropped, "ui: selection hint found nothing")
	var activeID uint64
	if d := m.deps.Demods.ActiveDemodulator(); d != nil {
		activeID = d.ID
	}
	m.tree.SetActiveID(activeID)
	if cut := m.tree.CutToken(); !cut.IsZero() && !m.ctl.CanCut(cut) {
		m.tree.SetCut(treesync.Token{})
	}
	m.tree.Refresh()
	return m
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusIsError = isErr
}

func (m *Model) setError(err error) {
	m.setStatus(err.Error(), true)
}

func (m Model) treeWidth() int {
	w := m.deps.Config.UI.PanelWidth
	if w <= 0 || w > m.width {
		w = m.width
	}
	return w
}

// header and footer take one line each.
func (m Model) treeHeight() int {
	return max(m.height-3, 1)
}

func (m Model) showProps() bool {
	return !m.deps.Config.UI.HideProps && m.width-m.treeWidth() >= 30
}

// selected returns the selected node or sets an error status.
func (m *Model) selected() *treesync.Node {
	n := m.deps.Sync.Engine().Tree().Selected()
	if n == nil {
		m.setStatus("Nothing selected", true)
	}
	return n
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case syncTickMsg:
		if m.deps.Sync.Pending() {
			m = m.sync()
		}
		return m, tickCmd(m.deps.Config.RefreshInterval)

	case FileChangedMsg:
		if m.deps.Persister != nil {
			changed, err := m.deps.Persister.Reload()
			switch {
			case err != nil:
				m.setError(err)
			case changed:
				m.setStatus("Reloaded bookmarks", false)
				m = m.sync()
			}
		}
		return m, WatchFileCmd(m.deps.Watcher)

	case backgroundErrorMsg:
		m.setError(msg.err)
		return m, waitErrorCmd(m.deps.Errors)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.tree.SetSize(m.treeWidth(), m.treeHeight())
		m.helpVP.Width = msg.Width
		m.helpVP.Height = max(msg.Height-2, 1)
		if m.focus == focusHelp {
			m.helpVP.SetContent(renderHelp(m.keys, msg.Width-4))
		}
		if m.form != nil {
			m.form.form = m.form.form.WithWidth(min(msg.Width, 60))
		}
		return m, nil
	}

	// An open form receives every other message.
	if m.form != nil {
		return m.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInputs(msg)
	}
	switch m.focus {
	case focusSearch:
		return m.handleSearchKey(km)
	case focusEdit:
		return m.handleEditKey(km)
	case focusHelp:
		return m.handleHelpKey(km)
	default:
		return m.handleTreeKey(km)
	}
}

// updateInputs forwards non-key messages such as cursor blinks.
func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusSearch:
		m.search, cmd = m.search.Update(msg)
	case focusEdit:
		m.edit, cmd = m.edit.Update(msg)
	case focusHelp:
		m.helpVP, cmd = m.helpVP.Update(msg)
	}
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.Blur()
		m.search.SetValue("")
		m.focus = focusTree
		if m.ctl.ClearSearch() {
			m = m.sync()
		}
		return m, nil
	case tea.KeyEnter:
		m.search.Blur()
		m.focus = focusTree
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.ctl.Search(m.search.Value()) {
		m = m.sync()
	}
	return m, cmd
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.edit.Blur()
		m.focus = focusTree
		m.setStatus("Cancelled", false)
		return m, nil
	case tea.KeyEnter:
		m.edit.Blur()
		m.focus = focusTree
		if err := m.ctl.SetLabel(m.editToken, m.edit.Value()); err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus("Label updated", false)
		return m.sync(), nil
	}
	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	return m, cmd
}

func (m Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help, m.keys.Escape, m.keys.Quit) {
		m.focus = focusTree
		return m, nil
	}
	var cmd tea.Cmd
	m.helpVP, cmd = m.helpVP.Update(msg)
	return m, cmd
}

func (m Model) handleTreeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.HidePanel):
		m.hidden = !m.hidden
		m.deps.Sync.SetVisible(!m.hidden)
		if !m.hidden {
			m = m.sync()
		}
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.focus = focusHelp
		m.helpVP.SetContent(renderHelp(m.keys, m.width-4))
		m.helpVP.GotoTop()
		return m, nil
	}
	if m.hidden {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		return m.step(-1), nil
	case key.Matches(msg, m.keys.Down):
		return m.step(1), nil
	case key.Matches(msg, m.keys.Top):
		return m.moveTo(0), nil
	case key.Matches(msg, m.keys.Bottom):
		return m.moveTo(m.tree.Len() - 1), nil
	case key.Matches(msg, m.keys.Toggle):
		if n := m.cursorNode(); n != nil && n.IsExpandable() {
			return m.setExpanded(n, !n.Expanded), nil
		}
	case key.Matches(msg, m.keys.Expand):
		return m.expandOrMoveToChild(), nil
	case key.Matches(msg, m.keys.Collapse):
		return m.collapseOrJumpToParent(), nil
	case key.Matches(msg, m.keys.Activate):
		return m.activate(), nil
	case key.Matches(msg, m.keys.Search):
		m.focus = focusSearch
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Escape):
		return m.escape(), nil
	case key.Matches(msg, m.keys.Edit):
		return m.startEdit()
	case key.Matches(msg, m.keys.Remove):
		return m.remove()
	case key.Matches(msg, m.keys.Bookmark):
		return m.bookmark()
	case key.Matches(msg, m.keys.AddGroup):
		return m.openForm(newAddGroupForm(m.width))
	case key.Matches(msg, m.keys.Clear):
		m.ctl.ClearRecents()
		m.setStatus("Cleared recents", false)
		return m.sync(), nil
	case key.Matches(msg, m.keys.AddRange):
		return m.openForm(newAddRangeForm(m.width))
	case key.Matches(msg, m.keys.Update):
		return m.updateRange(), nil
	case key.Matches(msg, m.keys.Record):
		return m.toggleRecording(), nil
	case key.Matches(msg, m.keys.Copy):
		return m.copyFrequency(), nil
	case key.Matches(msg, m.keys.Cut):
		return m.cut(), nil
	case key.Matches(msg, m.keys.Paste):
		return m.paste(), nil
	}
	return m, nil
}

// cursorNode is the node under the cursor, selecting it if the tree lost
// its selection.
func (m *Model) cursorNode() *treesync.Node {
	if n := m.deps.Sync.Engine().Tree().Selected(); n != nil {
		return n
	}
	n := m.tree.NodeAt(m.tree.Cursor())
	if n == nil {
		return nil
	}
	if _, err := m.ctl.Select(n.Token()); err != nil {
		return nil
	}
	return n
}

// step moves the cursor by delta. Without a selection the first step
// selects the row under the cursor.
func (m Model) step(delta int) Model {
	if m.deps.Sync.Engine().Tree().Selected() == nil {
		delta = 0
	}
	return m.moveTo(m.tree.Cursor() + delta)
}

func (m Model) moveTo(i int) Model {
	n := m.tree.NodeAt(i)
	if n == nil {
		return m
	}
	if _, err := m.ctl.Select(n.Token()); err != nil {
		if errors.Is(err, panel.ErrBusy) {
			return m.sync()
		}
		m.setError(err)
		return m
	}
	m.tree.SetCursor(i)
	return m
}

func (m Model) setExpanded(n *treesync.Node, expanded bool) Model {
	if err := m.ctl.SetExpanded(n.Token(), expanded); err != nil {
		m.setError(err)
		return m
	}
	return m.sync()
}

func (m Model) expandOrMoveToChild() Model {
	n := m.cursorNode()
	if n == nil || !n.IsExpandable() {
		return m
	}
	if !n.Expanded {
		return m.setExpanded(n, true)
	}
	if i := m.tree.FirstChildIndex(n); i >= 0 {
		return m.moveTo(i)
	}
	return m
}

func (m Model) collapseOrJumpToParent() Model {
	n := m.cursorNode()
	if n == nil {
		return m
	}
	if n.IsExpandable() && n.Expanded && !m.deps.Sync.Engine().Searching() {
		return m.setExpanded(n, false)
	}
	if i := m.tree.ParentIndex(n); i >= 0 {
		return m.moveTo(i)
	}
	return m
}

func (m Model) activate() Model {
	n := m.cursorNode()
	if n == nil {
		return m
	}
	label := n.Label
	if err := m.ctl.Activate(n.Token()); err != nil {
		m.setError(err)
		return m
	}
	switch n.Kind {
	case treesync.KindRange:
		m.setStatus("Viewing "+label, false)
	case treesync.KindActive, treesync.KindBookmark, treesync.KindRecent:
		m.setStatus("Tuned "+label, false)
	}
	return m.sync()
}

func (m Model) escape() Model {
	if !m.tree.CutToken().IsZero() {
		m.tree.SetCut(treesync.Token{})
		m.setStatus("Cut cancelled", false)
		return m
	}
	if m.search.Value() != "" {
		m.search.SetValue("")
		if m.ctl.ClearSearch() {
			m = m.sync()
		}
		m.setStatus("Search cleared", false)
	}
	return m
}

func (m Model) startEdit() (tea.Model, tea.Cmd) {
	n := m.selected()
	if n == nil {
		return m, nil
	}
	if n.Kind == treesync.KindBranch {
		m.setError(panel.ErrUnsupported)
		return m, nil
	}
	props, err := m.ctl.Props()
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.editToken = n.Token()
	m.edit.SetValue(props.Label)
	m.edit.CursorEnd()
	m.focus = focusEdit
	cmd := m.edit.Focus()
	return m, cmd
}

func (m Model) remove() (tea.Model, tea.Cmd) {
	n := m.selected()
	if n == nil {
		return m, nil
	}
	conf, err := m.ctl.Remove(n.Token())
	if err != nil {
		m.setError(err)
		return m, nil
	}
	if conf != nil {
		return m.openForm(newConfirmForm(conf, m.width))
	}
	m.setStatus("Removed "+n.Label, false)
	return m.sync(), nil
}

func (m Model) bookmark() (tea.Model, tea.Cmd) {
	n := m.selected()
	if n == nil {
		return m, nil
	}
	switch n.Kind {
	case treesync.KindActive, treesync.KindRecent, treesync.KindBookmark:
		return m.openForm(newBookmarkForm(n.Token(), m.ctl.BookmarkChoices(n.Token()), m.width))
	default:
		m.setError(panel.ErrUnsupported)
		return m, nil
	}
}

func (m Model) updateRange() Model {
	n := m.selected()
	if n == nil {
		return m
	}
	if err := m.ctl.UpdateRange(n.Token()); err != nil {
		m.setError(err)
		return m
	}
	m.setStatus("Range set to the visible spectrum", false)
	return m.sync()
}

func (m Model) toggleRecording() Model {
	n := m.selected()
	if n == nil {
		return m
	}
	rec, err := m.ctl.ToggleRecording(n.Token())
	if err != nil {
		m.setError(err)
		return m
	}
	if rec {
		m.setStatus("Recording "+n.Label, false)
	} else {
		m.setStatus("Stopped recording "+n.Label, false)
	}
	return m.sync()
}

func (m Model) copyFrequency() Model {
	n := m.selected()
	if n == nil {
		return m
	}
	f := n.Frequency()
	if f <= 0 {
		m.setError(panel.ErrUnsupported)
		return m
	}
	digits := model.FrequencyDigits(f)
	if err := clipboard.WriteAll(digits); err != nil {
		m.setStatus(fmt.Sprintf("Clipboard unavailable: %v", err), true)
		return m
	}
	m.setStatus("Copied "+digits, false)
	return m
}

func (m Model) cut() Model {
	n := m.selected()
	if n == nil {
		return m
	}
	if !m.ctl.CanCut(n.Token()) {
		m.setError(panel.ErrUnsupported)
		return m
	}
	m.tree.SetCut(n.Token())
	m.setStatus("Cut "+n.Label+", select a group and press p", false)
	return m
}

func (m Model) paste() Model {
	src := m.tree.CutToken()
	if src.IsZero() {
		m.setStatus("Nothing to paste", true)
		return m
	}
	n := m.selected()
	if n == nil {
		return m
	}
	if err := m.ctl.Paste(src, n.Token()); err != nil {
		m.setError(err)
		return m
	}
	m.tree.SetCut(treesync.Token{})
	m.setStatus("Pasted", false)
	return m.sync()
}

// View renders the whole screen.
func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()
	if m.focus == focusHelp {
		return m.helpVP.View() + "\n" + m.theme.MutedText.Render("esc to close")
	}

	header := m.renderHeader()
	var body string
	if m.hidden {
		body = m.theme.MutedText.Render("  panel hidden, tab to show")
	} else {
		tree := lipgloss.NewStyle().Width(m.treeWidth()).Height(m.treeHeight()).Render(m.tree.View())
		side := ""
		switch {
		case m.form != nil:
			side = m.form.form.View()
		case m.showProps():
			side = m.renderProps(m.width - m.treeWidth() - 2)
		}
		if side != "" {
			body = lipgloss.JoinHorizontal(lipgloss.Top, tree, "  ", side)
		} else {
			body = tree
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter())
}

func (m Model) renderHeader() string {
	center, span := m.deps.Tuner.View()
	right := fmt.Sprintf("%s ±%s", model.FormatFrequency(center), model.FormatFrequency(span/2))
	left := "tunebook"
	if kw := m.deps.Sync.Engine().Keywords(); kw.Active() {
		left += " [" + kw.String() + "]"
	}
	w := max(m.width, 20)
	line := fitLine(left, right, w)
	return m.theme.Header.Render(line)
}

func (m Model) renderFooter() string {
	switch m.focus {
	case focusSearch:
		return m.search.View()
	case focusEdit:
		return m.edit.View()
	}
	if m.statusMsg != "" {
		if m.statusIsError {
			return m.theme.ErrorText.Render(truncate(m.statusMsg, max(m.width, 10)))
		}
		return m.theme.StatusText.Render(truncate(m.statusMsg, max(m.width, 10)))
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m Model) renderProps(width int) string {
	props, err := m.ctl.Props()
	if err != nil {
		return ""
	}
	inner := max(width-4, 10)
	var lines []string
	lines = append(lines, m.theme.Header.Render(truncate(props.Title, inner)))
	row := func(k, v string) {
		if v == "" {
			return
		}
		lines = append(lines, m.theme.PropsKey.Render(k)+truncate(v, max(inner-11, 1)))
	}
	row("Frequency", props.Frequency)
	row("Bandwidth", props.Bandwidth)
	row("Type", props.Type)
	row("Group", props.Group)
	if props.Kind == treesync.KindActive {
		rec := "no"
		if props.Recording {
			rec = "yes"
		}
		row("Recording", rec)
	}
	if len(props.Actions) > 0 {
		titles := make([]string, len(props.Actions))
		for i, a := range props.Actions {
			titles[i] = a.Title()
		}
		lines = append(lines, "", m.theme.MutedText.Render(truncate(strings.Join(titles, " · "), inner)))
	}
	return m.theme.PropsBox.Width(inner).Render(strings.Join(lines, "\n"))
}
