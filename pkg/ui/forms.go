package ui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/vanderheijden86/tunebook/pkg/panel"
	"github.com/vanderheijden86/tunebook/pkg/treesync"
)

type formKind int

const (
	formConfirmRemove formKind = iota
	formBookmarkTo
	formAddGroup
	formAddRange
)

func (k formKind) String() string {
	switch k {
	case formConfirmRemove:
		return "remove"
	case formBookmarkTo:
		return "bookmark"
	case formAddGroup:
		return "add group"
	case formAddRange:
		return "add range"
	default:
		return "form"
	}
}

// formState is a modal dialog and the values its fields write into. It is
// held by pointer so the bound values survive Model copies.
type formState struct {
	kind  formKind
	form  *huh.Form
	token treesync.Token
	conf  *panel.Confirmation

	yes    bool
	choice string
	text   string
}

var errNameRequired = errors.New("name is required")

func requireName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errNameRequired
	}
	return nil
}

// newForm creates an embedded form with the app's look.
func newForm(width int, groups ...*huh.Group) *huh.Form {
	if width > 60 {
		width = 60
	}
	return huh.NewForm(groups...).
		WithTheme(huh.ThemeDracula()).
		WithWidth(width).
		WithShowHelp(false)
}

func newConfirmForm(conf *panel.Confirmation, width int) *formState {
	st := &formState{kind: formConfirmRemove, token: conf.Token, conf: conf}
	st.form = newForm(width,
		huh.NewGroup(
			huh.NewConfirm().
				Title(conf.Title).
				Description(conf.Message).
				Affirmative("Remove").
				Negative("Cancel").
				Value(&st.yes),
		),
	)
	return st
}

// newBookmarkForm is the group picker. The first choice names the action and
// is not a group; picking "New group…" shows a name input.
func newBookmarkForm(tok treesync.Token, choices []string, width int) *formState {
	st := &formState{kind: formBookmarkTo, token: tok}
	title, groups := choices[0], choices[1:]
	if len(groups) > 0 {
		st.choice = groups[0]
	}
	st.form = newForm(width,
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(huh.NewOptions(groups...)...).
				Value(&st.choice),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Group name").
				Value(&st.text).
				Validate(requireName),
		).WithHideFunc(func() bool { return st.choice != panel.ChoiceNewGroup }),
	)
	return st
}

func newAddGroupForm(width int) *formState {
	st := &formState{kind: formAddGroup}
	st.form = newForm(width,
		huh.NewGroup(
			huh.NewInput().
				Title("New group").
				Value(&st.text).
				Validate(requireName),
		),
	)
	return st
}

func newAddRangeForm(width int) *formState {
	st := &formState{kind: formAddRange}
	st.form = newForm(width,
		huh.NewGroup(
			huh.NewInput().
				Title("Range label").
				Description("Leave empty to name it by its frequencies").
				Value(&st.text),
		),
	)
	return st
}

// group is the group the bookmark form resolved to.
func (st *formState) group() string {
	if st.choice == panel.ChoiceNewGroup {
		return st.text
	}
	return st.choice
}

// openForm shows st and starts its first field.
func (m Model) openForm(st *formState) (Model, tea.Cmd) {
	m.form = st
	return m, st.form.Init()
}

// updateForm feeds msg to the open form and applies or drops it once the
// form finishes.
func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	st := m.form
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		return m.closeForm(st, false), nil
	}

	fm, cmd := st.form.Update(msg)
	if f, ok := fm.(*huh.Form); ok {
		st.form = f
	}
	switch st.form.State {
	case huh.StateCompleted:
		m = m.closeForm(st, true)
		return m, cmd
	case huh.StateAborted:
		return m.closeForm(st, false), cmd
	}
	return m, cmd
}

func (m Model) closeForm(st *formState, submitted bool) Model {
	m.form = nil
	if !submitted {
		if st.kind == formConfirmRemove {
			m.ctl.CancelRemove()
		}
		m.setStatus("Cancelled", false)
		return m
	}
	return m.applyForm(st)
}

// applyForm runs the action a finished form asked for.
func (m Model) applyForm(st *formState) Model {
	var err error
	switch st.kind {
	case formConfirmRemove:
		if !st.yes {
			m.ctl.CancelRemove()
			m.setStatus("Kept "+st.conf.Title, false)
			return m
		}
		if err = m.ctl.ConfirmRemove(st.conf); err == nil {
			m.setStatus("Removed", false)
		}
	case formBookmarkTo:
		group := st.group()
		if err = m.ctl.BookmarkTo(st.token, group); err == nil {
			m.setStatus("Bookmarked to "+strings.TrimSpace(group), false)
		}
	case formAddGroup:
		if err = m.ctl.AddGroup(st.text); err == nil {
			m.setStatus("Added group "+strings.TrimSpace(st.text), false)
		}
	case formAddRange:
		r := m.ctl.AddActiveRange(strings.TrimSpace(st.text))
		m.setStatus("Added range "+r.DisplayName(), false)
	}
	if err != nil {
		m.setStatus(err.Error(), true)
		return m
	}
	return m.sync()
}
