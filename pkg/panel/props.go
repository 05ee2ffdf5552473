package panel

import (
	"fmt"

	"github.com/vanderheijden86/tunebook/pkg/model"
	"github.com/vanderheijden86/tunebook/pkg/treesync"
)

// Action is a command offered for the selected node.
type Action int

const (
	ActionActivate Action = iota
	ActionRemove
	ActionBookmark
	ActionEditLabel
	ActionStartRecording
	ActionStopRecording
	ActionAddGroup
	ActionClearRecents
	ActionAddActiveRange
	ActionUpdateRange
)

// Title is the button text for the action.
func (a Action) Title() string {
	switch a {
	case ActionActivate:
		return "Activate"
	case ActionRemove:
		return "Remove"
	case ActionBookmark:
		return "Bookmark"
	case ActionEditLabel:
		return "Edit Label"
	case ActionStartRecording:
		return "Start Recording"
	case ActionStopRecording:
		return "Stop Recording"
	case ActionAddGroup:
		return "Add Group"
	case ActionClearRecents:
		return "Clear Recents"
	case ActionAddActiveRange:
		return "Add Active Range"
	case ActionUpdateRange:
		return "Update Range"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Props describes the selected node for the properties pane. Zero fields
// are not shown.
type Props struct {
	Kind      treesync.Kind
	Title     string
	Label     string
	Frequency string
	Bandwidth string
	Type      string
	Group     string
	Recording bool
	// HasLabel reports whether the label can be edited.
	HasLabel bool
	Actions  []Action
}

// Has reports whether a is offered.
func (p Props) Has(a Action) bool {
	for _, x := range p.Actions {
		if x == a {
			return true
		}
	}
	return false
}

func propsFor(n *treesync.Node) Props {
	switch n.Kind {
	case treesync.KindBranch:
		return branchProps(n.Branch)
	case treesync.KindActive:
		d := n.Demod
		p := entryProps(n.Kind, d.DisplayName(), d.UserLabel, d.Frequency, d.Bandwidth, d.Type)
		p.Recording = d.Recording
		rec := ActionStartRecording
		if d.Recording {
			rec = ActionStopRecording
		}
		p.Actions = []Action{ActionBookmark, rec, ActionEditLabel, ActionRemove}
		return p
	case treesync.KindBookmark:
		b := n.Entry
		p := entryProps(n.Kind, b.DisplayName(), b.Label, b.Frequency, b.Bandwidth, b.Type)
		p.Group = n.Group
		p.Actions = []Action{ActionBookmark, ActionActivate, ActionEditLabel, ActionRemove}
		return p
	case treesync.KindRecent:
		b := n.Entry
		p := entryProps(n.Kind, b.DisplayName(), b.Label, b.Frequency, b.Bandwidth, b.Type)
		p.Actions = []Action{ActionBookmark, ActionActivate, ActionEditLabel, ActionRemove}
		return p
	case treesync.KindRange:
		r := n.Range
		return Props{
			Kind:      n.Kind,
			Title:     r.DisplayName(),
			Label:     r.Label,
			Frequency: model.FormatFrequency(r.Start) + "-" + model.FormatFrequency(r.End),
			HasLabel:  true,
			Actions:   []Action{ActionActivate, ActionUpdateRange, ActionEditLabel, ActionRemove},
		}
	case treesync.KindGroup:
		return Props{
			Kind:     n.Kind,
			Title:    n.Group,
			Label:    n.Group,
			HasLabel: true,
			Actions:  []Action{ActionEditLabel, ActionRemove},
		}
	default:
		panic(fmt.Sprintf("panel: unknown node kind %d", int(n.Kind)))
	}
}

func entryProps(kind treesync.Kind, title, label string, freq, bw int64, typ string) Props {
	return Props{
		Kind:      kind,
		Title:     title,
		Label:     label,
		Frequency: model.FormatFrequency(freq),
		Bandwidth: model.FormatFrequency(bw),
		Type:      typ,
		HasLabel:  true,
	}
}

func branchProps(b treesync.Branch) Props {
	p := Props{Kind: treesync.KindBranch, Title: b.Title()}
	switch b {
	case treesync.BranchBookmarks:
		p.Actions = []Action{ActionAddGroup}
	case treesync.BranchRecents:
		p.Actions = []Action{ActionClearRecents}
	case treesync.BranchRanges:
		p.HasLabel = true
		p.Actions = []Action{ActionAddActiveRange}
	case treesync.BranchActive, treesync.BranchRoot:
	}
	return p
}
