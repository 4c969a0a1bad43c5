package expr

import "unicode/utf8"

// State represents the dropdown state of the editor.
type State int

const (
	// StateIdle means the suggestion dropdown is closed.
	StateIdle State = iota
	// StateSuggesting means the dropdown is open with a highlighted option.
	StateSuggesting
)

// EditorState is the complete editor state. Raw is the single source of
// truth; Cursor is a byte offset into Raw kept on a rune boundary; Highlight
// is the 0-based index of the highlighted dropdown option, meaningful only
// while Suggesting.
type EditorState struct {
	Raw       string
	Cursor    int
	State     State
	Highlight int
}

// NewEditorState creates an editor state for an initial raw value with the
// cursor at the end.
func NewEditorState(raw string) EditorState {
	return EditorState{Raw: raw, Cursor: len(raw), State: StateIdle}
}

// Effects describes the observable outcome of one transition. Changed means
// Raw was modified by the user and the host's change notification must fire.
// Selected carries the identifier inserted by a selection, if any.
type Effects struct {
	Selected string
	Changed  bool
}

// Event is a single editor input. Events are applied through Apply; all
// transitions are synchronous and pure.
type Event interface {
	isEvent()
}

// InsertText types text at the cursor.
type InsertText struct{ Text string }

// Backspace deletes backward at the cursor; a cursor inside a committed
// reference token removes the whole token.
type Backspace struct{}

// CursorLeft moves the cursor one rune left.
type CursorLeft struct{}

// CursorRight moves the cursor one rune right.
type CursorRight struct{}

// ArrowUp moves the dropdown highlight up.
type ArrowUp struct{}

// ArrowDown moves the dropdown highlight down.
type ArrowDown struct{}

// Enter selects the highlighted dropdown option.
type Enter struct{}

// Escape closes the dropdown.
type Escape struct{}

// ClickOption selects the option at Index, like Enter on a highlighted row.
type ClickOption struct{ Index int }

// ClickOutside closes the dropdown without selecting.
type ClickOutside struct{}

// SetValue resets the editor to a new raw value (e.g. switching from create
// to edit mode). It does not fire the change notification.
type SetValue struct{ Value string }

func (InsertText) isEvent()   {}
func (Backspace) isEvent()    {}
func (CursorLeft) isEvent()   {}
func (CursorRight) isEvent()  {}
func (ArrowUp) isEvent()      {}
func (ArrowDown) isEvent()    {}
func (Enter) isEvent()        {}
func (Escape) isEvent()       {}
func (ClickOption) isEvent()  {}
func (ClickOutside) isEvent() {}
func (SetValue) isEvent()     {}

// trailingTriggerStart returns the byte index of the '$' that opens an
// unterminated trailing run ("...$", "...$t", "...$txn-"), or -1 when the
// string does not end in such a run. The run may be empty: a bare trailing
// '$' is the trigger that opens the dropdown.
func trailingTriggerStart(raw string) int {
	i := len(raw) - 1
	for i >= 0 && isIdentByte(raw[i]) {
		i--
	}
	if i >= 0 && raw[i] == '$' {
		return i
	}
	return -1
}

// endsWithBareTrigger reports whether raw ends in a bare '$', the condition
// that transitions Idle to Suggesting.
func endsWithBareTrigger(raw string) bool {
	return len(raw) > 0 && raw[len(raw)-1] == '$'
}

// Apply runs one transition of the editor state machine. optionIDs are the
// identifiers of the dropdown options in display order; the machine needs
// them for clamping the highlight and for selection insertion.
func Apply(st EditorState, ev Event, optionIDs []string) (EditorState, Effects) {
	switch ev := ev.(type) {
	case InsertText:
		if ev.Text == "" {
			return st, Effects{}
		}
		st.Raw = st.Raw[:st.Cursor] + ev.Text + st.Raw[st.Cursor:]
		st.Cursor += len(ev.Text)
		st = refreshDropdown(st)
		return st, Effects{Changed: true}

	case Backspace:
		if st.Cursor == 0 {
			return st, Effects{}
		}
		st = deleteBackward(st)
		st = refreshDropdown(st)
		return st, Effects{Changed: true}

	case CursorLeft:
		if st.Cursor > 0 {
			_, size := utf8.DecodeLastRuneInString(st.Raw[:st.Cursor])
			st.Cursor -= size
		}
		return st, Effects{}

	case CursorRight:
		if st.Cursor < len(st.Raw) {
			_, size := utf8.DecodeRuneInString(st.Raw[st.Cursor:])
			st.Cursor += size
		}
		return st, Effects{}

	case ArrowDown:
		if st.State == StateSuggesting {
			st.Highlight = min(st.Highlight+1, max(len(optionIDs)-1, 0))
		}
		return st, Effects{}

	case ArrowUp:
		if st.State == StateSuggesting {
			st.Highlight = max(st.Highlight-1, 0)
		}
		return st, Effects{}

	case Enter:
		if st.State != StateSuggesting {
			return st, Effects{}
		}
		return selectOption(st, st.Highlight, optionIDs)

	case ClickOption:
		if st.State != StateSuggesting {
			return st, Effects{}
		}
		return selectOption(st, ev.Index, optionIDs)

	case Escape, ClickOutside:
		st.State = StateIdle
		return st, Effects{}

	case SetValue:
		return NewEditorState(ev.Value), Effects{}
	}

	return st, Effects{}
}

// refreshDropdown recomputes the dropdown state after an edit. From Idle the
// dropdown opens only on a bare trailing '$'; while Suggesting it stays open
// as long as the trailing trigger run survives.
func refreshDropdown(st EditorState) EditorState {
	switch st.State {
	case StateIdle:
		if endsWithBareTrigger(st.Raw) {
			st.State = StateSuggesting
			st.Highlight = 0
		}
	case StateSuggesting:
		if trailingTriggerStart(st.Raw) < 0 {
			st.State = StateIdle
		}
	}
	return st
}

// deleteBackward removes either the whole reference token containing the
// cursor, or a single rune. A committed reference renders as one chip, so
// deleting it character by character would leave a dangling partial
// identifier. The trailing run under an open dropdown is not committed yet
// and deletes rune by rune.
func deleteBackward(st EditorState) EditorState {
	if !inTrailingPartial(st) {
		segments := Parse(st.Raw)
		if seg, start, ok := SegmentAt(segments, st.Cursor); ok && seg.Kind == SegmentReference {
			end := start + len(seg.Content)
			st.Raw = st.Raw[:start] + st.Raw[end:]
			st.Cursor = start
			return st
		}
	}

	_, size := utf8.DecodeLastRuneInString(st.Raw[:st.Cursor])
	st.Raw = st.Raw[:st.Cursor-size] + st.Raw[st.Cursor:]
	st.Cursor -= size
	return st
}

// inTrailingPartial reports whether the cursor sits inside the trailing
// trigger run while the dropdown is open.
func inTrailingPartial(st EditorState) bool {
	if st.State != StateSuggesting {
		return false
	}
	start := trailingTriggerStart(st.Raw)
	return start >= 0 && st.Cursor > start
}

// selectOption replaces the trailing trigger run with the chosen option's
// full token, closes the dropdown and puts the cursor right after the token.
func selectOption(st EditorState, index int, optionIDs []string) (EditorState, Effects) {
	if index < 0 || index >= len(optionIDs) {
		return st, Effects{}
	}
	start := trailingTriggerStart(st.Raw)
	if start < 0 {
		// Trigger gone (e.g. stale click); just close.
		st.State = StateIdle
		return st, Effects{}
	}

	id := optionIDs[index]
	st.Raw = st.Raw[:start] + "$" + id
	st.Cursor = len(st.Raw)
	st.State = StateIdle
	st.Highlight = 0
	return st, Effects{Changed: true, Selected: id}
}
