package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOptionIDs = []string{"txn-1", "txn-2", "txn-3"}

// typeString feeds text rune by rune, the way key events arrive.
func typeString(st EditorState, text string, optionIDs []string) (EditorState, Effects) {
	var eff Effects
	for _, r := range text {
		st, eff = Apply(st, InsertText{Text: string(r)}, optionIDs)
	}
	return st, eff
}

func TestTriggerDetection(t *testing.T) {
	st := NewEditorState("")

	st, eff := typeString(st, "50 + ", testOptionIDs)
	assert.Equal(t, StateIdle, st.State)
	assert.True(t, eff.Changed)

	// Typing '$' opens the dropdown with the first option highlighted.
	st, eff = Apply(st, InsertText{Text: "$"}, testOptionIDs)
	assert.Equal(t, StateSuggesting, st.State)
	assert.Equal(t, 0, st.Highlight)
	assert.True(t, eff.Changed)
	assert.Equal(t, "50 + $", st.Raw)

	// Typing identifier characters keeps it open.
	st, _ = Apply(st, InsertText{Text: "t"}, testOptionIDs)
	assert.Equal(t, StateSuggesting, st.State)
	assert.Equal(t, "50 + $t", st.Raw)

	// Deleting back past the '$' closes it.
	st, _ = Apply(st, Backspace{}, testOptionIDs)
	assert.Equal(t, StateSuggesting, st.State)
	st, _ = Apply(st, Backspace{}, testOptionIDs)
	assert.Equal(t, StateIdle, st.State)
	assert.Equal(t, "50 + ", st.Raw)
}

func TestSelectionInsertion(t *testing.T) {
	st := NewEditorState("")
	st, _ = Apply(st, InsertText{Text: "$"}, testOptionIDs)
	require.Equal(t, StateSuggesting, st.State)

	st, eff := Apply(st, Enter{}, testOptionIDs)
	assert.Equal(t, "$txn-1", st.Raw)
	assert.Equal(t, "txn-1", eff.Selected)
	assert.True(t, eff.Changed)
	assert.Equal(t, StateIdle, st.State)
	assert.Equal(t, len("$txn-1"), st.Cursor)
}

func TestSelectionReplacesPartialIdentifier(t *testing.T) {
	st := NewEditorState("")
	st, _ = typeString(st, "100 + $tx", testOptionIDs)
	require.Equal(t, StateSuggesting, st.State)

	st, _ = Apply(st, ArrowDown{}, testOptionIDs)
	st, eff := Apply(st, Enter{}, testOptionIDs)
	assert.Equal(t, "100 + $txn-2", st.Raw)
	assert.Equal(t, "txn-2", eff.Selected)
}

func TestKeyboardNavigationClamps(t *testing.T) {
	st := NewEditorState("")
	st, _ = Apply(st, InsertText{Text: "$"}, testOptionIDs)
	require.Equal(t, StateSuggesting, st.State)

	// Five downs with three options stop at the last index.
	for i := 0; i < 5; i++ {
		st, _ = Apply(st, ArrowDown{}, testOptionIDs)
	}
	assert.Equal(t, 2, st.Highlight)

	// And ups stop at zero.
	for i := 0; i < 7; i++ {
		st, _ = Apply(st, ArrowUp{}, testOptionIDs)
	}
	assert.Equal(t, 0, st.Highlight)
}

func TestNavigationIgnoredWhenIdle(t *testing.T) {
	st := NewEditorState("100")
	st, eff := Apply(st, ArrowDown{}, testOptionIDs)
	assert.Equal(t, StateIdle, st.State)
	assert.Equal(t, 0, st.Highlight)
	assert.False(t, eff.Changed)
}

func TestEscapeClosesDropdown(t *testing.T) {
	st := NewEditorState("")
	st, _ = Apply(st, InsertText{Text: "$"}, testOptionIDs)
	require.Equal(t, StateSuggesting, st.State)

	st, eff := Apply(st, Escape{}, testOptionIDs)
	assert.Equal(t, StateIdle, st.State)
	assert.False(t, eff.Changed)
	// The '$' stays in the text.
	assert.Equal(t, "$", st.Raw)
}

func TestClickOutsideClosesDropdown(t *testing.T) {
	st := NewEditorState("")
	st, _ = Apply(st, InsertText{Text: "$"}, testOptionIDs)
	st, _ = Apply(st, ClickOutside{}, testOptionIDs)
	assert.Equal(t, StateIdle, st.State)
}

func TestClickOptionSelects(t *testing.T) {
	st := NewEditorState("")
	st, _ = Apply(st, InsertText{Text: "$"}, testOptionIDs)

	st, eff := Apply(st, ClickOption{Index: 2}, testOptionIDs)
	assert.Equal(t, "$txn-3", st.Raw)
	assert.Equal(t, "txn-3", eff.Selected)
	assert.Equal(t, StateIdle, st.State)
}

func TestEnterWithNoOptionsIsNoop(t *testing.T) {
	st := NewEditorState("")
	st, _ = Apply(st, InsertText{Text: "$"}, nil)
	require.Equal(t, StateSuggesting, st.State)

	st, eff := Apply(st, Enter{}, nil)
	assert.Equal(t, StateSuggesting, st.State)
	assert.Equal(t, "$", st.Raw)
	assert.False(t, eff.Changed)
}

func TestAtomicDelete(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		cursor     int
		wantRaw    string
		wantCursor int
	}{
		{
			name:       "backspace after reference removes whole token",
			raw:        "100 + $txn-1",
			cursor:     len("100 + $txn-1"),
			wantRaw:    "100 + ",
			wantCursor: len("100 + "),
		},
		{
			name:       "backspace inside reference removes whole token",
			raw:        "100 + $txn-1 - 2",
			cursor:     len("100 + $tx"),
			wantRaw:    "100 +  - 2",
			wantCursor: len("100 + "),
		},
		{
			name:       "backspace in text removes one character",
			raw:        "100 + $txn-1",
			cursor:     len("100 "),
			wantRaw:    "100+ $txn-1",
			wantCursor: len("100"),
		},
		{
			name:       "backspace removes one rune of multibyte text",
			raw:        "caffè",
			cursor:     len("caffè"),
			wantRaw:    "caff",
			wantCursor: len("caff"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := EditorState{Raw: tt.raw, Cursor: tt.cursor}
			st, eff := Apply(st, Backspace{}, testOptionIDs)
			assert.Equal(t, tt.wantRaw, st.Raw)
			assert.Equal(t, tt.wantCursor, st.Cursor)
			assert.True(t, eff.Changed)
		})
	}
}

func TestBackspaceInPartialRunDeletesOneRune(t *testing.T) {
	st := NewEditorState("")
	st, _ = typeString(st, "50 + $t", testOptionIDs)
	require.Equal(t, StateSuggesting, st.State)

	// The trailing run is still being typed, not a committed chip.
	st, eff := Apply(st, Backspace{}, testOptionIDs)
	assert.Equal(t, "50 + $", st.Raw)
	assert.Equal(t, StateSuggesting, st.State)
	assert.True(t, eff.Changed)

	st, _ = Apply(st, Backspace{}, testOptionIDs)
	assert.Equal(t, "50 + ", st.Raw)
	assert.Equal(t, StateIdle, st.State)
}

func TestBackspaceAtStartIsNoop(t *testing.T) {
	st := EditorState{Raw: "abc", Cursor: 0}
	st, eff := Apply(st, Backspace{}, nil)
	assert.Equal(t, "abc", st.Raw)
	assert.False(t, eff.Changed)
}

func TestCursorMovement(t *testing.T) {
	st := NewEditorState("ab")
	assert.Equal(t, 2, st.Cursor)

	st, _ = Apply(st, CursorLeft{}, nil)
	assert.Equal(t, 1, st.Cursor)
	st, _ = Apply(st, CursorLeft{}, nil)
	st, _ = Apply(st, CursorLeft{}, nil)
	assert.Equal(t, 0, st.Cursor, "cursor stops at start")

	st, _ = Apply(st, CursorRight{}, nil)
	assert.Equal(t, 1, st.Cursor)
	st, _ = Apply(st, CursorRight{}, nil)
	st, _ = Apply(st, CursorRight{}, nil)
	assert.Equal(t, 2, st.Cursor, "cursor stops at end")
}

func TestInsertAtCursorMiddle(t *testing.T) {
	st := NewEditorState("15")
	st, _ = Apply(st, CursorLeft{}, nil)
	st, eff := Apply(st, InsertText{Text: "0"}, nil)
	assert.Equal(t, "105", st.Raw)
	assert.Equal(t, 2, st.Cursor)
	assert.True(t, eff.Changed)
}

func TestSetValueResets(t *testing.T) {
	st := NewEditorState("")
	st, _ = Apply(st, InsertText{Text: "$"}, testOptionIDs)
	require.Equal(t, StateSuggesting, st.State)

	st, eff := Apply(st, SetValue{Value: "$txn-2 + 10"}, testOptionIDs)
	assert.Equal(t, "$txn-2 + 10", st.Raw)
	assert.Equal(t, len(st.Raw), st.Cursor)
	assert.Equal(t, StateIdle, st.State)
	// Programmatic resets come from the host; no change echo.
	assert.False(t, eff.Changed)
}

func TestEndToEndTypeAndSelect(t *testing.T) {
	st := NewEditorState("")

	st, _ = typeString(st, "100 + $", testOptionIDs)
	require.Equal(t, StateSuggesting, st.State)
	require.Equal(t, 0, st.Highlight)

	st, eff := Apply(st, Enter{}, testOptionIDs)
	assert.Equal(t, "100 + $txn-1", st.Raw)
	assert.Equal(t, StateIdle, st.State)
	assert.True(t, eff.Changed)

	// Raw stays parseable and lossless at every step.
	assert.Equal(t, st.Raw, Serialize(Parse(st.Raw)))
}
