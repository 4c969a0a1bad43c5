package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/pthomsen/reckon/internal/expr"
	"github.com/pthomsen/reckon/internal/model"
	"github.com/pthomsen/reckon/internal/tui/themes"
)

// maxDropdownRows caps how many suggestions render at once; the window
// scrolls to keep the highlighted row visible.
const maxDropdownRows = 6

// ExprChangedMsg is emitted whenever the user edits the expression text.
// Selection of a dropdown option counts as an edit; SetValue does not.
type ExprChangedMsg struct {
	Value string
}

// ExprInput is a single-line expression editor with reference autocomplete.
// Typing '$' opens a dropdown of other transactions; a selected reference
// renders as one chip and deletes as one unit.
type ExprInput struct {
	theme       themes.Theme
	Placeholder string
	editor      expr.EditorState
	references  []model.Reference
	focused     bool
}

// NewExprInput creates an empty, unfocused expression input.
func NewExprInput(theme themes.Theme) ExprInput {
	return ExprInput{
		theme:  theme,
		editor: expr.NewEditorState(""),
	}
}

// SetReferences replaces the set of transactions the dropdown offers.
func (e *ExprInput) SetReferences(refs []model.Reference) {
	e.references = refs
}

// Value returns the raw expression text, chips included as their tokens.
func (e ExprInput) Value() string {
	return e.editor.Raw
}

// SetValue resets the editor to raw with the cursor at the end. It does not
// emit ExprChangedMsg.
func (e *ExprInput) SetValue(raw string) {
	e.editor, _ = expr.Apply(e.editor, expr.SetValue{Value: raw}, nil)
}

// Focus gives the input keyboard focus.
func (e *ExprInput) Focus() {
	e.focused = true
}

// Blur removes focus and closes the dropdown, like clicking elsewhere.
func (e *ExprInput) Blur() {
	e.focused = false
	e.editor, _ = expr.Apply(e.editor, expr.ClickOutside{}, nil)
}

// Focused reports whether the input has keyboard focus.
func (e ExprInput) Focused() bool {
	return e.focused
}

// Suggesting reports whether the dropdown is open. Hosts use it to decide
// whether up/down/enter/esc belong to the input or to the surrounding form.
func (e ExprInput) Suggesting() bool {
	return e.editor.State == expr.StateSuggesting
}

// Options returns the dropdown candidates: every reference the host
// supplied. Typing after the '$' keeps the dropdown open but does not narrow
// the list; selection replaces the whole partial run.
func (e ExprInput) Options() []model.Reference {
	return e.references
}

// Update handles key messages. A blurred input ignores everything.
func (e ExprInput) Update(msg tea.Msg) (ExprInput, tea.Cmd) {
	if !e.focused {
		return e, nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return e, nil
	}

	var event expr.Event
	switch key.Type {
	case tea.KeyRunes:
		event = expr.InsertText{Text: string(key.Runes)}
	case tea.KeySpace:
		event = expr.InsertText{Text: " "}
	case tea.KeyBackspace:
		event = expr.Backspace{}
	case tea.KeyLeft:
		event = expr.CursorLeft{}
	case tea.KeyRight:
		event = expr.CursorRight{}
	case tea.KeyUp:
		event = expr.ArrowUp{}
	case tea.KeyDown:
		event = expr.ArrowDown{}
	case tea.KeyEnter:
		event = expr.Enter{}
	case tea.KeyEsc:
		event = expr.Escape{}
	default:
		return e, nil
	}

	options := e.Options()
	ids := make([]string, len(options))
	for i, ref := range options {
		ids[i] = ref.ID
	}

	var effects expr.Effects
	e.editor, effects = expr.Apply(e.editor, event, ids)

	if effects.Changed {
		value := e.editor.Raw
		return e, func() tea.Msg { return ExprChangedMsg{Value: value} }
	}
	return e, nil
}

// View renders the expression line, and the dropdown below it when open.
func (e ExprInput) View() string {
	var b strings.Builder
	b.WriteString(e.renderLine())

	if e.focused && e.Suggesting() {
		b.WriteString("\n")
		b.WriteString(e.renderDropdown())
	}
	return b.String()
}

// renderLine renders segments in order: text verbatim, references as chips,
// with a cursor marker when focused.
func (e ExprInput) renderLine() string {
	if e.editor.Raw == "" {
		line := e.theme.Placeholder.Render(e.Placeholder)
		if e.focused {
			return e.cursorMark() + line
		}
		return line
	}

	var b strings.Builder
	segments := expr.Parse(e.editor.Raw)
	placed := !e.focused
	pos := 0

	for _, seg := range segments {
		end := pos + len(seg.Content)
		switch seg.Kind {
		case expr.SegmentText:
			if !placed && e.editor.Cursor >= pos && e.editor.Cursor < end {
				i := e.editor.Cursor - pos
				b.WriteString(e.theme.Normal.Render(seg.Content[:i]))
				b.WriteString(e.cursorMark())
				b.WriteString(e.theme.Normal.Render(seg.Content[i:]))
				placed = true
			} else {
				b.WriteString(e.theme.Normal.Render(seg.Content))
			}
		case expr.SegmentReference:
			b.WriteString(e.renderChip(seg))
			if !placed && e.editor.Cursor > pos && e.editor.Cursor <= end {
				b.WriteString(e.cursorMark())
				placed = true
			}
		}
		pos = end
	}

	if !placed {
		b.WriteString(e.cursorMark())
	}
	return b.String()
}

// renderChip renders one reference segment. A reference whose transaction no
// longer exists stays in the text but renders struck through.
func (e ExprInput) renderChip(seg expr.Segment) string {
	ref, ok := model.FindReference(e.references, seg.ID)
	if !ok {
		return e.theme.ChipUnresolved.Render(seg.Content)
	}
	return e.theme.Chip.Render(fmt.Sprintf("%s %s", ref.Label, formatSigned(ref.SignedAmount)))
}

func (e ExprInput) renderDropdown() string {
	options := e.Options()
	if len(options) == 0 {
		return e.theme.Dropdown.Render(e.theme.DropdownEmpty.Render("no matching transactions"))
	}

	start := 0
	if e.editor.Highlight >= maxDropdownRows {
		start = e.editor.Highlight - maxDropdownRows + 1
	}
	end := min(start+maxDropdownRows, len(options))

	var rows []string
	for i := start; i < end; i++ {
		ref := options[i]
		line := fmt.Sprintf("%-24s %10s", ref.Label, formatSigned(ref.SignedAmount))
		if i == e.editor.Highlight {
			line = e.theme.DropdownSelected.Render(line)
		} else {
			line = e.theme.DropdownItem.Render(line)
		}
		rows = append(rows, line)
	}

	if end < len(options) {
		rows = append(rows, e.theme.DropdownEmpty.Render(
			fmt.Sprintf("%d more…", len(options)-end)))
	}
	return e.theme.Dropdown.Render(strings.Join(rows, "\n"))
}

func (e ExprInput) cursorMark() string {
	return e.theme.Cursor.Render("▎")
}

func formatSigned(d decimal.Decimal) string {
	if d.IsNegative() {
		return d.StringFixed(2)
	}
	return "+" + d.StringFixed(2)
}
