package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pthomsen/reckon/internal/model"
	"github.com/pthomsen/reckon/internal/service"
	"github.com/pthomsen/reckon/internal/tui/components"
	"github.com/pthomsen/reckon/internal/tui/themes"
)

// formField identifies the focused form field.
type formField int

const (
	fieldName formField = iota
	fieldExpression
	fieldFrequency
	fieldCategory
	fieldSave
)

// FormModel is the create/edit transaction form. The expression field is an
// ExprInput; its evaluation preview is debounced and sequence-numbered so a
// newer edit always supersedes a pending result.
type FormModel struct {
	theme          themes.Theme
	storage        service.Storage
	evaluator      service.Evaluator
	err            error
	preview        *service.Evaluation
	saved          *model.Transaction
	editID         string
	nameInput      textinput.Model
	exprInput      components.ExprInput
	categories     []model.Category
	references     []model.Reference
	field          formField
	freqCursor     int
	catCursor      int
	evalSeq        int
	editCategoryID int
	width          int
	height         int
	evalStale      bool
	done           bool
}

// NewForm creates the form. txn is nil for a new transaction.
func NewForm(cfg FormConfig) FormModel {
	theme := themes.GetTheme(cfg.Theme)

	nameInput := textinput.New()
	nameInput.Placeholder = "e.g. Rent"
	nameInput.CharLimit = 80
	nameInput.Focus()

	exprInput := components.NewExprInput(theme)
	exprInput.Placeholder = "amount or expression, '$' references another transaction"

	m := FormModel{
		theme:      theme,
		storage:    cfg.Storage,
		evaluator:  cfg.Evaluator,
		nameInput:  nameInput,
		exprInput:  exprInput,
		field:      fieldName,
		freqCursor: frequencyIndex(model.FrequencyMonthly),
	}

	if cfg.Transaction != nil {
		m.editID = cfg.Transaction.ID
		m.editCategoryID = cfg.Transaction.CategoryID
		m.nameInput.SetValue(cfg.Transaction.Name)
		m.exprInput.SetValue(cfg.Transaction.Expression)
		m.freqCursor = frequencyIndex(cfg.Transaction.Frequency)
		m.evalStale = true
	}

	return m
}

// Init loads categories and references, and evaluates a pre-filled
// expression immediately.
func (m FormModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadCategories(), m.loadReferences(), textinput.Blink}
	if m.evalStale {
		cmds = append(cmds, m.evaluate(m.evalSeq, m.exprInput.Value()))
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case categoriesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.categories = msg.categories
		m.clampCategoryCursor()
		if m.editID != "" {
			m.syncCategoryCursor()
		}
		return m, nil

	case referencesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.references = msg.references
		m.exprInput.SetReferences(msg.references)
		return m, nil

	case components.ExprChangedMsg:
		m.evalSeq++
		m.evalStale = true
		return m, m.scheduleEvaluation(msg.Value)

	case evalTickMsg:
		if msg.seq != m.evalSeq {
			// Superseded by a newer edit.
			return m, nil
		}
		return m, m.evaluate(msg.seq, msg.raw)

	case evalResultMsg:
		if msg.seq != m.evalSeq {
			return m, nil
		}
		m.evalStale = false
		if msg.err != nil {
			m.preview = nil
			return m, nil
		}
		m.preview = &msg.eval
		return m, nil

	case saveResultMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.saved = msg.txn
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m FormModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		// The open dropdown consumes the first escape.
		if m.field == fieldExpression && m.exprInput.Suggesting() {
			break
		}
		return m, tea.Quit

	case tea.KeyTab:
		m.focusField(m.nextField(1))
		return m, nil

	case tea.KeyShiftTab:
		m.focusField(m.nextField(-1))
		return m, nil
	}

	switch m.field {
	case fieldName:
		if msg.Type == tea.KeyEnter {
			m.focusField(fieldExpression)
			return m, nil
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd

	case fieldExpression:
		if msg.Type == tea.KeyEnter && !m.exprInput.Suggesting() {
			m.focusField(fieldFrequency)
			return m, nil
		}
		var cmd tea.Cmd
		m.exprInput, cmd = m.exprInput.Update(msg)
		return m, cmd

	case fieldFrequency:
		before := m.freqCursor
		switch msg.String() {
		case "left", "h", "up", "k":
			m.freqCursor = max(m.freqCursor-1, 0)
		case "right", "l", "down", "j":
			m.freqCursor = min(m.freqCursor+1, len(model.Frequencies())-1)
		case "enter":
			m.focusField(fieldCategory)
		}
		// Frequency changes the normalized preview.
		if m.freqCursor != before && m.preview != nil {
			m.evalSeq++
			m.evalStale = true
			return m, m.evaluate(m.evalSeq, m.exprInput.Value())
		}
		return m, nil

	case fieldCategory:
		switch msg.String() {
		case "up", "k":
			m.catCursor = max(m.catCursor-1, 0)
		case "down", "j":
			m.catCursor = min(m.catCursor+1, len(m.categories))
		case "enter":
			m.focusField(fieldSave)
		}
		return m, nil

	case fieldSave:
		if msg.Type == tea.KeyEnter {
			if err := m.validate(); err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			return m, m.save()
		}
	}

	return m, nil
}

// nextField cycles focus in the given direction.
func (m FormModel) nextField(dir int) formField {
	n := int(fieldSave) + 1
	return formField((int(m.field) + dir + n) % n)
}

func (m *FormModel) focusField(f formField) {
	m.nameInput.Blur()
	m.exprInput.Blur()
	m.field = f

	switch f {
	case fieldName:
		m.nameInput.Focus()
	case fieldExpression:
		m.exprInput.Focus()
	}
}

func (m FormModel) validate() error {
	if strings.TrimSpace(m.nameInput.Value()) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(m.exprInput.Value()) == "" {
		return fmt.Errorf("expression is required")
	}
	return nil
}

// buildTransaction assembles the transaction from the form fields. Kind and
// amounts are filled in by the save command after the final evaluation.
func (m FormModel) buildTransaction() *model.Transaction {
	txn := &model.Transaction{
		ID:         m.editID,
		Name:       strings.TrimSpace(m.nameInput.Value()),
		Expression: m.exprInput.Value(),
		Frequency:  m.frequency(),
	}
	if txn.ID == "" {
		txn.ID = model.NewTransactionID(txn.Name)
	}
	if m.catCursor > 0 && m.catCursor <= len(m.categories) {
		txn.CategoryID = m.categories[m.catCursor-1].ID
	}
	return txn
}

// frequencyIndex returns the cursor position of f in display order.
func frequencyIndex(f model.Frequency) int {
	for i, candidate := range model.Frequencies() {
		if candidate == f {
			return i
		}
	}
	return 0
}

func (m FormModel) frequency() model.Frequency {
	freqs := model.Frequencies()
	if m.freqCursor >= 0 && m.freqCursor < len(freqs) {
		return freqs[m.freqCursor]
	}
	return model.FrequencyMonthly
}

func (m *FormModel) clampCategoryCursor() {
	m.catCursor = min(m.catCursor, len(m.categories))
}

// syncCategoryCursor points the cursor at the edited transaction's category.
func (m *FormModel) syncCategoryCursor() {
	if m.editCategoryID == 0 {
		return
	}
	for i, cat := range m.categories {
		if cat.ID == m.editCategoryID {
			m.catCursor = i + 1
			return
		}
	}
}

// View renders the form.
func (m FormModel) View() string {
	title := "New Transaction"
	if m.editID != "" {
		title = "Edit Transaction"
	}

	sections := []string{
		m.theme.Title.Render(title),
		m.renderField(fieldName, "Name", m.nameInput.View()),
		m.renderField(fieldExpression, "Amount", m.exprInput.View()),
		m.renderField(fieldFrequency, "Frequency", m.renderFrequencies()),
		m.renderField(fieldCategory, "Category", m.renderCategories()),
		m.renderPreview(),
		m.renderSaveRow(),
		m.renderHelp(),
	}

	if m.err != nil {
		sections = append(sections, m.theme.StatusError.Render(m.err.Error()))
	}

	return m.theme.Box.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m FormModel) renderField(f formField, label, body string) string {
	style := m.theme.Label
	if m.field == f {
		style = m.theme.LabelFocused
	}
	return lipgloss.JoinVertical(lipgloss.Left, style.Render(label), body, "")
}

func (m FormModel) renderFrequencies() string {
	var parts []string
	for i, f := range model.Frequencies() {
		label := " " + f.Label() + " "
		if i == m.freqCursor {
			label = m.theme.Selected.Render(label)
		} else {
			label = m.theme.Normal.Render(label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}

func (m FormModel) renderCategories() string {
	rows := []string{m.renderCategoryRow(0, "(none)")}
	for i, cat := range m.categories {
		rows = append(rows, m.renderCategoryRow(i+1, cat.Name))
	}
	return strings.Join(rows, "\n")
}

func (m FormModel) renderCategoryRow(index int, name string) string {
	prefix := "  "
	line := prefix + name
	if index == m.catCursor {
		return m.theme.Selected.Render("> " + name)
	}
	return m.theme.Normal.Render(line)
}

// renderPreview shows the debounced evaluation: the monthly-equivalent
// amount when the expression is valid, its hint otherwise.
func (m FormModel) renderPreview() string {
	if m.evalStale {
		return m.theme.StatusPending.Render("…") + "\n"
	}
	if m.preview == nil {
		return ""
	}
	if !m.preview.Valid {
		return m.theme.StatusPending.Render(m.preview.Hint) + "\n"
	}

	line := fmt.Sprintf("= %s %s (%s, %s / month)",
		m.preview.Amount.StringFixed(2),
		m.preview.Kind,
		strings.ToLower(m.frequency().Label()),
		m.preview.NormalizedAmount.StringFixed(2),
	)
	if m.preview.Kind == model.KindIncome {
		return m.theme.StatusSuccess.Render(line) + "\n"
	}
	return m.theme.StatusError.Render(line) + "\n"
}

func (m FormModel) renderSaveRow() string {
	label := " Save "
	if m.field == fieldSave {
		return m.theme.Selected.Render(label)
	}
	return m.theme.BorderedBox.Padding(0, 1).Render("Save")
}

func (m FormModel) renderHelp() string {
	hints := []string{
		"[Tab] Next field",
		"[Enter] Confirm",
		"[Esc] Cancel",
	}
	if m.field == fieldExpression {
		hints = append(hints, "[$] Reference a transaction")
	}
	return "\n" + m.theme.Help.Render(strings.Join(hints, "  "))
}
