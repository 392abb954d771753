package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tareas-app/tareas/internal/auth"
	"github.com/tareas-app/tareas/internal/board"
	"github.com/tareas-app/tareas/pkg/models"
)

type boardFocus int

const (
	focusTable boardFocus = iota
	focusTitle
	focusDescription
	focusCategory
	focusStatus
)

// BoardModel is the single-window task screen: a listing table plus the
// create/edit form. All store calls run on the update loop; a slow store
// blocks the interface for that call's duration.
type BoardModel struct {
	ctrl    *board.Controller
	session *auth.Session

	table      table.Model
	titleInput textinput.Model
	descInput  textinput.Model

	categoryIdx int // index into ctrl.Categories(), -1 = none
	statusIdx   int // index into ctrl.Statuses(), -1 = none

	focus      boardFocus
	confirming bool
	message    string
	warning    string
	quitting   bool
}

func NewBoardModel(ctrl *board.Controller, session *auth.Session) BoardModel {
	title := textinput.New()
	title.Placeholder = "título"
	title.CharLimit = 120
	title.Width = 40

	desc := textinput.New()
	desc.Placeholder = "descripción"
	desc.CharLimit = 240
	desc.Width = 40

	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Tarea", Width: 24},
		{Title: "Descripción", Width: 32},
		{Title: "Categoría", Width: 14},
		{Title: "Estado", Width: 12},
	}

	tbl := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	m := BoardModel{
		ctrl:        ctrl,
		session:     session,
		table:       tbl,
		titleInput:  title,
		descInput:   desc,
		categoryIdx: -1,
		statusIdx:   -1,
	}
	m.reloadTable()
	return m
}

func (m *BoardModel) reloadTable() {
	rows := make([]table.Row, 0, len(m.ctrl.Rows()))
	for _, r := range m.ctrl.Rows() {
		rows = append(rows, table.Row{
			strconv.FormatInt(r.ID, 10), r.Title, r.Description, r.CategoryName, r.StatusName,
		})
	}
	m.table.SetRows(rows)
}

func (m *BoardModel) selectedRowID() (int64, bool) {
	row := m.table.SelectedRow()
	if row == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (m BoardModel) Init() tea.Cmd {
	return nil
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return m.updateFocused(msg)
	}

	if m.confirming {
		return m.updateConfirm(keyMsg)
	}

	if m.focus == focusTable {
		return m.updateTable(keyMsg)
	}
	return m.updateForm(keyMsg)
}

func (m BoardModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "s":
		m.confirming = false
		if err := m.ctrl.ConfirmDelete(context.Background()); err != nil {
			m.message = errorStyle.Render(err.Error())
		} else {
			m.message = statusStyle.Render("Tarea eliminada")
		}
		m.reloadTable()
	case "n", "esc":
		m.confirming = false
		m.ctrl.CancelDelete()
	}
	return m, nil
}

func (m BoardModel) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "n":
		m.startCreate()
		return m, nil

	case "e", "enter":
		if id, ok := m.selectedRowID(); ok {
			m.startEdit(id)
		}
		return m, nil

	case "d":
		if id, ok := m.selectedRowID(); ok {
			m.ctrl.RequestDelete(id)
			m.confirming = true
		}
		return m, nil

	case "r":
		if err := m.ctrl.Refresh(context.Background()); err != nil {
			m.message = errorStyle.Render(err.Error())
		} else {
			m.message = ""
		}
		m.reloadTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *BoardModel) startCreate() {
	m.ctrl.Reset()
	m.clearForm()
	m.focus = focusTitle
	m.titleInput.Focus()
	m.table.Blur()
}

func (m *BoardModel) startEdit(rowID int64) {
	row, err := m.ctrl.SelectForEdit(rowID)
	if err != nil {
		m.message = errorStyle.Render(err.Error())
		return
	}

	m.titleInput.SetValue(row.Title)
	m.descInput.SetValue(row.Description)
	m.categoryIdx = -1
	for i, c := range m.ctrl.Categories() {
		if c.Name == row.CategoryName {
			m.categoryIdx = i
			break
		}
	}
	m.statusIdx = -1
	for i, s := range m.ctrl.Statuses() {
		if s.Name == row.StatusName {
			m.statusIdx = i
			break
		}
	}

	m.focus = focusTitle
	m.titleInput.Focus()
	m.table.Blur()
	m.message = ""
}

func (m *BoardModel) clearForm() {
	m.titleInput.SetValue("")
	m.descInput.SetValue("")
	m.categoryIdx = -1
	m.statusIdx = -1
	m.titleInput.Blur()
	m.descInput.Blur()
}

func (m *BoardModel) leaveForm() {
	m.ctrl.Reset()
	m.clearForm()
	m.focus = focusTable
	m.table.Focus()
}

func (m BoardModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		m.leaveForm()
		return m, nil

	case "tab":
		m.cycleFocus(1)
		return m, nil

	case "shift+tab":
		m.cycleFocus(-1)
		return m, nil

	case "enter":
		return m.submit()

	case "left", "right":
		if m.focus == focusCategory {
			m.categoryIdx = cycleChoice(m.categoryIdx, len(m.ctrl.Categories()), msg.String())
			return m, nil
		}
		if m.focus == focusStatus {
			m.statusIdx = cycleChoice(m.statusIdx, len(m.ctrl.Statuses()), msg.String())
			return m, nil
		}
	}

	return m.updateFocused(msg)
}

func (m BoardModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusTitle:
		m.titleInput, cmd = m.titleInput.Update(msg)
	case focusDescription:
		m.descInput, cmd = m.descInput.Update(msg)
	case focusTable:
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

func cycleChoice(idx, n int, key string) int {
	if n == 0 {
		return -1
	}
	if idx < 0 {
		return 0
	}
	if key == "right" {
		return (idx + 1) % n
	}
	return (idx + n - 1) % n
}

func (m *BoardModel) cycleFocus(direction int) {
	order := []boardFocus{focusTitle, focusDescription, focusCategory}
	if m.ctrl.EditMode() {
		order = append(order, focusStatus)
	}
	current := 0
	for i, f := range order {
		if f == m.focus {
			current = i
			break
		}
	}
	next := order[(current+len(order)+direction)%len(order)]
	m.focus = next

	m.titleInput.Blur()
	m.descInput.Blur()
	switch next {
	case focusTitle:
		m.titleInput.Focus()
	case focusDescription:
		m.descInput.Focus()
	}
}

func (m BoardModel) submit() (tea.Model, tea.Cmd) {
	ctx := context.Background()

	if m.ctrl.EditMode() {
		if m.categoryIdx < 0 {
			m.message = warningStyle.Render("Seleccione una categoría")
			return m, nil
		}
		if m.statusIdx < 0 {
			m.message = warningStyle.Render("Seleccione un estado")
			return m, nil
		}
		category := m.ctrl.Categories()[m.categoryIdx]
		status := m.ctrl.Statuses()[m.statusIdx]

		err := m.ctrl.SubmitUpdate(ctx, m.titleInput.Value(), m.descInput.Value(), category.ID, status.ID)
		if err != nil {
			m.message = errorStyle.Render(err.Error())
			return m, nil
		}
		m.message = statusStyle.Render("Cambios guardados")
	} else {
		var category models.Category
		if m.categoryIdx >= 0 {
			category = m.ctrl.Categories()[m.categoryIdx]
		}

		_, err := m.ctrl.SubmitCreate(ctx, m.titleInput.Value(), m.descInput.Value(), category)
		if err != nil {
			if isValidationError(err) {
				m.message = warningStyle.Render("Complete todos los campos antes de agregar la tarea")
			} else {
				m.message = errorStyle.Render(err.Error())
			}
			return m, nil
		}
		m.message = statusStyle.Render("Tarea agregada")
	}

	m.leaveForm()
	m.reloadTable()
	return m, nil
}

func isValidationError(err error) bool {
	return errors.Is(err, board.ErrTitleRequired) ||
		errors.Is(err, board.ErrDescriptionRequired) ||
		errors.Is(err, board.ErrCategoryRequired)
}

func (m BoardModel) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	header := fmt.Sprintf("Tareas | %s", m.session.Username)
	s.WriteString(headerStyle.Render(header))
	s.WriteString("\n")
	if m.warning != "" {
		s.WriteString(warningStyle.Render(m.warning) + "\n")
	}
	s.WriteString("\n")

	s.WriteString(m.table.View())
	s.WriteString("\n\n")

	if m.confirming {
		s.WriteString(confirmStyle.Render("¿Seguro que deseas eliminar esta tarea? (s/n)"))
		s.WriteString("\n")
		return s.String()
	}

	s.WriteString(m.renderForm())

	if m.message != "" {
		s.WriteString("\n" + m.message)
	}
	s.WriteString("\n" + m.renderHelp() + "\n")

	return s.String()
}

func (m BoardModel) renderForm() string {
	mode := "Nueva tarea"
	if m.ctrl.EditMode() {
		mode = fmt.Sprintf("Editar tarea #%d", m.ctrl.SelectedID())
	}

	var s strings.Builder
	s.WriteString(labelStyle.Render(mode) + "\n")
	s.WriteString(labelStyle.Render("Título:      ") + m.titleInput.View() + "\n")
	s.WriteString(labelStyle.Render("Descripción: ") + m.descInput.View() + "\n")
	s.WriteString(labelStyle.Render("Categoría:   ") + m.renderChoice(m.categoryChoiceName(), m.focus == focusCategory) + "\n")
	if m.ctrl.EditMode() {
		s.WriteString(labelStyle.Render("Estado:      ") + m.renderChoice(m.statusChoiceName(), m.focus == focusStatus) + "\n")
	}
	return s.String()
}

func (m BoardModel) categoryChoiceName() string {
	if m.categoryIdx < 0 || m.categoryIdx >= len(m.ctrl.Categories()) {
		return "(sin categoría)"
	}
	return m.ctrl.Categories()[m.categoryIdx].Name
}

func (m BoardModel) statusChoiceName() string {
	if m.statusIdx < 0 || m.statusIdx >= len(m.ctrl.Statuses()) {
		return "(sin estado)"
	}
	return m.ctrl.Statuses()[m.statusIdx].Name
}

func (m BoardModel) renderChoice(name string, focused bool) string {
	choice := fmt.Sprintf("< %s >", name)
	if focused {
		return selectedChoiceStyle.Render(choice)
	}
	return choice
}

func (m BoardModel) renderHelp() string {
	if m.focus == focusTable {
		return helpStyle.Render("n new • e edit • d delete • r refresh • j/k navigate • q quit")
	}
	return helpStyle.Render("enter save • tab next field • ←/→ pick choice • esc cancel")
}

// RunBoard initializes the controller and runs the task screen until the
// user quits. Missing categories is a warning shown on the board, not a
// startup failure.
func RunBoard(ctrl *board.Controller, session *auth.Session) error {
	var warning string
	if err := ctrl.Initialize(context.Background()); err != nil {
		if !errors.Is(err, board.ErrNoCategories) {
			return err
		}
		warning = "No se encontraron categorías en la base de datos"
	}

	m := NewBoardModel(ctrl, session)
	m.warning = warning

	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
