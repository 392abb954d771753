package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tareas-app/tareas/internal/auth"
)

// LoginModel is the credential form gating the task board. Store calls
// run on the update loop and block it, like every other screen here.
type LoginModel struct {
	auth     *auth.Controller
	inputs   []textinput.Model
	focus    int
	errMsg   string
	session  *auth.Session
	quitting bool
}

func NewLoginModel(authController *auth.Controller) LoginModel {
	username := textinput.New()
	username.Placeholder = "usuario"
	username.CharLimit = 64
	username.Width = 32
	username.Focus()

	password := textinput.New()
	password.Placeholder = "contraseña"
	password.CharLimit = 64
	password.Width = 32
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return LoginModel{
		auth:   authController,
		inputs: []textinput.Model{username, password},
	}
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "tab", "down":
			m.setFocus((m.focus + 1) % len(m.inputs))
			return m, nil

		case "shift+tab", "up":
			m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
			return m, nil

		case "enter":
			if m.focus == 0 {
				m.setFocus(1)
				return m, nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *LoginModel) setFocus(i int) {
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	m.focus = i
}

func (m LoginModel) submit() (tea.Model, tea.Cmd) {
	username := m.inputs[0].Value()
	password := m.inputs[1].Value()

	result, session := m.auth.Login(context.Background(), username, password)
	switch result {
	case auth.Authenticated:
		m.session = session
		return m, tea.Quit

	case auth.StoreUnavailable:
		m.errMsg = "No se pudo conectar con la base de datos"
		return m, nil

	default:
		m.errMsg = "Usuario o contraseña incorrectos"
		m.inputs[0].SetValue("")
		m.inputs[1].SetValue("")
		m.setFocus(0)
		return m, nil
	}
}

func (m LoginModel) View() string {
	if m.quitting || m.session != nil {
		return ""
	}

	var s strings.Builder

	s.WriteString(logoStyle.Render(logo))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render("Iniciar sesión"))
	s.WriteString("\n\n")

	s.WriteString(labelStyle.Render("Usuario:") + "\n")
	s.WriteString(m.inputs[0].View() + "\n\n")
	s.WriteString(labelStyle.Render("Contraseña:") + "\n")
	s.WriteString(m.inputs[1].View() + "\n")

	if m.errMsg != "" {
		s.WriteString("\n" + errorStyle.Render(m.errMsg) + "\n")
	}

	s.WriteString("\n" + helpStyle.Render("enter to continue • tab to switch fields • esc to quit") + "\n")

	return s.String()
}

// Session returns the minted session, or nil when login was abandoned.
func (m LoginModel) Session() *auth.Session {
	return m.session
}

// RunLogin runs the login screen and returns the session on success. A nil
// session means the user quit without authenticating.
func RunLogin(authController *auth.Controller) (*auth.Session, error) {
	m := NewLoginModel(authController)
	finalModel, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, err
	}
	return finalModel.(LoginModel).Session(), nil
}
