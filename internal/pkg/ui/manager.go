// Package ui provides interactive terminal UI components for relayq.
package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// EnvironmentInput is the result of the interactive environment form.
type EnvironmentInput struct {
	ID    string
	Token string
	Name  string
}

// Spinner provides loading animation functionality.
type Spinner interface {
	Start()
	Stop()
	UpdateText(text string)
}

// Manager defines the interface for UI operations.
type Manager interface {
	ShowSpinner(text string) Spinner
	ShowError(err error)
	ShowSuccess(message string)
	ShowInfo(message string)
	PromptConfirm(message string) (bool, error)
	PromptEnvironment(defaults EnvironmentInput) (*EnvironmentInput, error)
	RenderTable(headers []string, rows [][]string) string
}

// DefaultManager implements the Manager interface using charmbracelet
// libraries.
type DefaultManager struct {
	colorEnabled bool
	styles       *styles
}

// styles holds the lipgloss styles for UI rendering.
type styles struct {
	header     lipgloss.Style
	success    lipgloss.Style
	errorStyle lipgloss.Style
	info       lipgloss.Style
	muted      lipgloss.Style
}

// NewDefaultManager creates a new DefaultManager.
func NewDefaultManager(colorEnabled bool) *DefaultManager {
	m := &DefaultManager{colorEnabled: colorEnabled}
	m.styles = initStyles(colorEnabled)
	return m
}

func initStyles(colorEnabled bool) *styles {
	if !colorEnabled {
		return &styles{
			header:     lipgloss.NewStyle(),
			success:    lipgloss.NewStyle(),
			errorStyle: lipgloss.NewStyle(),
			info:       lipgloss.NewStyle(),
			muted:      lipgloss.NewStyle(),
		}
	}

	return &styles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")),
		errorStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),
		muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
	}
}

// ShowSpinner creates and returns a spinner for loading states.
func (m *DefaultManager) ShowSpinner(text string) Spinner {
	return newBubbleSpinner(text)
}

// ShowError displays an error message to the user.
func (m *DefaultManager) ShowError(err error) {
	if err == nil {
		return
	}
	fmt.Println()
	fmt.Println(m.styles.errorStyle.Render("Error: " + err.Error()))
	fmt.Println()
}

// ShowSuccess displays a success message to the user.
func (m *DefaultManager) ShowSuccess(message string) {
	fmt.Println()
	fmt.Println(m.styles.success.Render("[OK] " + message))
	fmt.Println()
}

// ShowInfo displays an informational message.
func (m *DefaultManager) ShowInfo(message string) {
	fmt.Println(m.styles.info.Render(message))
}

// PromptConfirm prompts the user for a yes/no confirmation using Bubble
// Tea. Defaults to No so an accidental Enter never confirms a
// destructive action.
func (m *DefaultManager) PromptConfirm(message string) (bool, error) {
	model := newConfirmModel(message)
	p := tea.NewProgram(model)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	result := finalModel.(confirmModel)
	return result.confirmed, nil
}

// PromptEnvironment collects environment details with a huh form.
// Provided defaults pre-fill the fields.
func (m *DefaultManager) PromptEnvironment(defaults EnvironmentInput) (*EnvironmentInput, error) {
	input := defaults

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Environment ID").
				Description("Short identifier, e.g. prod or staging.").
				Value(&input.ID).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("environment id is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("API token").
				EchoMode(huh.EchoModePassword).
				Value(&input.Token).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("token is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Display name").
				Description("Optional. Defaults to the environment id.").
				Value(&input.Name),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}
	return &input, nil
}

// RenderTable renders headers and rows as aligned columns.
func (m *DefaultManager) RenderTable(headers []string, rows [][]string) string {
	return renderTable(m.styles, headers, rows)
}

func renderTable(st *styles, headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var sb strings.Builder
	for i, h := range headers {
		sb.WriteString(st.header.Render(pad(h, widths[i])))
		if i < len(headers)-1 {
			sb.WriteString("  ")
		}
	}
	sb.WriteString("\n")

	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			sb.WriteString(pad(cell, widths[i]))
			if i < len(row)-1 {
				sb.WriteString("  ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// confirmModel is the Bubble Tea model for yes/no confirmation.
type confirmModel struct {
	message   string
	cursor    int // 0 = Yes, 1 = No
	confirmed bool
	done      bool
}

func newConfirmModel(message string) confirmModel {
	return confirmModel{
		message: message,
		cursor:  1,
	}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "n", "N", "esc":
			m.confirmed = false
			m.done = true
			return m, tea.Quit
		case "y", "Y":
			m.confirmed = true
			m.done = true
			return m, tea.Quit
		case "left", "h":
			m.cursor = 0
		case "right", "l":
			m.cursor = 1
		case "enter", " ":
			m.confirmed = m.cursor == 0
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("220"))

	selectedStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("42"))

	normalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.message))
	sb.WriteString(" ")

	yesStyle := normalStyle
	noStyle := normalStyle
	if m.cursor == 0 {
		yesStyle = selectedStyle
	} else {
		noStyle = selectedStyle
	}

	sb.WriteString(yesStyle.Render("[Y]es"))
	sb.WriteString(" / ")
	sb.WriteString(noStyle.Render("[N]o"))

	return sb.String()
}

// bubbleSpinner implements Spinner using Bubble Tea.
type bubbleSpinner struct {
	text    string
	program *tea.Program
	model   *spinnerModel
	mu      sync.Mutex
}

// spinnerModel is the Bubble Tea model for the spinner.
type spinnerModel struct {
	spinner  spinner.Model
	text     string
	quitting bool
}

// spinnerTickMsg is sent to update spinner text from outside.
type spinnerTickMsg struct {
	text string
}

// spinnerQuitMsg signals the spinner to quit.
type spinnerQuitMsg struct{}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerTickMsg:
		m.text = msg.text
		return m, nil
	case spinnerQuitMsg:
		m.quitting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.text)
}

func newBubbleSpinner(text string) *bubbleSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	model := &spinnerModel{
		spinner: s,
		text:    text,
	}

	return &bubbleSpinner{
		text:  text,
		model: model,
	}
}

func (s *bubbleSpinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.program = tea.NewProgram(s.model)
	go func() {
		_, _ = s.program.Run()
	}()
}

func (s *bubbleSpinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.program != nil {
		s.program.Send(spinnerQuitMsg{})
		time.Sleep(50 * time.Millisecond)
	}
}

func (s *bubbleSpinner) UpdateText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.text = text
	if s.program != nil {
		s.program.Send(spinnerTickMsg{text: text})
	}
}

// NonInteractiveManager implements Manager for non-interactive mode
// (--yes flag or piped output).
type NonInteractiveManager struct {
	styles *styles
}

// NewNonInteractiveManager creates a new NonInteractiveManager.
func NewNonInteractiveManager(colorEnabled bool) *NonInteractiveManager {
	return &NonInteractiveManager{styles: initStyles(colorEnabled)}
}

// ShowSpinner returns a no-op spinner in non-interactive mode.
func (m *NonInteractiveManager) ShowSpinner(text string) Spinner {
	return &noopSpinner{}
}

// ShowError displays an error message.
func (m *NonInteractiveManager) ShowError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
}

// ShowSuccess displays a success message.
func (m *NonInteractiveManager) ShowSuccess(message string) {
	fmt.Println(message)
}

// ShowInfo displays an informational message.
func (m *NonInteractiveManager) ShowInfo(message string) {
	fmt.Println(message)
}

// PromptConfirm always confirms in non-interactive mode.
func (m *NonInteractiveManager) PromptConfirm(message string) (bool, error) {
	return true, nil
}

// PromptEnvironment returns the defaults unchanged; interactive forms
// are unavailable in non-interactive mode.
func (m *NonInteractiveManager) PromptEnvironment(defaults EnvironmentInput) (*EnvironmentInput, error) {
	if strings.TrimSpace(defaults.ID) == "" || strings.TrimSpace(defaults.Token) == "" {
		return nil, fmt.Errorf("environment id and token are required in non-interactive mode")
	}
	return &defaults, nil
}

// RenderTable renders headers and rows as aligned columns.
func (m *NonInteractiveManager) RenderTable(headers []string, rows [][]string) string {
	return renderTable(m.styles, headers, rows)
}

// noopSpinner is a no-op implementation of Spinner.
type noopSpinner struct{}

func (s *noopSpinner) Start()            {}
func (s *noopSpinner) Stop()             {}
func (s *noopSpinner) UpdateText(string) {}
