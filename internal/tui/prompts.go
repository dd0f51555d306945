package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ErrInteractiveDisabled is returned when prompts are not possible, either
// because PATCHES_NO_INTERACTIVE is set or because there is no terminal
var ErrInteractiveDisabled = errors.New("interactive prompts are disabled")

// ErrCanceled is returned when the user aborts a prompt
var ErrCanceled = errors.New("canceled")

// checkInteractiveAllowed returns an error if prompting is not possible
func checkInteractiveAllowed() error {
	if os.Getenv("PATCHES_NO_INTERACTIVE") != "" {
		return fmt.Errorf("%w (PATCHES_NO_INTERACTIVE is set)", ErrInteractiveDisabled)
	}
	if !IsTTY() {
		return fmt.Errorf("%w (not a terminal)", ErrInteractiveDisabled)
	}
	return nil
}

// IsTTY returns true if stdin and stdout are both terminals
func IsTTY() bool {
	isTerminal := func(fd uintptr) bool {
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	return isTerminal(os.Stdin.Fd()) && isTerminal(os.Stdout.Fd())
}

// textInputModel is a single-line text prompt with optional validation
type textInputModel struct {
	textInput textinput.Model
	prompt    string
	validate  func(string) error
	invalid   error
	done      bool
	err       error
}

func (m textInputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			if m.validate != nil {
				if err := m.validate(m.textInput.Value()); err != nil {
					m.invalid = err
					return m, nil
				}
			}
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.err = ErrCanceled
			m.done = true
			return m, tea.Quit
		}
	}

	m.invalid = nil
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m textInputModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.prompt)
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	if m.invalid != nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(m.invalid.Error()))
	}
	b.WriteString("\n\n(Press Enter to submit, Ctrl+C to cancel)")
	return lipgloss.NewStyle().Margin(1, 0).Render(b.String())
}

// PromptTextInput prompts the user for a line of text. validate, when not
// nil, is run on Enter and keeps the prompt open until it passes.
func PromptTextInput(prompt, defaultValue string, validate func(string) error) (string, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return "", err
	}

	ti := textinput.New()
	ti.SetValue(defaultValue)
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60

	m := textInputModel{
		textInput: ti,
		prompt:    prompt,
		validate:  validate,
	}

	p := tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	model, err := p.Run()
	if err != nil {
		return "", err
	}

	if finalModel, ok := model.(textInputModel); ok {
		if finalModel.err != nil {
			return "", finalModel.err
		}
		return strings.TrimSpace(finalModel.textInput.Value()), nil
	}

	return "", fmt.Errorf("unexpected model type")
}

// PromptConfirm asks a yes/no question
func PromptConfirm(prompt string, defaultValue bool) (bool, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return false, err
	}

	var answer bool
	q := &survey.Confirm{
		Message: prompt,
		Default: defaultValue,
	}
	if err := survey.AskOne(q, &answer); err != nil {
		return false, ErrCanceled
	}
	return answer, nil
}
