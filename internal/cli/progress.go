package cli

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ProgressSpinner shows a spinner while a request is pending. Without a
// terminal it prints the message once instead.
type ProgressSpinner struct {
	message  string
	animated bool
	out      io.Writer

	program *tea.Program
	done    chan struct{}
	once    sync.Once
}

// NewProgressSpinner creates a spinner drawing on out
func NewProgressSpinner(message string, noColor bool, out io.Writer) *ProgressSpinner {
	return &ProgressSpinner{
		message:  message,
		animated: !noColor && os.Getenv("CI") == "" && IsTerminal(out),
		out:      out,
		done:     make(chan struct{}),
	}
}

// Start begins the spinner in a goroutine
func (p *ProgressSpinner) Start() {
	if !p.animated {
		fmt.Fprintf(p.out, "%s...\n", p.message)
		close(p.done)
		return
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	p.program = tea.NewProgram(spinnerModel{
		spinner: s,
		message: p.message,
		style:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}, tea.WithOutput(p.out), tea.WithInput(nil))

	go func() {
		defer close(p.done)
		_, _ = p.program.Run()
	}()
}

// Stop stops the spinner and waits for it to clear its line
func (p *ProgressSpinner) Stop() {
	p.once.Do(func() {
		if p.program == nil {
			return
		}
		p.program.Send(stopSpinnerMsg{})
		<-p.done
	})
}

type stopSpinnerMsg struct{}

// spinnerModel implements the tea.Model interface for the spinner
type spinnerModel struct {
	spinner  spinner.Model
	message  string
	style    lipgloss.Style
	stopping bool
}

func (s spinnerModel) Init() tea.Cmd {
	return s.spinner.Tick
}

func (s spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stopSpinnerMsg:
		s.stopping = true
		return s, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s spinnerModel) View() string {
	if s.stopping {
		return ""
	}
	return fmt.Sprintf("%s %s", s.spinner.View(), s.style.Render(s.message))
}
