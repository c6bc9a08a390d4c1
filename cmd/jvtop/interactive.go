package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	statStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	scenario *Scenario
	run      *runner
	next     int
	results  []stepResult // scenario steps applied so far
	adhoc    []stepResult // ad-hoc steps entered through the prompt
	input    textinput.Model
	typing   bool
	inputErr error
}

func newInteractiveModel(scenario *Scenario) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "op [index] [count] [value]  e.g. insert 0 3 hello"
	ti.Prompt = "> "
	ti.Width = 48
	return &interactiveModel{
		scenario: scenario,
		run:      newRunner(scenario.Budget),
		input:    ti,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.typing {
			switch msg.String() {
			case "ctrl+c":
				m.run.close()
				return m, tea.Quit
			case "esc":
				m.typing = false
				m.input.Blur()
				m.inputErr = nil
				return m, nil
			case "enter":
				step, err := parseCommand(m.input.Value())
				if err != nil {
					m.inputErr = err
					return m, nil
				}
				m.adhoc = append(m.adhoc, m.run.apply(step))
				m.input.SetValue("")
				m.inputErr = nil
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			m.run.close()
			return m, tea.Quit

		case "enter", " ":
			if m.next < len(m.scenario.Steps) {
				m.results = append(m.results, m.run.apply(m.scenario.Steps[m.next]))
				m.next++
			}

		case "r":
			m.run.close()
			m.run = newRunner(m.scenario.Budget)
			m.next = 0
			m.results = nil
			m.adhoc = nil

		case "a":
			m.typing = true
			m.input.Focus()
		}
	}
	return m, nil
}

// parseCommand turns "insert 0 3 hello" into a Step. Index is consumed only
// by ops that take one.
func parseCommand(line string) (Step, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Step{}, fmt.Errorf("empty command")
	}
	s := Step{Op: fields[0]}
	if !knownOp(s.Op) {
		return Step{}, fmt.Errorf("unknown op %q", s.Op)
	}
	args := fields[1:]

	takeInt := func(what string) (int, error) {
		if len(args) == 0 {
			return 0, fmt.Errorf("%s: missing %s", s.Op, what)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, fmt.Errorf("%s: bad %s %q", s.Op, what, args[0])
		}
		args = args[1:]
		return n, nil
	}

	var err error
	switch s.Op {
	case "insert", "erase":
		if s.Index, err = takeInt("index"); err != nil {
			return Step{}, err
		}
		fallthrough
	case "fill", "resize", "reserve":
		if s.Count, err = takeInt("count"); err != nil {
			return Step{}, err
		}
	}
	s.Value = strings.Join(args, " ")
	return s, nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("jvtop"))
	b.WriteString(" ")
	b.WriteString(m.scenario.Name)
	b.WriteString("\n\n")

	st := m.run.counting.Stats()
	b.WriteString(statStyle.Render(fmt.Sprintf(
		"len=%d cap=%d | allocs=%d deallocs=%d failures=%d | in-use=%dB peak=%dB",
		m.run.arr.Len(), m.run.arr.Cap(),
		st.Allocs, st.Deallocs, st.Failures,
		st.BytesInUse, st.MaxBytesInUse)))
	if m.scenario.Budget > 0 {
		b.WriteString(statStyle.Render(fmt.Sprintf(" | budget-left=%dB", m.run.limit.Remaining())))
	}
	b.WriteString("\n\n")

	for i, step := range m.scenario.Steps {
		line := fmt.Sprintf("  %s", formatStep(step))
		switch {
		case i < m.next:
			res := m.results[i]
			if res.Err != nil {
				line += "  " + errorStyle.Render(res.Err.Error())
			} else {
				line += fmt.Sprintf("  len=%d cap=%d", res.Len, res.Cap)
			}
			b.WriteString(doneStyle.Render(line))
		case i == m.next:
			b.WriteString(selectedStyle.Render("> " + formatStep(step)))
		default:
			b.WriteString(stepStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Ad-hoc steps applied through the prompt.
	for _, res := range m.adhoc {
		line := "  " + formatStep(res.Step)
		if res.Err != nil {
			line += "  " + errorStyle.Render(res.Err.Error())
		} else {
			line += fmt.Sprintf("  len=%d cap=%d", res.Len, res.Cap)
		}
		b.WriteString(doneStyle.Render(line))
		b.WriteString("\n")
	}

	if m.typing {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		if m.inputErr != nil {
			b.WriteString(errorStyle.Render(m.inputErr.Error()))
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("enter apply • esc back"))
	} else {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter step • a ad-hoc op • r restart • q quit"))
	}
	b.WriteString("\n")

	return b.String()
}

func runInteractive(scenario *Scenario) error {
	p := tea.NewProgram(newInteractiveModel(scenario), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
