package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ergc/internal/builddriver"
)

// progressModel renders a live view of a build driver's per-module
// lifecycle, grounded on the teacher's internal/ui.progressModel: a spinner
// plus title header, one status line per module discovered so far, and an
// aggregate progress bar. Unlike the teacher's request-shaped model, the
// file list isn't known up front — modules are appended to items as their
// first builddriver.Event arrives, since imports are discovered lazily.
type progressModel struct {
	title   string
	events  <-chan builddriver.Event
	spinner spinner.Model
	prog    progress.Model
	items   []moduleItem
	index   map[string]int
	done    bool
}

type moduleItem struct {
	path  string
	stage builddriver.Stage
}

type moduleEventMsg builddriver.Event
type moduleDoneMsg struct{}

// newProgressModel returns a Bubble Tea model rendering events as they
// arrive on the channel. Call close(events) once the build finishes so the
// model can stop and let tea.Program.Run return.
func newProgressModel(title string, events <-chan builddriver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 60

	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		index:   make(map[string]int),
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case moduleEventMsg:
		cmd := m.applyEvent(builddriver.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case moduleDoneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		updated, cmd := m.prog.Update(msg)
		m.prog = updated.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	for _, item := range m.items {
		status := stageLabel(item.stage)
		b.WriteString(fmt.Sprintf("  %s %s\n", stageStyle(item.stage).Render(fmt.Sprintf("%10s", status)), item.path))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return moduleDoneMsg{}
		}
		return moduleEventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev builddriver.Event) tea.Cmd {
	idx, ok := m.index[ev.Path]
	if !ok {
		idx = len(m.items)
		m.index[ev.Path] = idx
		m.items = append(m.items, moduleItem{path: ev.Path})
	}
	m.items[idx].stage = ev.Stage

	finished := 0
	for _, it := range m.items {
		if it.stage == builddriver.StageDone || it.stage == builddriver.StageFailed {
			finished++
		}
	}
	var pct float64
	if len(m.items) > 0 {
		pct = float64(finished) / float64(len(m.items))
	}
	return m.prog.SetPercent(pct)
}

func stageLabel(stage builddriver.Stage) string {
	switch stage {
	case builddriver.StageResolving:
		return "queued"
	case builddriver.StageCompiling:
		return "compiling"
	case builddriver.StageDone:
		return "done"
	case builddriver.StageFailed:
		return "error"
	default:
		return ""
	}
}

func stageStyle(stage builddriver.Stage) lipgloss.Style {
	switch stage {
	case builddriver.StageDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case builddriver.StageFailed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case builddriver.StageCompiling:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

// runCheckWithProgress runs loadParseAndLowerWithProgress while a Bubble
// Tea program renders the driver's events live, grounded on the teacher's
// cmd/surge/ui_runner.go runBuildWithUI: the pipeline runs on its own
// goroutine writing into a buffered event channel, and the foreground
// goroutine only drives the TUI program until that channel closes.
func runCheckWithProgress(path string, maxDiagnostics int, title string) (*checkResult, error) {
	events := make(chan builddriver.Event, 256)
	type outcome struct {
		cr  *checkResult
		err error
	}
	outcomeCh := make(chan outcome, 1)

	go func() {
		cr, err := loadParseAndLowerWithProgress(path, maxDiagnostics, builddriver.ChannelSink{Ch: events})
		outcomeCh <- outcome{cr: cr, err: err}
		close(events)
	}()

	program := tea.NewProgram(newProgressModel(title, events))
	_, uiErr := program.Run()
	res := <-outcomeCh
	if res.err != nil {
		return nil, res.err
	}
	if uiErr != nil {
		return nil, fmt.Errorf("progress view: %w", uiErr)
	}
	return res.cr, nil
}
