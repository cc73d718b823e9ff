// Package tui is an interactive viewer for check results: the
// diagnostics, symbol table, syntax tree and source of one file.
package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olympiac-lang/olympiac/compiler"
	"github.com/olympiac-lang/olympiac/compiler/ast"
	"github.com/olympiac-lang/olympiac/compiler/diag"
)

type (
	// Model is the bubbletea model. It is fed a finished result and
	// only navigates it, no stage runs from inside the ui.
	Model struct {
		res *compiler.Result

		width  int
		height int
		ready  bool

		viewport viewport.Model

		section   int
		showErrs  bool
		showWarns bool
	}
)

const (
	sectionDiags = iota
	sectionSymbols
	sectionTree
	sectionTrail
	sectionSource

	sectionCount
)

var sectionNames = []string{"diagnostics", "symbols", "tree", "trail", "source"}

// New creates a viewer over res.
func New(res *compiler.Result) Model {
	return Model{
		res:       res,
		showErrs:  true,
		showWarns: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		footerHeight := 2
		vpHeight := msg.Height - headerHeight - footerHeight - 2

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = vpHeight
		}

		m.setContent()
	}

	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyTab:
		m.section = (m.section + 1) % sectionCount
		m.setContent()
		m.viewport.GotoTop()

		return m, nil

	case tea.KeyShiftTab:
		m.section = (m.section + sectionCount - 1) % sectionCount
		m.setContent()
		m.viewport.GotoTop()

		return m, nil

	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			return m, tea.Quit
		case "e":
			m.showErrs = !m.showErrs
			m.setContent()

			return m, nil
		case "w":
			m.showWarns = !m.showWarns
			m.setContent()

			return m, nil
		case "g":
			m.viewport.GotoTop()
			return m, nil
		case "G":
			m.viewport.GotoBottom()
			return m, nil
		case "1", "2", "3", "4", "5":
			n := int(msg.Runes[0] - '1')
			if n < sectionCount {
				m.section = n
				m.setContent()
				m.viewport.GotoTop()
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(panelStyle.Width(m.width - 2).Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("olympiac")
	file := lineStyle.Render(m.res.File)

	errs := m.res.Errors().Count(diag.Error)

	var status string
	if errs == 0 {
		status = okStyle.Render("ok")
	} else {
		status = errorStyle.Render(strconv.Itoa(errs) + " errors")
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", file, "  ", status)
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(sectionNames))

	for i, name := range sectionNames {
		label := strconv.Itoa(i+1) + ":" + name

		if i == m.section {
			tabs[i] = tabActiveStyle.Render(label)
		} else {
			tabs[i] = tabStyle.Render(label)
		}
	}

	bar := strings.Join(tabs, "  ")

	if m.section == sectionDiags {
		bar += "   " + filterMark("errors", m.showErrs) + " " + filterMark("warnings", m.showWarns)
	}

	return bar
}

func (m Model) renderHelp() string {
	items := []string{
		keyHint("tab/1-5", "section"),
		keyHint("e/w", "filter"),
		keyHint("g/G", "top/bottom"),
		keyHint("q", "quit"),
	}

	return helpStyle.Render(strings.Join(items, "  "))
}

func (m *Model) setContent() {
	var content string

	switch m.section {
	case sectionDiags:
		content = m.diagsContent()
	case sectionSymbols:
		content = m.symbolsContent()
	case sectionTree:
		content = m.treeContent()
	case sectionTrail:
		content = m.trailContent()
	case sectionSource:
		content = m.sourceContent()
	}

	if content == "" {
		content = helpStyle.Render("(empty)")
	}

	m.viewport.SetContent(content)
}

func (m *Model) diagsContent() string {
	var b strings.Builder

	syntax := append(diag.List{}, m.res.ScanErrs...)
	if m.res.Tree != nil {
		syntax = append(syntax, m.res.Tree.Diags...)
	}

	m.diagSection(&b, "syntax", syntax)

	if m.res.Verify != nil {
		m.diagSection(&b, "semantic", m.res.Verify.Errs)
	}

	return b.String()
}

func (m *Model) diagSection(b *strings.Builder, name string, ds diag.List) {
	shown := 0

	for _, d := range ds {
		if d.Severity == diag.Error && !m.showErrs {
			continue
		}

		if d.Severity == diag.Warning && !m.showWarns {
			continue
		}

		if shown == 0 {
			b.WriteString(posStyle.Render(name + ":"))
			b.WriteString("\n")
		}

		shown++

		badge := errorStyle.Render("[error]")
		if d.Severity == diag.Warning {
			badge = warnStyle.Render("[warn] ")
		}

		pos := strconv.Itoa(d.Line)
		if d.Col != 0 {
			pos += ":" + strconv.Itoa(d.Col)
		}

		b.WriteString("  " + badge + " " + lineStyle.Render(d.Msg) + " " + posStyle.Render("("+pos+")"))
		b.WriteString("\n")
	}

	if shown != 0 {
		b.WriteString("\n")
	}
}

func (m *Model) symbolsContent() string {
	if m.res.Verify == nil || m.res.Verify.Table == nil {
		return ""
	}

	var b strings.Builder

	for _, sc := range m.res.Verify.Table.Snapshot() {
		b.WriteString(titleStyle.Render("scope " + strconv.Itoa(sc.Level)))
		b.WriteString("\n")

		if len(sc.Entries) == 0 {
			b.WriteString(posStyle.Render("  (empty)"))
			b.WriteString("\n")
		}

		for _, e := range sc.Entries {
			b.WriteString("  " + lineStyle.Render(e.Name) + " " + posStyle.Render(e.Type+" (line "+strconv.Itoa(e.Line)+")"))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m *Model) treeContent() string {
	if m.res.Tree == nil {
		return ""
	}

	return ast.Dump(m.res.Tree)
}

func (m *Model) trailContent() string {
	if m.res.Verify == nil {
		return ""
	}

	var b strings.Builder

	for i, s := range m.res.Verify.Trail {
		b.WriteString(titleStyle.Render("#" + strconv.Itoa(i) + " line " + strconv.Itoa(s.Line)))
		b.WriteString(" " + posStyle.Render(s.Kind))
		b.WriteString("\n")

		for _, sc := range s.Table {
			for _, e := range sc.Entries {
				b.WriteString("  " + lineStyle.Render(e.Name) + " " + posStyle.Render(e.Type))
				b.WriteString("\n")
			}
		}

		b.WriteString("\n")
	}

	return b.String()
}

func (m *Model) sourceContent() string {
	if len(m.res.Text) == 0 {
		return ""
	}

	var b strings.Builder

	for i, line := range strings.Split(string(m.res.Text), "\n") {
		b.WriteString(posStyle.Render(pad(i+1)) + " " + lineStyle.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}

func pad(n int) string {
	s := strconv.Itoa(n)

	for len(s) < 4 {
		s = " " + s
	}

	return s
}

// Run opens the viewer and blocks until the user quits.
func Run(res *compiler.Result) error {
	p := tea.NewProgram(New(res), tea.WithAltScreen())

	_, err := p.Run()

	return err
}
