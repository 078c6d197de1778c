// Package tui provides the Bubble Tea dashboard interface.
package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stridelab/stridex/internal/report"
	"github.com/stridelab/stridex/internal/state"
	"github.com/stridelab/stridex/internal/view"
)

const (
	tabSensors = iota
	tabInsole
	tabMeta
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#3AA8C8"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	subjectStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea dashboard.
type Model struct {
	st   *state.Store
	plan view.RenderPlan

	tabs      []string
	activeTab int
	viewports []viewport.Model
	metaTable table.Model

	width  int
	height int
}

// NewModel constructs a dashboard model over an already populated
// selection store.
func NewModel(st *state.Store) *Model {
	m := &Model{
		st:   st,
		tabs: []string{"Sensors", "Insole", "Meta & Labels"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.metaTable = table.New(
		table.WithColumns(metaColumns(0)),
		table.WithHeight(1),
	)
	m.metaTable.SetStyles(metaTableStyles())
	if m.st.CurrentID() == "" {
		ids := m.st.IDs()
		if len(ids) > 0 {
			m.st.Select(ids[0])
		}
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		if m.activeTab == tabMeta {
			m.metaTable.Focus()
		} else {
			m.metaTable.Blur()
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "[":
			m.moveSubject(-1)
			return m, nil
		case "]":
			m.moveSubject(1)
			return m, nil
		case "-":
			m.st.SelectDay(m.st.DayIndex() - 1)
			m.refresh()
			return m, nil
		case "=":
			m.st.SelectDay(m.st.DayIndex() + 1)
			m.refresh()
			return m, nil
		case "g", "home":
			if m.activeTab == tabMeta {
				m.metaTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabMeta {
				m.metaTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabMeta {
				var cmd tea.Cmd
				m.metaTable, cmd = m.metaTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.metaTable.SetWidth(m.width)
	m.metaTable.SetHeight(maxInt(1, bodyHeight-1))
	m.metaTable.SetColumns(metaColumns(m.width))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabMeta {
		m.metaTable.Focus()
	} else {
		m.metaTable.Blur()
	}
}

func (m *Model) moveSubject(delta int) {
	ids := m.st.IDs()
	if len(ids) == 0 {
		return
	}
	current := m.st.CurrentID()
	index := 0
	for i, id := range ids {
		if id == current {
			index = i
			break
		}
	}
	index += delta
	if index < 0 {
		index = len(ids) - 1
	}
	if index >= len(ids) {
		index = 0
	}
	m.st.Select(ids[index])
	m.refresh()
}

func (m *Model) refresh() {
	m.plan = view.Project(m.st)
	m.metaTable.SetRows(metaRows(m.plan))
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabSensors].SetContent(renderSensors(m.plan, width))
	m.viewports[tabInsole].SetContent(renderInsole(m.plan, width))
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	subject := padLines(m.renderSubjectLine(), m.width)
	return tabs + "\n" + subject
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderSubjectLine() string {
	if !m.plan.Available {
		return headerStyle.Render("No subjects loaded.")
	}
	position := ""
	ids := m.st.IDs()
	for i, id := range ids {
		if id == m.plan.SubjectID {
			position = fmt.Sprintf(" (%d/%d)", i+1, len(ids))
			break
		}
	}
	line := subjectStyle.Render("Subject "+m.plan.SubjectID) + headerStyle.Render(position)
	if len(m.plan.Sensors) > 0 {
		line += headerStyle.Render("  sensors: " + strings.Join(m.plan.Sensors, ", "))
	}
	if day := activeDayLabel(m.plan.Insole); day != "" {
		line += headerStyle.Render("  " + day)
	}
	return truncateLine(line, m.width)
}

func (m *Model) renderBody() string {
	_, bodyHeight, _ := m.layoutHeights()
	if m.activeTab == tabMeta {
		if len(m.metaTable.Rows()) == 0 {
			return fitLines("No meta or labels.", m.width, bodyHeight)
		}
		return fitLines(tableMutedStyle.Render(m.metaTable.View()), m.width, bodyHeight)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, bodyHeight)
}

func (m *Model) renderFooter() string {
	help := "Tabs: left/right  Subject: [/]  Day: -/=  Scroll: up/down  Quit: q"
	return headerStyle.Render(truncateLine(help, m.width))
}

func renderSensors(plan view.RenderPlan, width int) string {
	if !plan.Available {
		return "No subjects loaded."
	}
	var buf bytes.Buffer
	if err := report.RenderSensors(&buf, plan, width); err != nil {
		return fmt.Sprintf("Failed to render sensors: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderInsole(plan view.RenderPlan, width int) string {
	if !plan.Available {
		return "No subjects loaded."
	}
	var buf bytes.Buffer
	if err := report.RenderInsole(&buf, plan.Insole, width); err != nil {
		return fmt.Sprintf("Failed to render insole: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func activeDayLabel(insole view.InsolePlan) string {
	if insole.ActiveDay < 0 || insole.ActiveDay >= len(insole.Days) {
		return ""
	}
	return insole.Days[insole.ActiveDay]
}

func metaColumns(width int) []table.Column {
	keyWidth := 24
	valueWidth := maxInt(20, width-keyWidth-12)
	return []table.Column{
		{Title: "Section", Width: 8},
		{Title: "Key", Width: keyWidth},
		{Title: "Value", Width: valueWidth},
	}
}

func metaRows(plan view.RenderPlan) []table.Row {
	rows := make([]table.Row, 0, len(plan.Meta)+len(plan.Labels))
	for _, kv := range plan.Meta {
		rows = append(rows, table.Row{"meta", kv.Key, kv.Value})
	}
	for _, kv := range plan.Labels {
		rows = append(rows, table.Row{"label", kv.Key, kv.Value})
	}
	return rows
}

func metaTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)) > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}
