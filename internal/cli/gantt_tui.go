package cli

import (
	"context"
	"fmt"
	"strings"

	core "github.com/alexanderramin/gantt/internal/app"
	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/timeline"
	"github.com/alexanderramin/gantt/internal/tree"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	ganttLabelWidth = 32
	// scrollStep is how many timeline columns left/right moves.
	scrollStep = 8
)

type ganttKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	Left        key.Binding
	Right       key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	Today       key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Refresh     key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultGanttKeys() ganttKeyMap {
	return ganttKeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand/collapse")),
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "earlier")),
		Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "later")),
		ZoomIn:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:     key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		Today:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		ExpandAll:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand all")),
		CollapseAll: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "collapse all")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k ganttKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.ZoomIn, k.ZoomOut, k.Left, k.Right, k.Help, k.Quit}
}

func (k ganttKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.Left, k.Right, k.Today},
		{k.ZoomIn, k.ZoomOut, k.Refresh},
		{k.ExpandAll, k.CollapseAll, k.Quit},
	}
}

type ganttLoadedMsg struct {
	resp *core.GanttResponse
	err  error
}

// ganttModel is the interactive chart viewer. Expand state lives here and
// is sent with every reload; the date axis comes back unchanged so the
// scroll offset stays meaningful.
type ganttModel struct {
	ctx    context.Context
	gantt  core.GanttUseCase
	req    core.GanttRequest
	expand *tree.ExpandState

	resp    *core.GanttResponse
	err     error
	loading bool

	cursor int
	// top is the first visible row.
	top    int
	offset int
	width  int
	height int

	keys ganttKeyMap
	help help.Model
}

func newGanttModel(ctx context.Context, gantt core.GanttUseCase, req core.GanttRequest) *ganttModel {
	return &ganttModel{
		ctx:     ctx,
		gantt:   gantt,
		req:     req,
		expand:  tree.NewExpandState(req.Collapsed...),
		loading: true,
		width:   120,
		height:  30,
		keys:    defaultGanttKeys(),
		help:    help.New(),
	}
}

func (m *ganttModel) Init() tea.Cmd {
	return m.load()
}

func (m *ganttModel) load() tea.Cmd {
	req := m.req
	req.Collapsed = m.expand.CollapsedIDs()
	return func() tea.Msg {
		resp, err := m.gantt.Gantt(m.ctx, req)
		return ganttLoadedMsg{resp: resp, err: err}
	}
}

func (m *ganttModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.clamp()
		return m, nil

	case ganttLoadedMsg:
		first := m.resp == nil
		m.loading = false
		m.resp, m.err = msg.resp, msg.err
		if first && m.resp != nil {
			m.scrollToToday()
		}
		m.clamp()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *ganttModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.cursor--
	case key.Matches(msg, m.keys.Down):
		m.cursor++
	case key.Matches(msg, m.keys.Left):
		m.offset -= scrollStep
	case key.Matches(msg, m.keys.Right):
		m.offset += scrollStep
	case key.Matches(msg, m.keys.Today):
		m.scrollToToday()
	case key.Matches(msg, m.keys.Toggle):
		if n := m.currentNode(); n != nil && n.HasChildren() {
			m.expand.Toggle(n.ID())
			return m, m.reload()
		}
	case key.Matches(msg, m.keys.ExpandAll):
		m.expand.ExpandAll()
		return m, m.reload()
	case key.Matches(msg, m.keys.CollapseAll):
		m.collapseAll()
		m.cursor = 0
		return m, m.reload()
	case key.Matches(msg, m.keys.ZoomIn):
		return m, m.setZoom(timeline.ZoomIn(m.req.Zoom))
	case key.Matches(msg, m.keys.ZoomOut):
		return m, m.setZoom(timeline.ZoomOut(m.req.Zoom))
	case key.Matches(msg, m.keys.Refresh):
		return m, m.reload()
	}
	m.clamp()
	return m, nil
}

func (m *ganttModel) reload() tea.Cmd {
	m.loading = true
	return m.load()
}

// setZoom keeps the date at the left edge in view across zoom levels.
func (m *ganttModel) setZoom(z timeline.Zoom) tea.Cmd {
	if z == m.req.Zoom {
		return nil
	}
	if m.resp != nil {
		oldDW := timeline.DayWidth(m.req.Zoom)
		day := m.offset * formatter.PixelsPerCell / oldDW
		m.offset = day * timeline.DayWidth(z) / formatter.PixelsPerCell
	}
	m.req.Zoom = z
	return m.reload()
}

func (m *ganttModel) collapseAll() {
	if m.resp == nil {
		return
	}
	var walk func(n *tree.Node)
	walk = func(n *tree.Node) {
		if n.HasChildren() {
			m.expand.Collapse(n.ID())
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, row := range m.resp.Chart.Rows {
		walk(row.Node)
	}
}

func (m *ganttModel) currentNode() *tree.Node {
	if m.resp == nil || m.cursor < 0 || m.cursor >= len(m.resp.Chart.Rows) {
		return nil
	}
	return m.resp.Chart.Rows[m.cursor].Node
}

func (m *ganttModel) scrollToToday() {
	if m.resp == nil || m.resp.Chart.TodayX == nil {
		return
	}
	m.offset = *m.resp.Chart.TodayX/formatter.PixelsPerCell - m.timelineWidth()/4
}

func (m *ganttModel) timelineWidth() int {
	return max(m.width-ganttLabelWidth-1, 10)
}

// visibleRows is the number of chart rows that fit between the header and
// the help line.
func (m *ganttModel) visibleRows() int {
	return max(m.height-5, 1)
}

func (m *ganttModel) clamp() {
	if m.resp == nil {
		m.cursor, m.top, m.offset = 0, 0, 0
		return
	}
	rows := len(m.resp.Chart.Rows)
	m.cursor = min(max(m.cursor, 0), max(rows-1, 0))

	if m.cursor < m.top {
		m.top = m.cursor
	}
	if vis := m.visibleRows(); m.cursor >= m.top+vis {
		m.top = m.cursor - vis + 1
	}

	cols := m.resp.Chart.TotalWidth / formatter.PixelsPerCell
	m.offset = min(max(m.offset, 0), max(cols-m.timelineWidth(), 0))
}

func (m *ganttModel) View() string {
	var b strings.Builder

	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	case m.resp == nil:
		b.WriteString(formatter.Dim("Loading…") + "\n")
	default:
		c := m.resp.Chart
		title := fmt.Sprintf("%s  %s  %s  %d/%d rows",
			formatter.Bold(m.resp.Project.Name),
			formatter.Dim(m.resp.Project.DisplayID()),
			formatter.StyleYellow.Render(string(c.Zoom)),
			len(c.Rows), m.resp.TaskCount)
		if m.loading {
			title += formatter.Dim("  …")
		}
		b.WriteString(title + "\n")

		chart := formatter.RenderGantt(m.resp, formatter.GanttOptions{
			LabelWidth: ganttLabelWidth,
			Width:      m.timelineWidth(),
			Offset:     m.offset,
			Cursor:     m.cursor,
		})
		lines := strings.Split(strings.TrimRight(chart, "\n"), "\n")
		b.WriteString(lines[0] + "\n")
		if len(c.Rows) == 0 {
			b.WriteString(strings.Join(lines[1:], "\n") + "\n")
		} else {
			end := min(m.top+m.visibleRows(), len(c.Rows))
			for _, l := range lines[1+m.top : 1+end] {
				b.WriteString(l + "\n")
			}
		}
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}
