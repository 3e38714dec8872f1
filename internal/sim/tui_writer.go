package sim

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"

	"manetsim/internal/config"
	"manetsim/internal/telemetry"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// movementMsg carries a movement log line and the row for the map view.
type movementMsg struct {
	line string
	row  telemetry.MovementRow
}

// connectivityMsg carries a connectivity log line.
type connectivityMsg struct {
	line string
	row  telemetry.ConnectivityRow
}

// packetMsg carries a packet log line.
type packetMsg struct{ line string }

// progressMsg carries the virtual clock position.
type progressMsg struct {
	now  float64
	stop float64
}

// sweepMsg carries the failure front position, or clears it.
type sweepMsg struct {
	active    bool
	direction string
	position  float64
}

// adminMsg reports admin API status.
type adminMsg struct{ active bool }

const maxSectionHeightPct = 0.2

// TUIWriter renders result rows using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(cfg *config.Config) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	m := newTUIModel(cfg)
	if width, height, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		m.vp.Width = width
		m.connVP.Width = width
		m.height = height
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	w.program = p
	go func() {
		_ = p.Start()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// WriteMovement implements RowWriter.
func (w *TUIWriter) WriteMovement(row telemetry.MovementRow) error {
	line := fmt.Sprintf("%s[t=%.1fs]%s %snode=%s%s %spos=(%.2f,%.2f)%s %sspd=%.2f%s",
		colorGray, row.Time, colorReset,
		colorWhite(), row.Node, colorReset,
		colorGreen, row.X, row.Y, colorReset,
		colorYellow, row.Speed, colorReset)
	w.program.Send(movementMsg{line: line, row: row})
	return nil
}

// WriteConnectivity implements RowWriter.
func (w *TUIWriter) WriteConnectivity(row telemetry.ConnectivityRow) error {
	linkColor := colorRed
	if row.L2Link {
		linkColor = colorGreen
	}
	line := fmt.Sprintf("%s[t=%.1fs]%s %sLINK%s %snode=%s%s %sl2_link=%t%s online=%t",
		colorGray, row.Time, colorReset,
		colorBlue, colorReset,
		colorWhite(), row.Node, colorReset,
		linkColor, row.L2Link, colorReset,
		row.Online)
	w.program.Send(connectivityMsg{line: line, row: row})
	return nil
}

// WritePacket implements RowWriter.
func (w *TUIWriter) WritePacket(row telemetry.PacketRow) error {
	dir := "SEND"
	dirColor := colorYellow
	if row.Received {
		dir = "RECV"
		dirColor = colorCyan
	}
	line := fmt.Sprintf("%s[t=%.2fs]%s %s%s%s %snode=%s%s uid=%d size=%d",
		colorGray, row.Time, colorReset,
		dirColor, dir, colorReset,
		colorWhite(), row.Node, colorReset,
		row.UID, row.Size)
	w.program.Send(packetMsg{line: line})
	return nil
}

// SetProgress updates the virtual clock display.
func (w *TUIWriter) SetProgress(now, stop float64) {
	w.program.Send(progressMsg{now: now, stop: stop})
}

// SetSweep updates the failure front indicator.
func (w *TUIWriter) SetSweep(active bool, direction string, position float64) {
	w.program.Send(sweepMsg{active: active, direction: direction, position: position})
}

// SetAdminStatus updates the admin API indicator.
func (w *TUIWriter) SetAdminStatus(active bool) {
	w.program.Send(adminMsg{active: active})
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type nodeView struct {
	pos    telemetry.Vec3
	spine  bool
	online bool
}

type tuiModel struct {
	cfg          *config.Config
	table        table.Model
	vp           viewport.Model
	connVP       viewport.Model
	logs         []string
	connLogs     []string
	nodes        map[string]nodeView
	now          float64
	stop         float64
	sweepActive  bool
	sweepDir     string
	sweepPos     float64
	admin        bool
	wrap         bool
	autoscroll   bool
	showMap      bool
	help         bool
	header       string
	headerHeight int
	height       int
}

func newTUIModel(cfg *config.Config) tuiModel {
	cols := []table.Column{
		{Title: "Config", Width: 20},
		{Title: "Value", Width: 14},
		{Title: "Config", Width: 20},
		{Title: "Value", Width: 14},
	}
	rows := []table.Row{
		{"Nodes", fmt.Sprintf("%d", cfg.Nodes), "Area (m)", fmt.Sprintf("%.0fx%.0f", cfg.AreaWidth, cfg.AreaHeight)},
		{"Spine", fmt.Sprintf("%.0f%% %s", cfg.SpinePercent, cfg.SpineStrategy), "Channel (MHz)", fmt.Sprintf("%d", cfg.ChannelWidthMHz)},
		{"Environment", string(cfg.Environment), "Scenario", string(cfg.Scenario)},
		{"Sampling", cfg.SamplingFreq.String(), "Warmup/Duration", fmt.Sprintf("%s/%s", cfg.WarmupTime, cfg.SimulationTime)},
	}
	t := table.New(table.WithColumns(cols), table.WithRows(rows), table.WithHeight(len(rows)+1))
	return tuiModel{
		cfg:        cfg,
		table:      t,
		vp:         viewport.New(0, 0),
		connVP:     viewport.New(0, 0),
		nodes:      make(map[string]nodeView),
		autoscroll: true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.vp.Width = msg.Width
		m.connVP.Width = msg.Width
		m.height = msg.Height
		m.header = m.renderHeader()
		m.headerHeight = lipgloss.Height(m.header)
		m.updateViewportHeight()
		m.refreshViewport()
		m.refreshConnectivity()
	case tea.KeyMsg:
		if m.help {
			switch msg.String() {
			case "?", "h", "esc":
				m.help = false
				m.updateViewportHeight()
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
			return m, nil
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
				m.connVP.GotoBottom()
			}
			return m, nil
		case "m":
			m.showMap = !m.showMap
			m.updateViewportHeight()
			return m, nil
		case "h", "?":
			m.help = !m.help
			m.updateViewportHeight()
			return m, nil
		}
		if !m.autoscroll {
			switch msg.String() {
			case "j", "down":
				m.vp.LineDown(1)
				m.connVP.LineDown(1)
			case "k", "up":
				m.vp.LineUp(1)
				m.connVP.LineUp(1)
			case "pgdown", "ctrl+n":
				m.vp.LineDown(10)
				m.connVP.LineDown(10)
			case "pgup", "ctrl+p":
				m.vp.LineUp(10)
				m.connVP.LineUp(10)
			default:
				var cmd tea.Cmd
				m.vp, cmd = m.vp.Update(msg)
				m.connVP, _ = m.connVP.Update(msg)
				return m, cmd
			}
			return m, nil
		}
		return m, nil
	case movementMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > 1000 {
			m.logs = m.logs[len(m.logs)-1000:]
		}
		nv := m.nodes[msg.row.Node]
		nv.pos = telemetry.Vec3{X: msg.row.X, Y: msg.row.Y, Z: msg.row.Z}
		nv.spine = strings.HasSuffix(msg.row.Node, "S")
		m.nodes[msg.row.Node] = nv
		m.refreshViewport()
	case connectivityMsg:
		m.connLogs = append(m.connLogs, msg.line)
		if len(m.connLogs) > 1000 {
			m.connLogs = m.connLogs[len(m.connLogs)-1000:]
		}
		nv := m.nodes[msg.row.Node]
		nv.online = msg.row.Online
		m.nodes[msg.row.Node] = nv
		m.updateViewportHeight()
		m.refreshConnectivity()
		m.refreshViewport()
	case packetMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > 1000 {
			m.logs = m.logs[len(m.logs)-1000:]
		}
		m.refreshViewport()
	case progressMsg:
		m.now = msg.now
		m.stop = msg.stop
	case sweepMsg:
		m.sweepActive = msg.active
		m.sweepDir = msg.direction
		m.sweepPos = msg.position
	case adminMsg:
		m.admin = msg.active
	}
	return m, nil
}

func (m *tuiModel) updateViewportHeight() {
	bottomHeight := lipgloss.Height(m.renderBottom())

	maxLines := m.maxSectionLines()
	connLines := len(m.connLogs)
	if connLines == 0 {
		connLines = 1
	}
	if connLines > maxLines {
		connLines = maxLines
	}
	m.connVP.Height = connLines

	h := m.height - m.headerHeight - bottomHeight - m.connVP.Height - 5
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.vp.GotoBottom()
		m.connVP.GotoBottom()
	}
}

func (m *tuiModel) refreshViewport() {
	var lines []string
	for _, l := range m.logs {
		if m.wrap {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshConnectivity() {
	content := "none"
	if len(m.connLogs) > 0 {
		content = strings.Join(m.connLogs, "\n")
	}
	m.connVP.SetContent(content)
	if m.autoscroll {
		m.connVP.GotoBottom()
	}
}

func (m tuiModel) maxSectionLines() int {
	h := int(float64(m.height) * maxSectionHeightPct)
	if h < 1 {
		h = 1
	}
	return h
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	bottom := m.renderBottom()
	divider := strings.Repeat("─", m.vp.Width)
	if m.showMap {
		sections := []string{
			m.header,
			divider,
			m.renderMap(),
			divider,
			bottom,
		}
		return strings.Join(sections, "\n")
	}
	sections := []string{
		m.header,
		divider,
		m.vp.View(),
		divider,
		"Connectivity:",
		m.connVP.View(),
		divider,
		bottom,
	}
	return strings.Join(sections, "\n")
}

func (m tuiModel) renderHeader() string {
	return m.table.View()
}

func (m tuiModel) renderBottom() string {
	adminColor := lipgloss.Color("9")
	if m.admin {
		adminColor = lipgloss.Color("10")
	}
	wrapColor := lipgloss.Color("9")
	if m.wrap {
		wrapColor = lipgloss.Color("10")
	}
	scrollColor := lipgloss.Color("10")
	if !m.autoscroll {
		scrollColor = lipgloss.Color("9")
	}
	adminIndicator := lipgloss.NewStyle().Foreground(adminColor).Render("●")
	wrapIndicator := lipgloss.NewStyle().Foreground(wrapColor).Render("●")
	scrollIndicator := lipgloss.NewStyle().Foreground(scrollColor).Render("●")

	online := 0
	for _, n := range m.nodes {
		if n.online {
			online++
		}
	}
	state := fmt.Sprintf("%sCLOCK%s %st=%.1fs/%.1fs%s %sonline=%d/%d%s",
		colorBlue, colorReset,
		colorGreen, m.now, m.stop, colorReset,
		colorCyan, online, len(m.nodes), colorReset)
	if m.sweepActive {
		state += fmt.Sprintf(" %ssweep=%s@%.1fm%s", colorRed, m.sweepDir, m.sweepPos, colorReset)
	}
	return fmt.Sprintf("%s | Admin %s | Wrap %s | Scroll %s", state, adminIndicator, wrapIndicator, scrollIndicator)
}

func (m tuiModel) renderHelp() string {
	lines := []string{
		"Key Bindings:",
		" q  quit",
		" w  toggle wrap for log lines",
		" s  toggle auto-scroll",
		" m  toggle area map",
		" h/? toggle this help view",
		"",
		"When auto-scroll is disabled:",
		" j/k or up/down    scroll one line",
		" pgdown/pgup       scroll a page",
	}
	return strings.Join(lines, "\n")
}

func (m tuiModel) renderMap() string {
	width := m.vp.Width
	bottomHeight := lipgloss.Height(m.renderBottom())
	mapHeight := m.height - m.headerHeight - bottomHeight - 4
	if mapHeight < 1 {
		mapHeight = 1
	}
	if len(m.nodes) == 0 {
		return "No position data"
	}
	grid := make([][]string, mapHeight)
	for i := range grid {
		row := make([]string, width)
		for j := range row {
			row[j] = "."
		}
		grid[i] = row
	}
	if m.sweepActive && m.cfg != nil {
		switch m.sweepDir {
		case "E", "W":
			x := int(m.sweepPos / m.cfg.AreaWidth * float64(width-1))
			if x >= 0 && x < width {
				for y := 0; y < mapHeight; y++ {
					grid[y][x] = fmt.Sprintf("%s|%s", colorRed, colorReset)
				}
			}
		case "N", "S":
			y := int((m.cfg.AreaHeight - m.sweepPos) / m.cfg.AreaHeight * float64(mapHeight-1))
			if y >= 0 && y < mapHeight {
				for x := 0; x < width; x++ {
					grid[y][x] = fmt.Sprintf("%s-%s", colorRed, colorReset)
				}
			}
		}
	}
	for _, n := range m.nodes {
		if m.cfg == nil || m.cfg.AreaWidth <= 0 || m.cfg.AreaHeight <= 0 {
			break
		}
		x := int(n.pos.X / m.cfg.AreaWidth * float64(width-1))
		y := int((m.cfg.AreaHeight - n.pos.Y) / m.cfg.AreaHeight * float64(mapHeight-1))
		if y < 0 || y >= mapHeight || x < 0 || x >= width {
			continue
		}
		sym := "o"
		col := colorGreen
		if n.spine {
			sym = "O"
			col = colorCyan
		}
		if !n.online {
			sym = "x"
			col = colorRed
		}
		grid[y][x] = fmt.Sprintf("%s%s%s", col, sym, colorReset)
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("area %.0fm x %.0fm N↑\n", m.cfg.AreaWidth, m.cfg.AreaHeight))
	for _, row := range grid {
		b.WriteString(strings.Join(row, ""))
		b.WriteByte('\n')
	}
	legend := []string{
		fmt.Sprintf("%sO%s=spine", colorCyan, colorReset),
		fmt.Sprintf("%so%s=node", colorGreen, colorReset),
		fmt.Sprintf("%sx%s=offline", colorRed, colorReset),
	}
	if m.sweepActive {
		legend = append(legend, fmt.Sprintf("%s|%s=sweep_front", colorRed, colorReset))
	}
	b.WriteString(strings.Join(legend, " "))
	return b.String()
}
