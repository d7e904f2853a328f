package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/sysreport/internal/monitor"
)

// Model renders the most recent monitor cycle.
type Model struct {
	latest    monitor.Cycle
	seen      bool
	stream    <-chan monitor.Cycle
	ctxCancel context.CancelFunc
	width     int
	height    int
}

func New(stream <-chan monitor.Cycle, cancel context.CancelFunc) *Model {
	return &Model{
		stream:    stream,
		ctxCancel: cancel,
		width:     120,
		height:    40,
	}
}

// Messages
type (
	tickMsg struct{}
)

func tickCmd() tea.Cmd { return tea.Tick(time.Second/5, func(time.Time) tea.Msg { return tickMsg{} }) }

func (m *Model) Init() tea.Cmd { return tickCmd() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.ctxCancel()
			return m, tea.Quit
		}
	case tickMsg:
		select {
		case c, ok := <-m.stream:
			if !ok {
				return m, tea.Quit
			}
			m.latest = c
			m.seen = true
		default:
		}
		return m, tickCmd()
	}
	return m, nil
}

// Styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	gaugeFill   = "█"
	gaugeEmpty  = "░"
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1).
			MarginRight(1)
)

func (m *Model) View() string {
	if !m.seen {
		return titleStyle.Render("sysreport") + "  " + subtleStyle.Render("collecting first sample… (q to quit)")
	}
	c := m.latest
	s := c.Sample
	header := titleStyle.Render("sysreport") + "  " +
		subtleStyle.Render(fmt.Sprintf("cycle %d  %s", c.Seq, s.Timestamp.Format("Mon Jan 2 15:04:05 MST 2006")))

	cpuCard := card("CPU", gaugeBar(s.CPU, 28))
	memCard := card("Memory",
		fmt.Sprintf("%s  %.2f/%.2f GB",
			gaugeBar(s.Memory.Percent, 28), s.Memory.UsedGB(), s.Memory.TotalGB()))

	diskRows := make([]string, 0, len(s.Disks))
	for _, d := range s.Disks {
		diskRows = append(diskRows, fmt.Sprintf("%-18s %s", truncate(d.MountPoint, 18), gaugeBar(d.Percent, 20)))
	}
	if len(diskRows) == 0 {
		diskRows = append(diskRows, subtleStyle.Render("no partitions"))
	}
	diskCard := card("Disks", strings.Join(diskRows, "\n"))

	topTable := card("Top CPU", renderTable(c))

	alertBody := subtleStyle.Render("none")
	if len(c.Alerts) > 0 {
		lines := make([]string, 0, len(c.Alerts))
		for _, a := range c.Alerts {
			lines = append(lines, alertStyle.Render(a))
		}
		alertBody = strings.Join(lines, "\n")
	}
	alertCard := card("Alerts", alertBody)

	footer := subtleStyle.Render("report: " + c.Path + "   q to quit")

	line1 := lipgloss.JoinHorizontal(lipgloss.Top, cpuCard, memCard)
	line2 := lipgloss.JoinHorizontal(lipgloss.Top, diskCard, topTable)

	return lipgloss.JoinVertical(lipgloss.Left, header, line1, line2, alertCard, footer)
}

// Helpers
func gaugeBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int((pct / 100) * float64(width))
	if filled > width {
		filled = width
	}
	return fmt.Sprintf("[%s%s] %5.1f%%",
		strings.Repeat(gaugeFill, filled),
		strings.Repeat(gaugeEmpty, width-filled),
		pct)
}

func card(title, body string) string {
	titleStr := labelStyle.Render(title)
	content := titleStr + "\n" + body
	return cardStyle.Render(content)
}

func renderTable(c monitor.Cycle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-18s %-7s %-6s\n", "name", "pid", "cpu")
	for _, p := range c.Sample.Top {
		fmt.Fprintf(&b, "%-18s %-7d %6.1f\n", truncate(p.Name, 18), p.PID, p.CPU)
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// RunTUI runs r in the background and shows each cycle until the user quits or r stops.
// r.Out and r.Sink are replaced.
func RunTUI(ctx context.Context, r *monitor.Runner) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream := make(chan monitor.Cycle, 1)
	r.Out = nil
	r.Sink = func(c monitor.Cycle) {
		// keep only the newest cycle if the view falls behind
		select {
		case <-stream:
		default:
		}
		stream <- c
	}

	prog := tea.NewProgram(New(stream, cancel), tea.WithAltScreen(), tea.WithContext(ctx))

	errCh := make(chan error, 1)
	go func() {
		err := r.Run(ctx)
		close(stream)
		errCh <- err
	}()

	_, uiErr := prog.Run()
	stopped := ctx.Err() != nil
	cancel()
	if runErr := <-errCh; runErr != nil {
		return runErr
	}
	if uiErr != nil && !stopped {
		return uiErr
	}
	return nil
}
