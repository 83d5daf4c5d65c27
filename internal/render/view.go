package render

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/posereplay/internal/mocap"
	"github.com/san-kum/posereplay/internal/robot"
	"github.com/san-kum/posereplay/internal/terminal"
)

const (
	canvasWidth    = 60
	canvasHeight   = 24
	heightCapacity = 120
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	runStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88")).Bold(true)
	pauseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffaa00")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type sceneMsg struct{ model *robot.Model }

type poseMsg struct {
	q        mocap.Configuration
	skeleton *robot.Skeleton
}

// view is the bubbletea model behind Terminal.
type view struct {
	modelName string
	dof       int
	q         mocap.Configuration
	skeleton  *robot.Skeleton
	frames    int
	heights   []float64
	canvas    *Canvas
	camera    *Camera
	keys      *terminal.Keys
	paused    func() bool
	interval  func() time.Duration
	interrupt func()
	total     int
}

func newView(opts TerminalOptions) view {
	return view{
		canvas:    NewCanvas(canvasWidth, canvasHeight),
		camera:    NewCamera(),
		keys:      opts.Keys,
		paused:    opts.Paused,
		interval:  opts.Interval,
		interrupt: opts.Interrupt,
		total:     opts.Total,
		heights:   make([]float64, 0, heightCapacity),
	}
}

func (m view) Init() tea.Cmd { return nil }

func (m view) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sceneMsg:
		m.modelName = msg.model.Name
		m.dof = msg.model.DOF()
	case poseMsg:
		m.q = msg.q
		m.skeleton = msg.skeleton
		m.frames++
		if len(msg.skeleton.Points) > 0 {
			root := msg.skeleton.Points[0]
			m.camera.Target = root
			m.heights = append(m.heights, root[2])
			if len(m.heights) > heightCapacity {
				m.heights = m.heights[1:]
			}
		}
	case tea.WindowSizeMsg:
		w := max(20, msg.Width-50)
		h := max(8, msg.Height-4)
		m.canvas = NewCanvas(min(w, 120), min(h, 48))
	case tea.KeyMsg:
		m.handleKey(msg)
	}
	return m, nil
}

// handleKey forwards playback keys and applies camera keys locally.
func (m view) handleKey(msg tea.KeyMsg) {
	switch msg.String() {
	case " ":
		m.send(' ')
	case "q":
		m.send('q')
	case "Q":
		m.send('Q')
	case "ctrl+c":
		// The program holds the terminal in raw mode, so no SIGINT arrives.
		m.send(0x03)
		if m.interrupt != nil {
			m.interrupt()
		}
	case "left", "h":
		m.camera.Orbit(-0.1)
	case "right", "l":
		m.camera.Orbit(0.1)
	case "up", "k":
		m.camera.Tilt(0.1)
	case "down", "j":
		m.camera.Tilt(-0.1)
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	}
}

func (m view) send(r rune) {
	if m.keys != nil {
		m.keys.Send(r)
	}
}

func (m view) View() string {
	m.canvas.Clear()
	if m.skeleton != nil {
		DrawSkeleton(m.canvas, m.camera, m.skeleton)
	}
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	name := m.modelName
	if name == "" {
		name = "loading"
	}
	s.WriteString(headerStyle.Render(strings.ToUpper(name)) + "\n")

	status := runStyle.Render("PLAYING")
	if m.paused != nil && m.paused() {
		status = pauseStyle.Render("PAUSED")
	}
	s.WriteString(status + "\n\n")

	frame := fmt.Sprintf("%d", m.frames)
	if m.total > 0 {
		frame = fmt.Sprintf("%d/%d", m.frames, m.total)
	}
	s.WriteString(labelStyle.Render("Frame") + valueStyle.Render(frame) + "\n")
	s.WriteString(labelStyle.Render("DOF") + valueStyle.Render(fmt.Sprintf("%d", m.dof)) + "\n")
	if m.interval != nil {
		if d := m.interval(); d > 0 {
			s.WriteString(labelStyle.Render("Rate") + valueStyle.Render(fmt.Sprintf("%.1f fps", float64(time.Second)/float64(d))) + "\n")
		}
	}
	if len(m.q) >= mocap.BaseConfigDim {
		p, quat := m.q.Position(), m.q.Quaternion()
		s.WriteString(labelStyle.Render("Base") + valueStyle.Render(fmt.Sprintf("%6.3f %6.3f %6.3f", p[0], p[1], p[2])) + "\n")
		s.WriteString(labelStyle.Render("Quat") + valueStyle.Render(fmt.Sprintf("%6.3f %6.3f %6.3f %6.3f", quat[0], quat[1], quat[2], quat[3])) + "\n")
		s.WriteString(labelStyle.Render("Joints") + valueStyle.Render(fmt.Sprintf("%d", len(m.q.Joints()))) + "\n")
	}

	if len(m.heights) > 1 {
		chart := asciigraph.Plot(m.heights, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Base height"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(helpStyle.Render("─────────────────────\n" + m.keyHints() + "\n←→:Orbit ↑↓:Tilt +/-:Zoom"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// keyHints lists playback keys only when a controller consumes them.
func (m view) keyHints() string {
	if m.keys == nil {
		return "^C:Quit"
	}
	return "SP:Pause Q:Quit"
}
