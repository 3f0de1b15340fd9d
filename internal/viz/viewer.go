package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fraclocus/internal/khps2"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// Viewer is a bubbletea model showing the calibrated locus surface. The
// scene is static; keys only move the camera and toggle layers.
type Viewer struct {
	scene  *Scene
	cam    *Camera
	g      khps2.Params
	title  string
	width  int
	height int

	showCutoff bool
	showCurve  bool
	showPoints bool
	showAxes   bool
}

func NewViewer(scene *Scene, g khps2.Params, title string) *Viewer {
	return &Viewer{
		scene:      scene,
		cam:        NewCamera(),
		g:          g,
		title:      title,
		width:      100,
		height:     32,
		showCurve:  true,
		showPoints: true,
		showAxes:   true,
	}
}

// RunViewer blocks until the user quits.
func RunViewer(v *Viewer) error {
	_, err := tea.NewProgram(v, tea.WithAltScreen()).Run()
	return err
}

func (v *Viewer) Init() tea.Cmd { return nil }

func (v *Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
	case tea.KeyMsg:
		const step = 0.12
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return v, tea.Quit
		case "left", "h":
			v.cam.RotateY(-step)
		case "right", "l":
			v.cam.RotateY(step)
		case "up", "k":
			v.cam.RotateX(-step)
		case "down", "j":
			v.cam.RotateX(step)
		case "+", "=":
			v.cam.ZoomIn()
		case "-", "_":
			v.cam.ZoomOut()
		case "c":
			v.showCutoff = !v.showCutoff
		case "p":
			v.showCurve = !v.showCurve
		case "m":
			v.showPoints = !v.showPoints
		case "a":
			v.showAxes = !v.showAxes
		case "r":
			v.cam = NewCamera()
		}
	}
	return v, nil
}

func (v *Viewer) View() string {
	ch := v.height - 4
	if ch < 4 {
		ch = 4
	}
	cw := v.width
	if cw < 10 {
		cw = 10
	}

	canvas := NewCanvas(cw, ch)
	frame := NewWireframe()
	frame.Append(v.scene.Surface)
	if v.showCutoff {
		frame.Append(v.scene.CutoffPlane)
	}
	if v.showCurve {
		frame.Append(v.scene.PlaneStress)
	}
	if v.showPoints {
		frame.Append(v.scene.Points)
	}
	if v.showAxes {
		frame.Append(v.scene.Axes)
	}
	Render(canvas, frame, v.cam)

	var b strings.Builder
	b.WriteString(cyan.Render(v.title))
	b.WriteString("  ")
	b.WriteString(yellow.Render(v.g.String()))
	b.WriteByte('\n')
	b.WriteString(canvas.String())
	b.WriteString(dim.Render(fmt.Sprintf(
		"arrows/hjkl rotate  +/- zoom  r reset  c cutoff:%s  p curve:%s  m markers:%s  a axes:%s  q quit",
		onOff(v.showCutoff), onOff(v.showCurve), onOff(v.showPoints), onOff(v.showAxes))))
	return b.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
