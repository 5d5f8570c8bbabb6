package sim

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"

	"manhattan-sim/internal/visibility"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorGray    = "\x1b[90m"
)

const (
	minMapWidth  = 20
	minMapHeight = 8
	// rows taken by header, stats table and legend
	chromeHeight = 10
)

var classStyle = map[visibility.Class]struct {
	sym, color string
}{
	visibility.LOS:         {"L", colorGreen},
	visibility.OLOS:        {"o", colorYellow},
	visibility.NLOS:        {"n", colorBlue},
	visibility.Unreachable: {"x", colorGray},
}

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

// RenderMap draws the grid of run as a width x height character map. With
// byRange set vehicles are coloured by in-range status instead of class.
func RenderMap(run *Run, width, height int, byRange bool) string {
	width = max(width, minMapWidth)
	height = max(height, minMapHeight)
	l := run.Grid.Length
	col := func(x float64) int { return clamp(int(x/l*float64(width-1)), width) }
	row := func(y float64) int { return clamp(int((l-y)/l*float64(height-1)), height) }

	cells := make([][]string, height)
	for i := range cells {
		cells[i] = make([]string, width)
		for j := range cells[i] {
			cells[i][j] = " "
		}
	}
	for _, s := range run.Grid.Horizontal {
		r := row(s.Identity)
		for j := range cells[r] {
			cells[r][j] = colorGray + "-" + colorReset
		}
	}
	for _, s := range run.Grid.Vertical {
		c := col(s.Identity)
		for i := range cells {
			sym := "|"
			if strings.Contains(cells[i][c], "-") {
				sym = "+"
			}
			cells[i][c] = colorGray + sym + colorReset
		}
	}
	for i, v := range run.Vehicles {
		cl := run.Classification.Classes[i]
		st := classStyle[cl]
		if byRange {
			st.sym, st.color = "*", colorRed
			if run.Result.InRange[i] {
				st.color = colorGreen
			}
		}
		cells[row(v.Y())][col(v.X())] = st.color + st.sym + colorReset
	}
	cells[row(run.Observer.Y())][col(run.Observer.X())] = colorMagenta + "@" + colorReset

	var b strings.Builder
	for _, r := range cells {
		b.WriteString(strings.Join(r, ""))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

type mapModel struct {
	run     *Run
	table   table.Model
	width   int
	height  int
	byRange bool
}

func newMapModel(run *Run, width, height int) mapModel {
	cols := []table.Column{
		{Title: "Class", Width: 12},
		{Title: "Vehicles", Width: 10},
		{Title: "In range", Width: 10},
	}
	var rows []table.Row
	for _, cl := range visibility.Classes {
		idx := run.Classification.Indices(cl)
		in := 0
		for _, i := range idx {
			if run.Result.InRange[i] {
				in++
			}
		}
		rows = append(rows, table.Row{cl.String(), strconv.Itoa(len(idx)), strconv.Itoa(in)})
	}
	t := table.New(table.WithColumns(cols), table.WithRows(rows), table.WithHeight(len(rows)+1))
	return mapModel{run: run, table: t, width: width, height: height}
}

func (m mapModel) Init() tea.Cmd { return nil }

func (m mapModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.byRange = !m.byRange
		}
	}
	return m, nil
}

func (m mapModel) View() string {
	r := m.run
	header := headerStyle.Render(fmt.Sprintf("run %s  seed %d  %d streets  %d vehicles  threshold %.1f",
		r.ID, r.Seed, r.Grid.StreetCount(), len(r.Vehicles), r.Threshold))
	body := RenderMap(r, m.width, m.height-chromeHeight, m.byRange)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.table.View(), m.legend())
}

func (m mapModel) legend() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("%s@%s=observer", colorMagenta, colorReset))
	if m.byRange {
		parts = append(parts,
			fmt.Sprintf("%s*%s=in range", colorGreen, colorReset),
			fmt.Sprintf("%s*%s=out of range", colorRed, colorReset))
	} else {
		for _, cl := range visibility.Classes {
			st := classStyle[cl]
			parts = append(parts, fmt.Sprintf("%s%s%s=%s", st.color, st.sym, colorReset, cl))
		}
	}
	parts = append(parts, "r=toggle colouring q=quit")
	return wordwrap.String(strings.Join(parts, " "), max(m.width, minMapWidth))
}

// ShowMap displays run as a static map. On a terminal it runs an interactive
// viewer until the user quits; otherwise the map is printed once.
func ShowMap(run *Run) error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		_, err := fmt.Fprintln(os.Stdout, newMapModel(run, 80, 40).View())
		return err
	}
	w, h, err := term.GetSize(fd)
	if err != nil {
		w, h = 80, 40
	}
	_, err = tea.NewProgram(newMapModel(run, w, h), tea.WithAltScreen()).Run()
	return err
}
