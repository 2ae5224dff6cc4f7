package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sisi/pkg/errors"
	"github.com/matzehuels/sisi/pkg/line"
	"github.com/matzehuels/sisi/pkg/render"
)

const defaultExploreSize = 10

// exploreCommand creates the interactive line explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "explore [blocks...]",
		Short: "Edit a line interactively and watch its certain cells",
		Long: `Open an interactive editor for one line.

Move with the arrow keys, mark cells as filled (x), empty (o) or unknown
(space), change the line length with + and -, and press c to type a new
clue. The solved line below updates after every change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := lineRequest(size, args, "")
			if err != nil {
				return err
			}
			m := newExploreModel(req.Size, req.Blocks, c.Config.Glyphs)
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().IntVarP(&size, "size", "n", defaultExploreSize, "initial number of cells")
	return cmd
}

var (
	exploreCursorStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	exploreHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	exploreLabelStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(8)
	exploreErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// exploreSolveTimeout bounds each re-solve so a clue with huge slack cannot
// freeze the terminal.
const exploreSolveTimeout = 2 * time.Second

// exploreModel is the bubbletea model behind "sisi explore".
type exploreModel struct {
	size   int
	blocks []int
	known  []line.CellState
	cursor int
	glyphs render.Glyphs

	states     []line.CellState
	placements int
	err        error

	editing bool
	input   string

	timeout time.Duration
}

func newExploreModel(size int, blocks []int, g render.Glyphs) exploreModel {
	m := exploreModel{
		size:    size,
		blocks:  blocks,
		known:   line.Uniform(size, line.Unknown),
		glyphs:  g.WithDefaults(),
		timeout: exploreSolveTimeout,
	}
	m.solve()
	return m
}

// solve recomputes the refined states from the clue and known cells.
func (m *exploreModel) solve() {
	if m.timeout <= 0 {
		m.timeout = exploreSolveTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	cov, err := line.RefineTallyContext(ctx, m.size, m.blocks, m.known)
	if errors.IsContext(err) {
		err = errors.Wrap(errors.ErrCodeTimeout, err,
			"too many placements to count within %s; mark some cells or shrink the line", m.timeout)
	}
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.states = cov.States()
	m.placements = cov.Total
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.editing {
		return m.updateClue(key), nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor < m.size-1 {
			m.cursor++
		}
	case "x":
		m.mark(line.Filled)
	case "o", ".":
		m.mark(line.Empty)
	case " ", "?":
		m.mark(line.Unknown)
	case "+", "=":
		m.resize(m.size + 1)
	case "-":
		m.resize(m.size - 1)
	case "r":
		m.known = line.Uniform(m.size, line.Unknown)
		m.solve()
	case "c":
		m.editing = true
		m.input = line.FormatBlocks(m.blocks)
	}
	return m, nil
}

// updateClue handles keys while the clue is being typed.
func (m exploreModel) updateClue(key tea.KeyMsg) exploreModel {
	switch key.Type {
	case tea.KeyEnter:
		blocks, err := line.ParseBlocks(m.input)
		if err != nil {
			m.err = err
			return m
		}
		m.blocks = blocks
		m.editing = false
		m.solve()
	case tea.KeyEsc:
		m.editing = false
		m.err = nil
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		for _, r := range key.Runes {
			if (r >= '0' && r <= '9') || r == ',' {
				m.input += string(r)
			}
		}
	}
	return m
}

func (m *exploreModel) mark(s line.CellState) {
	if m.size == 0 {
		return
	}
	m.known[m.cursor] = s
	m.solve()
}

func (m *exploreModel) resize(size int) {
	if size < 0 || size > errors.MaxLineSize {
		return
	}
	known := line.Uniform(size, line.Unknown)
	copy(known, m.known)
	m.size = size
	m.known = known
	if m.cursor >= size {
		m.cursor = max(size-1, 0)
	}
	m.solve()
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Line Explorer"))
	b.WriteString("\n\n")

	clue := line.FormatBlocks(m.blocks)
	if m.editing {
		clue = m.input + exploreCursorStyle.Render("█")
	} else if clue == "" {
		clue = StyleDim.Render("(empty)")
	}
	b.WriteString(exploreLabelStyle.Render("clue") + clue + "\n")
	b.WriteString(exploreLabelStyle.Render("size") + fmt.Sprint(m.size) + "\n\n")

	b.WriteString(exploreLabelStyle.Render("known") + styledLine(m.known, m.glyphs) + "\n")
	if m.err == nil {
		b.WriteString(exploreLabelStyle.Render("solved") + styledLine(m.states, m.glyphs) + "\n")
	} else {
		b.WriteString(exploreLabelStyle.Render("solved") + exploreErrorStyle.Render(errors.UserMessage(m.err)) + "\n")
	}
	if m.size > 0 {
		b.WriteString(exploreLabelStyle.Render("") + strings.Repeat("  ", m.cursor) + exploreCursorStyle.Render("^") + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.err != nil:
	case m.placements == 0 && len(m.blocks) > 0:
		b.WriteString(StyleWarning.Render("no placement fits the known cells") + "\n")
	default:
		sum := render.Summarize(m.states)
		b.WriteString(StyleDim.Render(fmt.Sprintf("%d placements · %d filled · %d empty · %d unknown",
			m.placements, sum.Filled, sum.Empty, sum.Unknown)) + "\n")
	}

	b.WriteString("\n")
	if m.editing {
		b.WriteString(exploreHelpStyle.Render("type block lengths  ⏎ apply  esc cancel"))
	} else {
		b.WriteString(exploreHelpStyle.Render("←/→ move  x filled  o empty  space unknown  +/- size  c clue  r reset  q quit"))
	}
	return b.String()
}
