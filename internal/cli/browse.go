package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/bounds"
	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/theme"
	"github.com/matzehuels/familytree/pkg/tree"
	"github.com/matzehuels/familytree/pkg/view"
	"github.com/matzehuels/familytree/pkg/viewport"
	"github.com/matzehuels/familytree/pkg/visibility"
)

// Terminal cells are mapped to viewport pixels at this size.
const (
	cellWidth  = 8
	cellHeight = 16

	panStep     = 80.0
	wheelFactor = 1.1

	// listTop is the screen row of the first list entry.
	listTop = 2
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listMatchStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	panelStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

type browseOpts struct {
	noCache bool
	refresh bool
	source  sourceFlags
}

// browseCommand creates the interactive browser command.
func (c *CLI) browseCommand() *cobra.Command {
	var opts browseOpts

	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Explore a family tree interactively in the terminal",
		Long: `Browse opens the family tree in a keyboard-driven viewer.

  ↑/↓ j/k   move           enter   focus person and show details
  esc       clear focus    a       show the full tree
  /         search         + / -   zoom in / out
  f         fit            0       reset zoom
  ←/→ h/l   pan            t       toggle theme
  q         quit`,
		Example: `  familytree browse family.json
  familytree browse --url http://localhost:8080`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return c.runBrowse(cmd.Context(), file, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching of person records")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached person records")
	opts.source.register(cmd, true)

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, file string, opts browseOpts) error {
	logger := loggerFromContext(ctx)
	cfg, err := c.config()
	if err != nil {
		return err
	}

	ch, err := newCache(ctx, cfg.Cache, opts.noCache)
	if err != nil {
		return err
	}
	defer ch.Close()
	src, err := c.openSource(ctx, opts.source, file, ch, opts.refresh)
	if err != nil {
		return err
	}
	defer src.Close()

	themes := theme.NewStore(cfg.Theme.File)
	initial, err := themes.Load()
	if err != nil {
		logger.Warn("theme preference unreadable, using default", "error", err)
	}
	notifier := theme.NewNotifier(initial)

	session := view.NewSession(src, cfg.View, view.WithLogger(logger), view.WithTheme(notifier.Current()))
	spinner := newSpinnerWithContext(ctx, "Loading "+src.name+"...")
	spinner.Start()
	err = session.Load(ctx, viewport.Size{Width: 120 * cellWidth, Height: 40 * cellHeight})
	spinner.Stop()
	if errors.Is(err, errors.ErrCodeEmptyTree) {
		printInfo("No family data in %s", src.name)
		return nil
	}
	if err != nil {
		return err
	}

	m := newBrowseModel(ctx, session, notifier, themes)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	// Send blocks until Update receives, and toggling notifies from Update.
	unsubscribe := notifier.OnThemeChanged(func(th theme.Theme) { go p.Send(themeMsg(th)) })
	defer unsubscribe()
	watcher, err := themes.Watch(ctx, notifier, cfg.View.Debounce, func(err error) {
		logger.Debug("theme watch", "error", err)
	})
	if err != nil {
		logger.Warn("not following theme changes", "error", err)
	} else {
		defer watcher.Stop()
	}

	// A cancelled context kills the program; that is a normal exit.
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// =============================================================================
// browseModel - bubbletea model over a view.Session
// =============================================================================

type (
	tickMsg  time.Time
	themeMsg theme.Theme
)

// browseModel feeds key presses into a session. All session calls happen
// on the bubbletea update goroutine.
type browseModel struct {
	ctx      context.Context
	session  *view.Session
	notifier *theme.Notifier
	themes   *theme.Store

	width, height int
	rows          []tree.NodeID
	cursor        int
	offset        int

	searching bool
	query     string
	err       error
	nextTick  time.Time
}

func newBrowseModel(ctx context.Context, s *view.Session, n *theme.Notifier, themes *theme.Store) *browseModel {
	m := &browseModel{ctx: ctx, session: s, notifier: n, themes: themes, width: 120, height: 40}
	if st := s.State(); st != nil {
		m.rows = preOrder(st.Tree())
	}
	return m
}

// preOrder lists the nodes depth first, children in input order.
func preOrder(t *tree.Tree) []tree.NodeID {
	if t.Len() == 0 {
		return nil
	}
	out := make([]tree.NodeID, 0, t.Len())
	var visit func(id tree.NodeID)
	visit = func(id tree.NodeID) {
		out = append(out, id)
		for _, c := range t.Children(id) {
			visit(c)
		}
	}
	visit(tree.Root)
	return out
}

func (m *browseModel) Init() tea.Cmd {
	return m.schedule()
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.handle(view.Resize{Size: viewport.Size{
			Width:  float64(msg.Width * cellWidth),
			Height: float64(msg.Height * cellHeight),
		}})
	case themeMsg:
		m.handle(view.ThemeChanged{Theme: theme.Theme(msg)})
	case tickMsg:
		if !time.Time(msg).Before(m.nextTick) {
			m.nextTick = time.Time{}
		}
		m.handle(view.Tick{Now: time.Now()})
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.KeyMsg:
		if m.searching {
			if cmd := m.searchKey(msg); cmd != nil {
				return m, cmd
			}
		} else if cmd := m.key(msg); cmd != nil {
			return m, cmd
		}
	}
	return m, m.schedule()
}

func (m *browseModel) key(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "enter":
		if len(m.rows) > 0 {
			m.handle(view.ClickNode{Node: m.rows[m.cursor]})
		}
	case "esc":
		m.handle(view.ClickBackground{})
	case "a":
		m.query = ""
		m.handle(view.ShowFullTree{})
	case "/":
		m.searching = true
	case "+", "=":
		m.handle(view.ZoomIn{})
	case "-":
		m.handle(view.ZoomOut{})
	case "f":
		m.handle(view.Fit{})
	case "0":
		m.handle(view.ResetZoom{})
	case "left", "h":
		m.handle(view.Pan{DX: panStep})
	case "right", "l":
		m.handle(view.Pan{DX: -panStep})
	case "t":
		th := m.notifier.Toggle()
		if err := m.themes.Save(th); err != nil {
			m.err = err
		}
	}
	return nil
}

// mouse zooms on the wheel around the pointer and focuses a list entry on
// click.
func (m *browseModel) mouse(msg tea.MouseMsg) {
	at := bounds.Point{X: float64(msg.X * cellWidth), Y: float64(msg.Y * cellHeight)}
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.handle(view.Wheel{Point: at, Factor: wheelFactor})
	case msg.Button == tea.MouseButtonWheelDown:
		m.handle(view.Wheel{Point: at, Factor: 1 / wheelFactor})
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		i := m.offset + msg.Y - listTop
		if msg.Y >= listTop && i < min(m.offset+m.listHeight(), len(m.rows)) {
			m.cursor = i
			m.handle(view.ClickNode{Node: m.rows[i]})
		}
	}
}

func (m *browseModel) searchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeyEnter, tea.KeyEsc:
		m.searching = false
		return nil
	case tea.KeyBackspace:
		if r := []rune(m.query); len(r) > 0 {
			m.query = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.query += string(msg.Runes)
	default:
		return nil
	}
	m.handle(view.SearchChanged{Query: m.query})
	return nil
}

// handle runs ev through the session and keeps the last error for display.
func (m *browseModel) handle(ev view.Event) {
	m.err = m.session.Handle(m.ctx, ev)
}

// schedule asks for a tick at the session's next deadline unless an
// earlier one is already pending.
func (m *browseModel) schedule() tea.Cmd {
	d, ok := m.session.NextDeadline()
	if !ok || (!m.nextTick.IsZero() && !d.Before(m.nextTick)) {
		return nil
	}
	m.nextTick = d
	return tea.Tick(time.Until(d), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *browseModel) move(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.rows)-1)
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
}

func (m *browseModel) listHeight() int {
	return max(m.height-7, 5)
}

func (m *browseModel) View() string {
	st := m.session.State()
	if st == nil {
		return listDimStyle.Render("no tree loaded")
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Family tree"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(m.statusLine(st)))
	b.WriteString("\n\n")

	list := m.renderList(st)
	panel := m.renderDetails()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", panel))
	b.WriteString("\n")

	switch {
	case m.searching:
		b.WriteString(StyleHighlight.Render("/" + m.query + "▏"))
	case m.err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + errors.UserMessage(m.err))
	default:
		b.WriteString(listDimStyle.Render("↑/↓ move  ⏎ focus  esc clear  a all  / search  +/- zoom  f fit  t theme  q quit"))
	}
	return b.String()
}

func (m *browseModel) statusLine(st *view.State) string {
	vis := st.Visibility()
	tr := st.Transform()
	parts := []string{
		fmt.Sprintf("%d/%d visible", vis.Len(), st.Tree().Len()),
		vis.Mode().String(),
		fmt.Sprintf("zoom %.2f×", tr.Scale),
		st.Theme().String(),
	}
	if st.Viewport().Phase() == viewport.Transitioning {
		parts = append(parts, "…")
	}
	return strings.Join(parts, " · ")
}

func (m *browseModel) renderList(st *view.State) string {
	t := st.Tree()
	selected, hasSelected := st.Selected()
	end := min(m.offset+m.listHeight(), len(m.rows))

	var b strings.Builder
	for i := m.offset; i < end; i++ {
		id := m.rows[i]
		n := t.Node(id)
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		marker := " "
		if hasSelected && id == selected {
			marker = "●"
		}
		line := fmt.Sprintf("%s%s %s%s", cursor, marker, strings.Repeat("  ", n.Depth), t.Label(id))
		if sub := n.Record.Subtitle(); sub != "" {
			line += listDimStyle.Render("  " + sub)
		}

		style := listNormalStyle
		switch {
		case i == m.cursor:
			style = listSelectedStyle
		case st.NodeOpacity(id) < 1:
			style = listDimStyle
		case st.Visibility().Mode() == visibility.ModeSearch:
			style = listMatchStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rows))))
	return b.String()
}

func (m *browseModel) renderDetails() string {
	d, ok := m.session.Details()
	if !ok {
		return panelStyle.Render(listDimStyle.Render("press enter on a person\nto see details"))
	}
	rows := [][]string{
		{"Born", d.BirthDate},
		{"Job", d.Job},
		{"Spouses", d.SpousesText(", ")},
		{"Children", fmt.Sprintf("%d", d.ChildrenCount)},
	}
	if d.ChildrenCount > 0 {
		rows = append(rows, []string{"", d.ChildrenText(", ")})
	}
	if d.Notes != "" {
		rows = append(rows, []string{"Notes", d.Notes})
	}
	tbl := table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return StyleValue
		})
	return panelStyle.Render(StyleTitle.Render(d.Name) + "\n" + tbl.Render())
}
