package engine

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	frameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// keyMap binds bubbletea key strings to the physical keys of the binding table.
type keyMap struct {
	Up      key.Binding
	Left    key.Binding
	Down    key.Binding
	Right   key.Binding
	Button1 key.Binding
	Button2 key.Binding
	Select  key.Binding
	Start   key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "up")),
		Left:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "left")),
		Down:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "down")),
		Right:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "right")),
		Button1: key.NewBinding(key.WithKeys("ctrl+@"), key.WithHelp("ctrl+space", "button1")),
		Button2: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "button2")),
		Select:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "select")),
		Start:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "turn off")),
	}
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{k.Up, k.Left, k.Down, k.Right, k.Button1, k.Button2, k.Select, k.Start, k.Quit}
}

// native translates a key message into native events.
func (k keyMap) native(msg tea.KeyMsg) []NativeEvent {
	switch {
	case key.Matches(msg, k.Quit):
		return []NativeEvent{Quit()}
	case key.Matches(msg, k.Up):
		return press(KeyW, 'w')
	case key.Matches(msg, k.Left):
		return press(KeyA, 'a')
	case key.Matches(msg, k.Down):
		return press(KeyS, 's')
	case key.Matches(msg, k.Right):
		return press(KeyD, 'd')
	case key.Matches(msg, k.Button1):
		return press(KeyLCtrl, 0)
	case key.Matches(msg, k.Button2):
		return press(KeySpace, ' ')
	case key.Matches(msg, k.Select):
		return press(KeyEscape, 0)
	case key.Matches(msg, k.Start):
		return press(KeyReturn, 0)
	}
	return press(KeyUnknown, 0)
}

type frameMsg string

type tuiModel struct {
	events  chan<- NativeEvent
	logger  *zap.Logger
	keys    keyMap
	help    help.Model
	frame   string
	dropped int
}

func newTUIModel(events chan<- NativeEvent, logger *zap.Logger) tuiModel {
	return tuiModel{
		events: events,
		logger: logger,
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		for _, ev := range m.keys.native(msg) {
			select {
			case m.events <- ev:
			default:
				m.dropped++
				m.logger.Warn("input queue full, key dropped", zap.String("key", msg.String()))
			}
		}
	case frameMsg:
		m.frame = string(msg)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("hotreload"))
	b.WriteString("\n\n")
	b.WriteString(frameStyle.Render(m.frame))
	b.WriteString("\n\n")
	b.WriteString(m.help.ShortHelpView(m.keys.bindings()))
	if m.dropped > 0 {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render("dropped keys: "))
		b.WriteString(statusStyle.Render(strconv.Itoa(m.dropped)))
	}
	return b.String()
}

// tui runs a bubbletea program on its own goroutine. Key messages are queued
// for the loop; game output is shown as the program's frame.
type tui struct {
	in      io.Reader
	out     io.Writer
	logger  *zap.Logger
	program *tea.Program
	frame   *frameWriter
	events  chan NativeEvent
	done    chan struct{}
	runErr  error
}

func newTUI(in io.Reader, out io.Writer, logger *zap.Logger) *tui {
	t := &tui{
		in:     in,
		out:    out,
		logger: logger,
		events: make(chan NativeEvent, terminalQueueSize),
		done:   make(chan struct{}),
	}
	t.frame = &frameWriter{send: t.show}
	return t
}

// show publishes a frame. Frames rendered before the program starts only
// update the line buffer.
func (t *tui) show(frame string) {
	if t.program != nil {
		t.program.Send(frameMsg(frame))
	}
}

// open starts the program. config "inline" keeps the normal screen instead
// of switching to the alternate one.
func (t *tui) open(ctx context.Context, config string) error {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if t.in != nil {
		opts = append(opts, tea.WithInput(t.in))
	}
	if t.out != nil {
		opts = append(opts, tea.WithOutput(t.out))
	}
	if config != "inline" {
		opts = append(opts, tea.WithAltScreen())
	}

	t.program = tea.NewProgram(newTUIModel(t.events, t.logger), opts...)

	go func() {
		defer close(t.done)
		_, err := t.program.Run()
		t.runErr = err
		if !benignExit(err) {
			t.logger.Error("tui program stopped", zap.Error(err))
		}
		// The program is gone; make sure the loop sees a shutdown.
		select {
		case t.events <- Quit():
		default:
		}
	}()
	return nil
}

func (t *tui) poll() (NativeEvent, bool) {
	select {
	case ev := <-t.events:
		return ev, true
	default:
		return NativeEvent{}, false
	}
}

func (t *tui) close() error {
	t.program.Quit()
	<-t.done
	if !benignExit(t.runErr) {
		return t.runErr
	}
	return nil
}

// benignExit reports whether a program exit needs no reporting.
func benignExit(err error) bool {
	return err == nil || errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)
}

func (t *tui) capabilities() Capability {
	return CapSyntheticRelease | CapQuit | CapScreen
}

func (t *tui) screen() io.Writer {
	return t.frame
}
