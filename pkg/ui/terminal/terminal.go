// Package terminal implements ui.Output for standard output. On an
// interactive terminal markdown is rendered with glamour and listings are
// drawn as tables; on a pipe the same output is written as wrapped plain
// text and markdown tables.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	// Packages
	glamour "github.com/charmbracelet/glamour"
	lipgloss "github.com/charmbracelet/lipgloss"
	wordwrap "github.com/muesli/reflow/wordwrap"
	termenv "github.com/muesli/termenv"
	schema "github.com/mutablelogic/go-lingo/pkg/schema"
	ui "github.com/mutablelogic/go-lingo/pkg/ui"
	table "github.com/mutablelogic/go-lingo/pkg/ui/table"
	term "golang.org/x/term"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Terminal struct {
	mu       sync.Mutex
	w        io.Writer
	tty      bool
	width    int
	renderer *glamour.TermRenderer
	open     bool // a streamed reply has been started
}

var _ ui.Output = (*Terminal)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// Width used when the terminal size cannot be read
	DefaultWidth = 80

	// Narrowest width text is wrapped to
	minWidth = 20
)

var (
	statusStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")) // red
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns the output for f. Styling is enabled when f is an
// interactive terminal.
func New(f *os.File) (*Terminal, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return NewPlain(f, DefaultWidth), nil
	}

	width := DefaultWidth
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		width = w
	}

	// Pick the markdown style for the terminal background
	style := "dark"
	if !termenv.HasDarkBackground() {
		style = "light"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(max(width-4, minWidth)),
	)
	if err != nil {
		return nil, err
	}

	return &Terminal{
		w:        f,
		tty:      true,
		width:    width,
		renderer: renderer,
	}, nil
}

// NewPlain returns an unstyled output which wraps text at width
func NewPlain(w io.Writer, width int) *Terminal {
	return &Terminal{
		w:     w,
		width: max(width, minWidth),
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// IsTerminal returns true if output is styled for an interactive terminal
func (t *Terminal) IsTerminal() bool {
	return t.tty
}

// Width returns the width text is wrapped to
func (t *Terminal) Width() int {
	return t.width
}

func (t *Terminal) StreamChunk(chunk schema.Chunk) error {
	if chunk.Error != nil || chunk.Content == "" {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.open = true
	_, err := io.WriteString(t.w, chunk.Content)
	return err
}

func (t *Terminal) StreamEnd(result *schema.StreamResult) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Nothing was streamed, but the aggregate has a response
	if !t.open && result != nil && result.Data.Response != "" {
		return t.println(result.Data.Response)
	}
	return t.close()
}

func (t *Terminal) Markdown(text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.close(); err != nil {
		return err
	}

	if t.renderer != nil {
		if out, err := t.renderer.Render(text); err == nil {
			return t.println(strings.TrimRight(out, "\n"))
		}
	}
	return t.println(wordwrap.String(strings.TrimRight(text, "\n"), t.width))
}

func (t *Terminal) Table(data table.Data) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.close(); err != nil {
		return err
	}

	if t.tty {
		return t.println(table.Render(data, t.width))
	}
	return t.println(table.RenderMarkdown(data))
}

func (t *Terminal) Status(format string, args ...any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.close(); err != nil {
		return err
	}

	line := fmt.Sprintf(format, args...)
	if t.tty {
		line = statusStyle.Render(line)
	}
	return t.println(line)
}

func (t *Terminal) Error(err error) error {
	if err == nil {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.close(); err != nil {
		return err
	}

	line := "error: " + err.Error()
	if t.tty {
		line = errorStyle.Render(line)
	}
	return t.println(line)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// close terminates an unfinished streamed reply
func (t *Terminal) close() error {
	if !t.open {
		return nil
	}
	t.open = false
	_, err := io.WriteString(t.w, "\n")
	return err
}

func (t *Terminal) println(line string) error {
	_, err := fmt.Fprintln(t.w, line)
	return err
}
