// Package render draws the CHIP-8 display buffer as text.
package render

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/machine"
	"golang.org/x/term"
)

// cursorHome moves the terminal cursor to the top left corner.
const cursorHome = "\x1b[H"

// Options control the text rendering.
type Options struct {
	On   string // text of a pixel that is on
	Off  string // text of a pixel that is off
	Live bool   // redraw frames in place on a terminal
}

// DefaultOptions returns the default rendering options.
func DefaultOptions() Options {
	return Options{
		On:  "█",
		Off: " ",
	}
}

// Renderer writes display frames to a writer.
type Renderer struct {
	writer   io.Writer
	options  Options
	terminal bool
}

// New returns a renderer writing to the given writer.
func New(writer io.Writer, options Options) *Renderer {
	r := &Renderer{
		writer:  writer,
		options: options,
	}
	if file, ok := writer.(*os.File); ok {
		r.terminal = term.IsTerminal(int(file.Fd()))
	}
	return r
}

// Frame writes one display frame, a flat buffer addressed as y*64+x.
func (r *Renderer) Frame(display []bool) error {
	if len(display) != machine.DisplayWidth*machine.DisplayHeight {
		return fmt.Errorf("unexpected display buffer size %d", len(display))
	}

	buf := bufio.NewWriter(r.writer)
	if r.options.Live && r.terminal {
		if _, err := buf.WriteString(cursorHome); err != nil {
			return fmt.Errorf("writing frame: %w", err)
		}
	}

	for y := range machine.DisplayHeight {
		row := display[y*machine.DisplayWidth : (y+1)*machine.DisplayWidth]
		for _, on := range row {
			pixel := r.options.Off
			if on {
				pixel = r.options.On
			}
			if _, err := buf.WriteString(pixel); err != nil {
				return fmt.Errorf("writing frame: %w", err)
			}
		}
		if err := buf.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing frame: %w", err)
		}
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}
