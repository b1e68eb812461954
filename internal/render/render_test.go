package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/assert"
)

func TestRenderer_Frame(t *testing.T) {
	display := make([]bool, machine.DisplayWidth*machine.DisplayHeight)
	display[0] = true
	display[machine.DisplayWidth+2] = true
	display[len(display)-1] = true

	var buf bytes.Buffer
	r := New(&buf, Options{On: "#", Off: ".", Live: true})
	assert.NoError(t, r.Frame(display))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, machine.DisplayHeight)
	assert.Equal(t, "#"+strings.Repeat(".", machine.DisplayWidth-1), lines[0])
	assert.Equal(t, ".."+"#"+strings.Repeat(".", machine.DisplayWidth-3), lines[1])
	assert.Equal(t, strings.Repeat(".", machine.DisplayWidth-1)+"#", lines[machine.DisplayHeight-1])

	// a buffer is not a terminal, so no cursor control is written
	assert.False(t, strings.Contains(buf.String(), cursorHome))
}

func TestRenderer_FrameInvalidSize(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, DefaultOptions())

	err := r.Frame(make([]bool, 10))
	assert.ErrorContains(t, err, "unexpected display buffer size")
	assert.Equal(t, 0, buf.Len())
}
