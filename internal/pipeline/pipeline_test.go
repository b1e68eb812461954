package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestNew(t *testing.T) {
	logger := log.NewTestLogger(t)
	p := New(logger)

	assert.NotNil(t, p)
	assert.NotNil(t, p.logger)
}

func TestExecute(t *testing.T) {
	logger := log.NewTestLogger(t)
	p := New(logger)

	// 200: LD V0, $00
	// 202: LD F, V0
	// 204: DRW V0, V0, $5
	// 206: JP $206
	tmpFile := createTempFile(t, []byte{0x60, 0x00, 0xF0, 0x29, 0xD0, 0x05, 0x12, 0x06})

	t.Run("execute pipeline successfully", func(t *testing.T) {
		opts := options.Program{
			Input:  tmpFile,
			Cycles: 10,
			Quiet:  true,
		}

		var buf bytes.Buffer
		frame, err := p.Execute(context.Background(), opts, &buf)
		assert.NoError(t, err)
		assert.Equal(t, uint64(10), frame.Cycles)

		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		assert.Len(t, lines, machine.DisplayHeight)
		assert.Equal(t, "████"+strings.Repeat(" ", machine.DisplayWidth-4), lines[0])
		assert.Equal(t, "█  █"+strings.Repeat(" ", machine.DisplayWidth-4), lines[1])
		assert.Equal(t, strings.Repeat(" ", machine.DisplayWidth), lines[5])
	})

	t.Run("execute with seed and debug", func(t *testing.T) {
		opts := options.Program{
			Input:  tmpFile,
			Cycles: 4,
			Seed:   1234,
			Debug:  true,
		}

		var buf bytes.Buffer
		_, err := p.Execute(context.Background(), opts, &buf)
		assert.NoError(t, err)
	})

	t.Run("execute with non-existent file", func(t *testing.T) {
		opts := options.Program{
			Input: "/nonexistent/file.ch8",
			Quiet: true,
		}

		var buf bytes.Buffer
		_, err := p.Execute(context.Background(), opts, &buf)
		assert.ErrorContains(t, err, "loading rom")
		assert.Equal(t, 0, buf.Len())
	})
}

func TestExecuteProgram_Keys(t *testing.T) {
	p := New(log.NewTestLogger(t))

	// 200: LD V1, K
	// 202: LD F, V1
	// 204: DRW V1, V1, $5
	// 206: JP $206
	program := []byte{0xF1, 0x0A, 0xF1, 0x29, 0xD1, 0x15, 0x12, 0x06}
	opts := options.Program{
		Cycles: 8,
		Keys:   []uint8{0x5, 0x9},
		Quiet:  true,
	}

	var buf bytes.Buffer
	_, err := p.ExecuteProgram(context.Background(), program, opts, &buf)
	assert.NoError(t, err)

	// the lowest held key is stored and its glyph drawn at 5,5
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, machine.DisplayHeight)
	assert.Equal(t, "     ████"+strings.Repeat(" ", machine.DisplayWidth-9), lines[5])
	assert.Equal(t, "     █   "+strings.Repeat(" ", machine.DisplayWidth-9), lines[6])
}

func TestExecuteProgram_Errors(t *testing.T) {
	p := New(log.NewTestLogger(t))
	opts := options.Program{Quiet: true}

	t.Run("program too large", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := p.ExecuteProgram(context.Background(), make([]byte, machine.MaxProgramSize+1), opts, &buf)
		assert.True(t, errors.Is(err, machine.ErrLoadOverflow))
	})

	t.Run("fault", func(t *testing.T) {
		var buf bytes.Buffer
		frame, err := p.ExecuteProgram(context.Background(), []byte{0x00, 0xEE}, opts, &buf)
		assert.True(t, errors.Is(err, machine.ErrStackUnderflow))
		assert.ErrorContains(t, err, "running program")
		assert.Equal(t, uint64(0), frame.Cycles)

		// the final frame is rendered on a fault
		assert.True(t, buf.Len() > 0)
	})
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	fileName := filepath.Join(t.TempDir(), "test.ch8")
	err := os.WriteFile(fileName, data, 0o600)
	assert.NoError(t, err)
	return fileName
}
