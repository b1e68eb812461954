package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options.Program
	}{
		{
			name: "default flags",
			args: []string{"prog", "test.ch8"},
			want: options.Program{
				Input:   "test.ch8",
				Cycles:  config.DefaultCycles,
				ClockHz: config.DefaultClockHz,
				FrameHz: config.DefaultFrameHz,
			},
		},
		{
			name: "run settings",
			args: []string{"prog", "-cycles", "0", "-hz", "0", "-fps", "30", "-live", "-seed", "42", "test.ch8"},
			want: options.Program{
				Input:   "test.ch8",
				FrameHz: 30,
				Live:    true,
				Seed:    42,
			},
		},
		{
			name: "logging flags",
			args: []string{"prog", "-debug", "-q", "test.ch8"},
			want: options.Program{
				Input:   "test.ch8",
				Cycles:  config.DefaultCycles,
				ClockHz: config.DefaultClockHz,
				FrameHz: config.DefaultFrameHz,
				Debug:   true,
				Quiet:   true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			got, err := ParseFlags()
			assert.NoError(t, err)
			assert.Equal(t, tt.want.Input, got.Input)
			assert.Equal(t, tt.want.Cycles, got.Cycles)
			assert.Equal(t, tt.want.ClockHz, got.ClockHz)
			assert.Equal(t, tt.want.FrameHz, got.FrameHz)
			assert.Equal(t, tt.want.Live, got.Live)
			assert.Equal(t, tt.want.Seed, got.Seed)
			assert.Equal(t, tt.want.Debug, got.Debug)
			assert.Equal(t, tt.want.Quiet, got.Quiet)
			assert.Len(t, got.Keys, 0)
		})
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantUsage bool
	}{
		{"missing rom file", []string{"prog"}, true},
		{"flag after rom file", []string{"prog", "test.ch8", "-live"}, true},
		{"empty argument after rom file", []string{"prog", "test.ch8", ""}, true},
		{"second rom file", []string{"prog", "test.ch8", "other.ch8"}, true},
		{"clock rate too high", []string{"prog", "-hz", "2000000000", "test.ch8"}, false},
		{"frame rate too high", []string{"prog", "-fps", "1000000001", "test.ch8"}, false},
		{"negative clock rate", []string{"prog", "-hz", "-1", "test.ch8"}, false},
		{"invalid key", []string{"prog", "-keys", "1,G", "test.ch8"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			_, err := ParseFlags()
			assert.Error(t, err)

			var usageErr *UsageError
			assert.Equal(t, tt.wantUsage, errors.As(err, &usageErr))
		})
	}
}

func TestParseKeys(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []uint8
		wantErr bool
	}{
		{name: "empty", input: ""},
		{name: "single key", input: "A", want: []uint8{0xA}},
		{name: "sorted and deduplicated", input: "f, 1,A,1", want: []uint8{0x1, 0xA, 0xF}},
		{name: "out of range", input: "10", wantErr: true},
		{name: "not hex", input: "x", wantErr: true},
		{name: "empty field", input: "1,,2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseKeys(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, errInvalidKey))
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, len(tt.want))
			for i, key := range tt.want {
				assert.Equal(t, key, got[i])
			}
		})
	}
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    options.Program
		wantErr bool
	}{
		{"defaults", options.Program{ClockHz: config.DefaultClockHz, FrameHz: config.DefaultFrameHz}, false},
		{"unpaced", options.Program{}, false},
		{"highest rate", options.Program{ClockHz: maxRate, FrameHz: maxRate}, false},
		{"negative frame rate", options.Program{FrameHz: -1}, true},
		{"clock rate above nanosecond resolution", options.Program{ClockHz: maxRate + 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOptions(tt.opts)
			if tt.wantErr {
				assert.ErrorIs(t, err, errInvalidRate)
				return
			}
			assert.NoError(t, err)
		})
	}
}
