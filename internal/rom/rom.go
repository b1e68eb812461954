// Package rom reads raw CHIP-8 program images.
package rom

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/machine"
)

// MaxSize is the largest program image that fits into memory.
const MaxSize = machine.MaxProgramSize

// ErrEmpty is returned for program images without any data.
var ErrEmpty = errors.New("empty program image")

// Read reads a raw program image. CHIP-8 images have no header and are
// loaded verbatim at the program start address.
func Read(reader io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(reader, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading program image: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if len(data) > MaxSize {
		return nil, fmt.Errorf("%w: program image exceeds %d bytes", machine.ErrLoadOverflow, MaxSize)
	}
	return data, nil
}

// ReadFile reads a raw program image from a file.
func ReadFile(fileName string) ([]byte, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("opening file '%s': %w", fileName, err)
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("reading file '%s': %w", fileName, err)
	}
	return data, nil
}
