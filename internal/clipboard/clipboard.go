// Package clipboard writes exported text to the system clipboard.
package clipboard

import (
	"context"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
)

// Writer places text on a clipboard.
type Writer interface {
	WriteText(ctx context.Context, text string) error
}

// System writes to the desktop clipboard.
type System struct{}

func (System) WriteText(_ context.Context, text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard unsupported on this system")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// Stream writes the text to an io.Writer. It stands in for the clipboard
// on headless hosts.
type Stream struct {
	W io.Writer
}

func (s Stream) WriteText(_ context.Context, text string) error {
	if _, err := io.WriteString(s.W, text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}
