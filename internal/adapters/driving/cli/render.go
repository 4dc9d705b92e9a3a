package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// writerRenderer streams answer text to a writer as it arrives. Snapshots
// carry the full accumulated content, so only the unprinted suffix is
// written. Transient status lines go to the verbose log to keep stdout
// clean for the answer itself.
type writerRenderer struct {
	mu         sync.Mutex
	w          io.Writer
	printed    int
	lastStatus string
	final      *driven.RenderSnapshot
}

var _ driven.Renderer = (*writerRenderer)(nil)

func newWriterRenderer(w io.Writer) *writerRenderer {
	return &writerRenderer{w: w}
}

// Render implements driven.Renderer.
func (r *writerRenderer) Render(snapshot driven.RenderSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(snapshot.Content) < r.printed {
		// A new message started; begin printing from scratch.
		r.printed = 0
	}
	if len(snapshot.Content) > r.printed {
		fmt.Fprint(r.w, snapshot.Content[r.printed:])
		r.printed = len(snapshot.Content)
	}

	if snapshot.StatusLine != "" && snapshot.StatusLine != r.lastStatus {
		logger.Debug("status: %s", snapshot.StatusLine)
		r.lastStatus = snapshot.StatusLine
	}

	if !snapshot.InProgress {
		snap := snapshot
		r.final = &snap
	}
}

// Final returns the terminal snapshot, nil if the stream never finished.
func (r *writerRenderer) Final() *driven.RenderSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.final
}

// Printed reports whether any answer text was written.
func (r *writerRenderer) Printed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.printed > 0
}
