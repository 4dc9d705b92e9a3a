package backend

import (
	"fmt"
	"io"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ensure queryStream implements the interface.
var _ driven.QueryStream = (*queryStream)(nil)

// readChunkSize is the size of one body read. Frames routinely span
// reads; the decoder buffers across them.
const readChunkSize = 4096

// queryStream reads the response body and hands decoded events out one
// at a time.
type queryStream struct {
	body    io.ReadCloser
	decoder eventDecoder
	pending []domain.StreamEvent
	chunk   []byte

	// readErr is a read failure held back until the events decoded from
	// the same chunk have been delivered.
	readErr error

	closed bool
}

func newQueryStream(body io.ReadCloser) *queryStream {
	return &queryStream{
		body:  body,
		chunk: make([]byte, readChunkSize),
	}
}

// Next returns the next decoded event, io.EOF at stream end, or the
// read error that interrupted the stream.
func (s *queryStream) Next() (domain.StreamEvent, error) {
	for {
		if len(s.pending) > 0 {
			event := s.pending[0]
			s.pending = s.pending[1:]
			return event, nil
		}
		if s.readErr != nil {
			return domain.StreamEvent{}, s.readErr
		}
		if s.decoder.Done() {
			return domain.StreamEvent{}, io.EOF
		}

		n, err := s.body.Read(s.chunk)
		if n > 0 {
			s.pending = s.decoder.Feed(s.chunk[:n])
		}
		if err == io.EOF {
			if len(s.pending) > 0 {
				continue
			}
			// A partial frame left in the buffer is dropped; the
			// orchestrator decides whether the stream was complete.
			if !s.decoder.Done() && len(s.decoder.buf) > 0 {
				logger.Debug("stream closed with %d undelivered bytes", len(s.decoder.buf))
			}
			return domain.StreamEvent{}, io.EOF
		}
		if err != nil {
			// A read can return data and an error together; the decoded
			// events go out first, the error on a later call.
			s.readErr = fmt.Errorf("read stream: %w", err)
			if len(s.pending) > 0 {
				continue
			}
			return domain.StreamEvent{}, s.readErr
		}
	}
}

// Close releases the connection. Safe to call twice.
func (s *queryStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}
