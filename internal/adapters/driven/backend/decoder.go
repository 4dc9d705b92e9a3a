package backend

import (
	"bytes"
	"encoding/json"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// doneSentinel optionally terminates a stream; connection close is an
// equally valid ending.
const doneSentinel = "[DONE]"

// wireEvent is the backend's event frame payload.
type wireEvent struct {
	Type           string         `json:"type"`
	ConversationID string         `json:"conversation_id"`
	Message        string         `json:"message"`
	Content        string         `json:"content"`
	Citations      []wireCitation `json:"citations"`
	QueryType      string         `json:"query_type"`
	UsedWebSearch  bool           `json:"used_web_search"`
}

// wireCitation is the backend's citation format.
type wireCitation struct {
	DocumentName   string  `json:"document_name"`
	PageNumber     int     `json:"page_number"`
	ChunkText      string  `json:"chunk_text"`
	RelevanceScore float64 `json:"relevance_score"`
}

func (c wireCitation) toDomain() domain.Citation {
	return domain.Citation{
		DocumentName:   c.DocumentName,
		PageNumber:     c.PageNumber,
		ChunkText:      c.ChunkText,
		RelevanceScore: c.RelevanceScore,
	}
}

// eventDecoder reassembles event frames from arbitrarily chunked bytes.
// The buffer is byte-oriented, so chunk boundaries may fall anywhere,
// including inside a multi-byte rune. Frames are delimited by a blank
// line and carry a "data:" payload line.
type eventDecoder struct {
	buf  []byte
	done bool
}

// Feed appends raw bytes and returns the events completed by them, in
// order. Malformed frames are dropped with a logged diagnostic; decoding
// continues with the next frame. After the terminal sentinel Feed
// returns nothing.
func (d *eventDecoder) Feed(p []byte) []domain.StreamEvent {
	if d.done {
		return nil
	}
	d.buf = append(d.buf, p...)

	var events []domain.StreamEvent
	for {
		idx := bytes.Index(d.buf, []byte("\n\n"))
		if idx < 0 {
			return events
		}
		frame := d.buf[:idx]
		d.buf = d.buf[idx+2:]

		event, ok := d.parseFrame(frame)
		if d.done {
			return events
		}
		if ok {
			events = append(events, event)
		}
	}
}

// Done reports whether the terminal sentinel was seen.
func (d *eventDecoder) Done() bool {
	return d.done
}

// parseFrame decodes one frame. ok is false for frames to skip.
func (d *eventDecoder) parseFrame(frame []byte) (domain.StreamEvent, bool) {
	frame = bytes.TrimSpace(frame)
	if len(frame) == 0 {
		return domain.StreamEvent{}, false
	}

	payload, found := bytes.CutPrefix(frame, []byte("data:"))
	if !found {
		logger.Warn("dropping frame without data prefix (%d bytes)", len(frame))
		return domain.StreamEvent{}, false
	}
	payload = bytes.TrimSpace(payload)

	if string(payload) == doneSentinel {
		d.done = true
		return domain.StreamEvent{}, false
	}

	var wire wireEvent
	if err := json.Unmarshal(payload, &wire); err != nil {
		logger.Warn("dropping malformed frame: %v", err)
		return domain.StreamEvent{}, false
	}

	event := domain.StreamEvent{
		ConversationID: wire.ConversationID,
		Message:        wire.Message,
		Content:        wire.Content,
	}
	switch wire.Type {
	case "start":
		event.Type = domain.EventStart
	case "status":
		event.Type = domain.EventStatus
	case "token":
		event.Type = domain.EventToken
	case "complete":
		event.Type = domain.EventComplete
		event.Citations = make([]domain.Citation, 0, len(wire.Citations))
		for _, c := range wire.Citations {
			event.Citations = append(event.Citations, c.toDomain())
		}
		event.Metadata = domain.QueryMetadata{
			QueryType:     wire.QueryType,
			UsedWebSearch: wire.UsedWebSearch,
		}
	case "error":
		event.Type = domain.EventError
	default:
		logger.Warn("dropping frame with unknown event type %q", wire.Type)
		return domain.StreamEvent{}, false
	}

	return event, true
}
