package event

import (
	"context"
	"fmt"
	"io"
	"sync"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/ae-conditions/internal/domain/alarm"
)

// Writer writes every published record as one protojson line.
// It satisfies the engine condition, event and ack sinks and is safe for concurrent use.
type Writer struct {
	// out receives the encoded lines.
	out io.Writer
	// options controls protojson rendering.
	options protojson.MarshalOptions
	// mu serializes writes so lines never interleave.
	mu sync.Mutex
}

// NewWriter creates a Writer on top of out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{
		out: out,
		options: protojson.MarshalOptions{
			UseProtoNames: true,
		},
	}
}

// PublishCondition writes a condition notification.
func (w *Writer) PublishCondition(_ context.Context, n *alarm.Notification) error {
	return w.write(FromNotification(n))
}

// PublishEvent writes a simple or tracking event.
func (w *Writer) PublishEvent(_ context.Context, e *alarm.Event) error {
	return w.write(FromEvent(e))
}

// PublishAck writes an acknowledgment confirmation.
func (w *Writer) PublishAck(_ context.Context, a *alarm.AckConfirmation) error {
	return w.write(FromAck(a))
}

func (w *Writer) write(record *structpb.Struct) error {
	data, err := w.options.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	data = append(data, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err = w.out.Write(data); err != nil {
		return fmt.Errorf("write record: %w", err)
	}

	return nil
}
