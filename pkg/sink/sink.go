package sink

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// Sender delivers encoded book updates to a downstream consumer.
// This keeps the replay loop decoupled from specific implementations
// like Kafka in the kafka package.
type Sender interface {
	// Send delivers one record. The key identifies the instrument the
	// record belongs to; writer-backed senders ignore it.
	Send(ctx context.Context, key string, record []byte) error
	Close() error
}

// WriterSender writes records as lines to an io.Writer through a buffer.
type WriterSender struct {
	w *bufio.Writer
	c io.Closer
}

// NewWriterSender creates a sender over w. If w is also an io.Closer it is
// closed along with the sender.
func NewWriterSender(w io.Writer) *WriterSender {
	s := &WriterSender{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		s.c = c
	}
	return s
}

// Send appends the record and a newline to the buffer.
func (s *WriterSender) Send(_ context.Context, _ string, record []byte) error {
	if _, err := s.w.Write(record); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// Close flushes buffered records and closes the underlying writer when it
// supports closing.
func (s *WriterSender) Close() error {
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("flush records: %w", err)
	}
	if s.c != nil {
		return s.c.Close()
	}
	return nil
}

// MultiSender fans every record out to all of its senders in order.
type MultiSender []Sender

func (m MultiSender) Send(ctx context.Context, key string, record []byte) error {
	for _, s := range m {
		if err := s.Send(ctx, key, record); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sender, returning the first error encountered.
func (m MultiSender) Close() error {
	var firstErr error
	for _, s := range m {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
