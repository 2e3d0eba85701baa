package tracing

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/tavolohq/resto-trace-backend/pkg/db/models"
)

// fileSink appends one JSON line per event to a local file. The file is
// opened lazily on first delivery so a misconfigured path surfaces as a
// delivery failure instead of a startup failure.
type fileSink struct {
	path string

	mu   sync.Mutex
	file *os.File
}

func NewFileSink(path string) Sink {
	return &fileSink{path: path}
}

func (s *fileSink) Name() string { return "file" }

func (s *fileSink) Deliver(ctx context.Context, event *models.TransactionEvent) error {
	payload, err := marshalEvent(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open trace file: %w", err)
		}
		s.file = f
	}
	if _, err := s.file.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("write trace file: %w", err)
	}
	return nil
}

func (s *fileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
