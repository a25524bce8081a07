// Package knowledge tracks the spreadsheet and JSON files uploaded as the
// agent's knowledge base. Only the file inventory lives here; content is
// never parsed by the backoffice.
package knowledge

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnsupportedFile is returned for extensions the panel does not accept.
var ErrUnsupportedFile = errors.New("knowledge: unsupported file type")

// ErrFileNotFound is returned when a file id is not in the inventory.
var ErrFileNotFound = errors.New("knowledge: file not found")

// Status tracks a file through intake.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusProcessed  Status = "processed"
)

// File is one inventory entry.
type File struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	Status  Status    `json:"status"`
	AddedAt time.Time `json:"addedAt"`
}

// acceptedExtensions are the only file types the panel takes. Acceptance is
// by name alone; the backend owns real content validation.
var acceptedExtensions = map[string]struct{}{
	".xlsx": {},
	".xls":  {},
	".json": {},
}

// Accepts reports whether a file name would pass intake.
func Accepts(name string) bool {
	_, ok := acceptedExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Intake is the in-memory file inventory, insertion ordered.
type Intake struct {
	logger *zap.Logger

	mu    sync.Mutex
	files []*File
}

// NewIntake builds an empty inventory.
func NewIntake(logger *zap.Logger) *Intake {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Intake{logger: logger}
}

// Add registers a file by name and size. The entry starts in
// StatusProcessing and moves to StatusProcessed through Ingest.
func (i *Intake) Add(name string, size int64) (File, error) {
	if !Accepts(name) {
		return File{}, fmt.Errorf("%w: %q", ErrUnsupportedFile, name)
	}

	f := &File{
		ID:      uuid.NewString(),
		Name:    name,
		Size:    size,
		Status:  StatusProcessing,
		AddedAt: time.Now().UTC(),
	}

	i.mu.Lock()
	i.files = append(i.files, f)
	i.mu.Unlock()

	i.logger.Info("knowledge file accepted",
		zap.String("id", f.ID),
		zap.String("name", f.Name),
		zap.Int64("size", f.Size))
	return *f, nil
}

// Ingest marks a file processed. Content extraction belongs to the chatbot
// backend; this step only advances the inventory status and is intentionally
// a no-op beyond that.
func (i *Intake) Ingest(id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	f := i.find(id)
	if f == nil {
		return fmt.Errorf("%w: %q", ErrFileNotFound, id)
	}
	f.Status = StatusProcessed
	return nil
}

// Remove drops a file from the inventory.
func (i *Intake) Remove(id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	for idx, f := range i.files {
		if f.ID == id {
			i.files = append(i.files[:idx], i.files[idx+1:]...)
			i.logger.Info("knowledge file removed", zap.String("id", id), zap.String("name", f.Name))
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrFileNotFound, id)
}

// List returns the inventory in insertion order.
func (i *Intake) List() []File {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := make([]File, len(i.files))
	for idx, f := range i.files {
		out[idx] = *f
	}
	return out
}

// Get returns one entry by id.
func (i *Intake) Get(id string) (File, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if f := i.find(id); f != nil {
		return *f, nil
	}
	return File{}, fmt.Errorf("%w: %q", ErrFileNotFound, id)
}

func (i *Intake) find(id string) *File {
	for _, f := range i.files {
		if f.ID == id {
			return f
		}
	}
	return nil
}
