package storage

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/interfaces"
)

// Object is a stored file of the in-memory storage
type Object struct {
	ContentType string
	Data        []byte
}

// Memory keeps uploads in process memory, for development and tests
type Memory struct {
	mu      sync.RWMutex
	objects map[string]Object
}

var _ interfaces.PhotoStorage = &Memory{}

func NewMemory() *Memory {
	return &Memory{
		objects: make(map[string]Object),
	}
}

func (m *Memory) Upload(ctx context.Context, object string, contentType string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", goerr.Wrap(err, "failed to read object", goerr.V("object", object))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[object] = Object{ContentType: contentType, Data: buf.Bytes()}

	return "memory://" + object, nil
}

// Get returns a stored object
func (m *Memory) Get(object string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[object]
	return o, ok
}

// Objects returns the names of all stored objects
func (m *Memory) Objects() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.objects))
	for name := range m.objects {
		names = append(names, name)
	}
	return names
}
