package compose

import (
	"fmt"
	"sync"

	"uniconnect/internal/models"

	"github.com/google/uuid"
)

// PreviewAllocator hands out preview handles for selected files. Every
// handle returned by Create must be given back to Release exactly once.
type PreviewAllocator interface {
	Create(file models.Upload) (string, error)
	Release(handle string) error
}

// MemoryAllocator issues opaque preview:<uuid> handles and tracks which
// ones are still live.
type MemoryAllocator struct {
	mu   sync.Mutex
	live map[string]string
}

func NewMemoryAllocator() *MemoryAllocator {
	return &MemoryAllocator{live: make(map[string]string)}
}

func (a *MemoryAllocator) Create(file models.Upload) (string, error) {
	if file.Name == "" {
		return "", models.NewValidationError("file name is required")
	}
	handle := "preview:" + uuid.NewString()
	a.mu.Lock()
	a.live[handle] = file.Name
	a.mu.Unlock()
	return handle, nil
}

func (a *MemoryAllocator) Release(handle string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.live[handle]; !ok {
		return fmt.Errorf("preview handle %q is not live", handle)
	}
	delete(a.live, handle)
	return nil
}

// Live reports how many handles have been created and not yet released.
func (a *MemoryAllocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}
