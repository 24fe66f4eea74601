// Package testcase maintains the descriptors of every discovered test so
// result events arriving later in the run can be correlated back to the test
// case the host was told about.
package testcase

import (
	"fmt"
	"sync"
)

// Descriptor is one discovered test as the host sees it. Immutable after
// creation; registered once per discovery and never evicted within a run.
type Descriptor struct {
	// EngineID is the id the engine uses in its event stream; cache key.
	EngineID string
	// ID is the host-visible stable id. Equals EngineID unless id-based
	// identity derived a hash from it.
	ID string

	FullyQualifiedName string
	DisplayName        string

	SourceFile string
	SourceLine int
}

// Cache maps engine ids to registered descriptors. Insert and lookup are
// guarded by a single lock; the host may dispatch discovery and result
// events from different goroutines, but at most one writer is active at a
// time.
type Cache struct {
	mu   sync.Mutex
	byID map[string]Descriptor
}

// NewCache returns an empty descriptor cache.
func NewCache() *Cache {
	return &Cache{byID: map[string]Descriptor{}}
}

// Register stores a descriptor under its engine id. Registering the same id
// twice is an error; replacing an entry is never done implicitly.
func (c *Cache) Register(d Descriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byID[d.EngineID]; exists {
		return fmt.Errorf("test case id (%s) is already registered", d.EngineID)
	}
	c.byID[d.EngineID] = d
	return nil
}

// Lookup returns the descriptor registered under the given engine id.
func (c *Cache) Lookup(id string) (Descriptor, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, ok := c.byID[id]
	return d, ok
}

// Len returns the number of registered descriptors.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.byID)
}
