package xopen

import (
	"os/exec"
	"sync"
)

// ProgramCache memoises which external programs are present on this system so that repeated opens do not probe the
// filesystem again. Lookups are safe for concurrent use; Refresh is an exclusive operation.
type ProgramCache struct {
	mu    sync.RWMutex
	paths map[string]string
}

// NewProgramCache returns an empty ProgramCache.
func NewProgramCache() *ProgramCache {
	return &ProgramCache{paths: make(map[string]string)}
}

// Find returns the full path of the named program, probing the executable search path on first use and the cache
// afterwards. A program that exists but is not executable counts as unavailable. Probing errors are swallowed and
// treated as unavailable, never propagated.
func (c *ProgramCache) Find(name string) (string, bool) {
	c.mu.RLock()
	path, ok := c.paths[name]
	c.mu.RUnlock()
	if ok {
		return path, path != ""
	}

	// exec.LookPath rejects files without the executable bit.
	path, err := exec.LookPath(name)
	if err != nil {
		path = ""
	}

	c.mu.Lock()
	c.paths[name] = path
	c.mu.Unlock()

	return path, path != ""
}

// Available reports whether the named program can be executed on this system. Results are stable for the process
// lifetime unless Refresh is called.
func (c *ProgramCache) Available(name string) bool {
	_, ok := c.Find(name)
	return ok
}

// Refresh discards all memoised probe results so the next lookup probes the filesystem again.
func (c *ProgramCache) Refresh() {
	c.mu.Lock()
	c.paths = make(map[string]string)
	c.mu.Unlock()
}
