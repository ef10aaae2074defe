// Package lockedfile provides an inter-process mutex backed by a file lock.
package lockedfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// A Mutex provides mutual exclusion within and across processes by
// locking a well-known file.
type Mutex struct {
	path string
}

// MutexAt returns a new Mutex with the given path. The file is created on
// first Lock and never removed.
func MutexAt(path string) *Mutex {
	return &Mutex{path: path}
}

// Lock blocks until the mutex is held and returns a function that
// releases it.
func (mu *Mutex) Lock() (release func(), err error) {
	if err := os.MkdirAll(filepath.Dir(mu.path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(mu.path, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return nil, err
	}
	if err := lock(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("lock %s: %w", mu.path, err)
	}
	return func() {
		unlock(f)
		f.Close()
	}, nil
}
