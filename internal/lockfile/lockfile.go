// SPDX-License-Identifier: MPL-2.0

// Package lockfile implements the advisory relaunch lock. The lock is a
// marker file under a well-known directory whose existence signals that an
// update-and-relaunch attempt is already in progress, so a freshly spawned
// replacement process does not re-enter the same update loop.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// lockSuffix is the fixed extension appended to every marker file name.
const lockSuffix = ".lock"

var (
	// ErrConflict indicates a marker already exists at the generated path,
	// meaning another relaunch attempt is in flight.
	ErrConflict = errors.New("relaunch already in progress")

	// ErrCreate indicates the marker file could not be created for a reason
	// other than prior existence (permissions, missing directory, ...).
	ErrCreate = errors.New("creating lock file")
)

// Guard owns a single acquired lock marker. It is exclusively owned by the
// orchestration attempt that acquired it and must be released on every path
// that returns control to the caller.
type Guard struct {
	path     string
	released bool
}

// Acquire creates a uniquely named marker file under dir and returns a Guard
// owning it. The name is a random UUID with a fixed ".lock" suffix, so a
// collision with an existing file is indistinguishable from a concurrent
// relaunch and is reported as ErrConflict.
//
// Creation uses O_CREATE|O_EXCL so the existence check and the create are a
// single atomic filesystem operation.
func Acquire(dir string) (*Guard, error) {
	path := filepath.Join(dir, uuid.NewString()+lockSuffix)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrConflict, path)
		}
		return nil, fmt.Errorf("%w %s: %w", ErrCreate, path, err)
	}
	// The marker carries no content; its existence is the whole signal.
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("%w %s: %w", ErrCreate, path, err)
	}

	return &Guard{path: path}, nil
}

// Path returns the marker file location.
func (g *Guard) Path() string {
	return g.path
}

// Release removes the marker file. It is idempotent: the second and later
// calls are no-ops. Callers are expected to log and swallow the returned
// error: a marker that could not be deleted must not change the outcome of
// the attempt that created it.
func (g *Guard) Release() error {
	if g == nil || g.released {
		return nil
	}
	g.released = true

	if err := os.Remove(g.path); err != nil {
		return fmt.Errorf("removing lock file %s: %w", g.path, err)
	}
	return nil
}
