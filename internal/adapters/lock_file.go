package adapters

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gofrs/flock"

	"maven-promote/internal/ports"
	"maven-promote/internal/shared"
)

// FileLockAdapter serialises promotions on one host through an advisory
// file lock. Acquisition never blocks.
type FileLockAdapter struct {
	Path string
}

func NewFileLockAdapter(path string) FileLockAdapter {
	return FileLockAdapter{Path: strings.TrimSpace(path)}
}

func (a FileLockAdapter) Acquire() (func() error, error) {
	if a.Path == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("lock file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(a.Path), 0755); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create lock directory").
			WithCause(err)
	}
	lock := flock.New(a.Path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to acquire promotion lock").
			WithCause(err)
	}
	if !locked {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(shared.LockHeldPrefix + ": " + a.Path)
	}
	return lock.Unlock, nil
}

var _ ports.LockPort = FileLockAdapter{}
