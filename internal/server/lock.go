package server

import (
	"errors"
	"fmt"
	"os"

	"github.com/filemanager/filemanager/internal/utils"
	"github.com/gofrs/flock"
)

var ErrServerLocked = errors.New("another server instance is using this database")

// Lock is an exclusive file lock held next to the database for the
// lifetime of a server process.
type Lock struct {
	flock *flock.Flock
}

func NewLock(dbPath string) *Lock {
	return &Lock{flock: flock.New(dbPath + ".lock")}
}

func (l *Lock) Acquire() error {
	if err := utils.EnsureParent(l.flock.Path()); err != nil {
		return fmt.Errorf("lock dir: %w", err)
	}

	locked, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("lock: %w", err)
	}
	if !locked {
		return ErrServerLocked
	}
	return nil
}

func (l *Lock) Release() error {
	if !l.flock.Locked() {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return err
	}
	if err := os.Remove(l.flock.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
