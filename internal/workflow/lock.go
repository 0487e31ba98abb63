package workflow

import (
	"errors"
	"fmt"

	"diarist/internal/logging"
)

// ErrBusy reports that another process holds the run lock.
var ErrBusy = errors.New("another diarist run is in progress")

func (r *Runner) acquire() (func(), error) {
	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	ok, err := r.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrBusy, r.cfg.LockPath())
	}
	return func() {
		if err := r.lock.Unlock(); err != nil {
			logging.WarnWithContext(r.logger, "failed to release run lock", "lock_release_failed",
				logging.Error(err),
				logging.String("lock", r.cfg.LockPath()),
				logging.String(logging.FieldErrorHint, "remove the lock file if no diarist process is running"),
			)
		}
	}, nil
}
