package tournament

import "context"

// tryLockAll locks every record or none of them.
func tryLockAll(table []*record) bool {
	for i, r := range table {
		if !r.mu.TryLock() {
			for _, held := range table[:i] {
				held.mu.Unlock()
			}
			return false
		}
	}
	return true
}

func unlockAll(table []*record) {
	for _, r := range table {
		r.mu.Unlock()
	}
}

// lockAll retries tryLockAll, waiting Backoff on the tournament clock between
// attempts with no locks held. It returns the number of failed attempts.
func (t *Tournament) lockAll(ctx context.Context, table []*record) (int, error) {
	retries := 0
	for !tryLockAll(table) {
		retries++
		timer := t.clock.NewTimer(t.opts.Backoff, "tournament", "backoff")
		select {
		case <-ctx.Done():
			timer.Stop()
			return retries, ctx.Err()
		case <-timer.C:
		}
	}
	return retries, nil
}
