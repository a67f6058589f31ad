package pool

import (
	"context"
	"errors"
	"sync/atomic"
)

// manager owns the worker processes of one engine. It is not safe for
// concurrent use; the engine serializes access.
type manager struct {
	conf    *engineConfig
	metrics *engineMetrics

	workers []*worker

	// nextWorkerID numbers workers of the current pool. It restarts at 0 only
	// when the pool is empty, so live workers never share an ID.
	nextWorkerID int

	// requestIDs numbers requests across all workers. 0 is the ready frame.
	requestIDs atomic.Uint64
}

func newManager(conf *engineConfig, metrics *engineMetrics) *manager {
	return &manager{
		conf:    conf,
		metrics: metrics,
	}
}

// ensure starts workers until n are live. The first spawn failure stops it;
// the pool carries on with the workers it has. A cancelled ctx is not a spawn
// failure: ensure stops and returns the context error.
func (m *manager) ensure(ctx context.Context, n int) error {
	for len(m.workers) < n {
		if err := ctx.Err(); err != nil {
			return err
		}

		id := m.nextWorkerID
		m.nextWorkerID++
		w, err := startWorker(ctx, m.conf.launcher, id, m.conf.spawnTimeout, &m.requestIDs, m.conf.logger)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return ctxErr
			}
			m.metrics.spawnFailed()
			m.conf.logger.Warnf("maintaining %d worker processes due to a spawn failure: %v", len(m.workers), err)
			return nil
		}

		m.workers = append(m.workers, w)
		m.metrics.workerStarted()
		m.conf.logger.Debugf("worker %d started with pid %d", id, w.pid)
	}
	return nil
}

// resize grows the pool to n workers. A smaller n leaves the pool alone.
// Growing rebuilds the whole pool unless incremental growth is enabled.
func (m *manager) resize(ctx context.Context, n int) error {
	m.prune()
	if n <= len(m.workers) {
		return nil
	}

	if m.conf.incrementalGrowth {
		m.conf.logger.Debugf("growing pool from %d to %d workers", len(m.workers), n)
	} else {
		m.conf.logger.Debugf("rebuilding pool: %d -> %d workers", len(m.workers), n)
		m.teardown()
	}
	return m.ensure(ctx, n)
}

// prune drops workers whose process has died.
func (m *manager) prune() {
	live := m.workers[:0]
	for _, w := range m.workers {
		if w.isAlive() {
			live = append(live, w)
			continue
		}
		m.conf.logger.Warnf("worker %d (pid %d) exited, removing it from the pool", w.id, w.pid)
		w.kill()
		m.metrics.workerStopped()
	}
	clear(m.workers[len(live):])
	m.workers = live
}

// teardown kills every worker. Calling it on an empty pool does nothing.
func (m *manager) teardown() {
	for _, w := range m.workers {
		w.kill()
		m.metrics.workerStopped()
	}
	if len(m.workers) > 0 {
		m.conf.logger.Debugf("stopped %d worker processes", len(m.workers))
	}
	m.workers = nil
	m.nextWorkerID = 0
}

func (m *manager) size() int {
	return len(m.workers)
}

// snapshot returns the first n workers, or all of them when fewer are live.
func (m *manager) snapshot(n int) []*worker {
	n = min(n, len(m.workers))
	out := make([]*worker, n)
	copy(out, m.workers[:n])
	return out
}
