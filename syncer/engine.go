// Package syncer keeps the replica and the persistence service
// eventually consistent. Mutations are applied locally first; pushes
// run in the background and roll their channel back on failure.
package syncer

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bobinette/inkwell"
	"github.com/bobinette/inkwell/log"
	"github.com/bobinette/inkwell/replica"
)

// Freshness is how long a completed bulk load is considered current.
// Loads within the window return without a network call unless forced.
const Freshness = 30 * time.Second

// Notice is a recoverable sync failure surfaced on the side channel. It
// never fails the call that triggered the push: that call has already
// returned.
type Notice struct {
	Channel string
	Err     error
}

// Notifier receives failure notices. Implementations must not block.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type Engine struct {
	store       *replica.Store
	persistence inkwell.Persistence
	logger      log.Logger
	notifier    Notifier

	freshness time.Duration

	group singleflight.Group
	wg    sync.WaitGroup

	mu       sync.Mutex
	loadedAt time.Time
}

func New(store *replica.Store, persistence inkwell.Persistence, logger log.Logger, notifier Notifier) *Engine {
	return &Engine{
		store:       store,
		persistence: persistence,
		logger:      logger,
		notifier:    notifier,
		freshness:   Freshness,
	}
}

// SetFreshness overrides the freshness window. Tests use it to make
// the window collapse or stretch.
func (e *Engine) SetFreshness(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.freshness = d
}

func (e *Engine) fresh() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.loadedAt.IsZero() && time.Since(e.loadedAt) < e.freshness
}

// touch refreshes the freshness stamp. Called after a successful push
// so a near-simultaneous bulk load does not overwrite the just
// committed state with stale server data.
func (e *Engine) touch() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loadedAt = time.Now()
}

// BulkLoad replaces the replica with the remote dataset. A load
// completed within the freshness window is skipped unless force is
// set. Concurrent calls share a single network call.
func (e *Engine) BulkLoad(ctx context.Context, force bool) error {
	if !force && e.fresh() {
		return nil
	}

	_, err, _ := e.group.Do("bulk-load", func() (interface{}, error) {
		dataset, err := e.persistence.ReadAll(ctx)
		if err != nil {
			return nil, err
		}

		dataset.RecomputeScores()
		e.store.Replace(dataset)
		e.touch()
		return nil, nil
	})
	return err
}

// push commits one channel in the background. On failure the rollback
// restores the channel snapshot and a notice is emitted; other channels
// are never touched.
func (e *Engine) push(channel string, commit func(context.Context) error, rollback func()) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		if err := commit(context.Background()); err != nil {
			e.logger.Errorf("push on channel %s failed: %v", channel, err)
			rollback()
			if e.notifier != nil {
				e.notifier.Notify(Notice{Channel: channel, Err: err})
			}
			return
		}
		e.touch()
	}()
}

// PushSamples transmits the current state of one user's sample channel.
// The snapshot is the channel's state before the mutation, restored on
// failure.
func (e *Engine) PushSamples(userID string, snapshot []inkwell.Sample) {
	samples := e.store.SamplesForUser(userID)
	e.push("samples:"+userID,
		func(ctx context.Context) error { return e.persistence.WriteSamples(ctx, userID, samples) },
		func() { e.store.RestoreSamples(userID, snapshot) },
	)
}

// PushWorks transmits the current state of one user's work channel.
func (e *Engine) PushWorks(userID string, snapshot []inkwell.Work) {
	works := e.store.WorksForUser(userID)
	e.push("works:"+userID,
		func(ctx context.Context) error { return e.persistence.WriteWorks(ctx, userID, works) },
		func() { e.store.RestoreWorks(userID, snapshot) },
	)
}

// PushRatings transmits the system slice after a rating mutation. Only
// the rating channel is rolled back on failure.
func (e *Engine) PushRatings(snapshot []inkwell.Rating) {
	system := e.system()
	e.push("ratings",
		func(ctx context.Context) error { return e.persistence.WriteSystem(ctx, system) },
		func() { e.store.RestoreRatings(snapshot) },
	)
}

// PushUsers transmits the system slice after a user mutation.
func (e *Engine) PushUsers(snapshot []inkwell.User) {
	system := e.system()
	e.push("users",
		func(ctx context.Context) error { return e.persistence.WriteSystem(ctx, system) },
		func() { e.store.RestoreUsers(snapshot) },
	)
}

// PushSettings transmits the system slice after a settings mutation.
func (e *Engine) PushSettings(snapshot *inkwell.Settings) {
	system := e.system()
	e.push("settings",
		func(ctx context.Context) error { return e.persistence.WriteSystem(ctx, system) },
		func() { e.store.RestoreSettings(snapshot) },
	)
}

func (e *Engine) system() inkwell.System {
	dataset := e.store.Dataset()
	return inkwell.System{
		SchemaVersion: dataset.SchemaVersion,
		Users:         dataset.Users,
		Ratings:       dataset.Ratings,
		Settings:      dataset.Settings,
	}
}

// Wait blocks until every in-flight push has resolved.
func (e *Engine) Wait() {
	e.wg.Wait()
}
