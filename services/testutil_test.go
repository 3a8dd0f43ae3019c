package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/bobinette/inkwell"
	"github.com/bobinette/inkwell/log"
	"github.com/bobinette/inkwell/replica"
	"github.com/bobinette/inkwell/syncer"
)

// fakePersistence records slice writes and can be told to fail
// specific channels.
type fakePersistence struct {
	mu      sync.Mutex
	failing map[string]bool

	sampleWrites map[string][]inkwell.Sample
	workWrites   map[string][]inkwell.Work
	systemWrites int
}

func newFakePersistence() *fakePersistence {
	return &fakePersistence{
		failing:      make(map[string]bool),
		sampleWrites: make(map[string][]inkwell.Sample),
		workWrites:   make(map[string][]inkwell.Work),
	}
}

func (p *fakePersistence) fail(channel string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failing[channel] = true
}

func (p *fakePersistence) ReadAll(ctx context.Context) (inkwell.Dataset, error) {
	return inkwell.Dataset{}, nil
}

func (p *fakePersistence) WriteSamples(ctx context.Context, userID string, samples []inkwell.Sample) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failing["samples:"+userID] {
		return fmt.Errorf("persistence unavailable")
	}
	p.sampleWrites[userID] = samples
	return nil
}

func (p *fakePersistence) WriteWorks(ctx context.Context, userID string, works []inkwell.Work) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failing["works:"+userID] {
		return fmt.Errorf("persistence unavailable")
	}
	p.workWrites[userID] = works
	return nil
}

func (p *fakePersistence) WriteSystem(ctx context.Context, system inkwell.System) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failing["system"] {
		return fmt.Errorf("persistence unavailable")
	}
	p.systemWrites++
	return nil
}

// noticeRecorder collects sync failure notices.
type noticeRecorder struct {
	mu      sync.Mutex
	notices []syncer.Notice
}

func (r *noticeRecorder) Notify(n syncer.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *noticeRecorder) channels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	channels := make([]string, len(r.notices))
	for i, n := range r.notices {
		channels[i] = n.Channel
	}
	return channels
}

type env struct {
	store       *replica.Store
	engine      *syncer.Engine
	persistence *fakePersistence
	notices     *noticeRecorder
}

func newEnv() *env {
	store := replica.New()
	persistence := newFakePersistence()
	notices := &noticeRecorder{}
	engine := syncer.New(store, persistence, log.Nop(), notices)
	return &env{
		store:       store,
		engine:      engine,
		persistence: persistence,
		notices:     notices,
	}
}

func (e *env) addUser(id string, role inkwell.Role, visibility inkwell.Visibility) Session {
	user := inkwell.User{
		ID:                   id,
		Username:             id,
		Role:                 role,
		CollectionVisibility: visibility,
		CreatedAt:            inkwell.Now(),
	}
	e.store.UpsertUser(user)
	return NewSession(user)
}
