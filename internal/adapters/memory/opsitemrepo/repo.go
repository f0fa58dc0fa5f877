package opsitemrepo

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/storeops/route-scheduler-api/internal/domain"
	"github.com/storeops/route-scheduler-api/internal/ports/out/opsitemrepo"
)

// Repo is an in-memory implementation of opsitemrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.OperationalItemID]opsitemrepo.Item
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.OperationalItemID]opsitemrepo.Item),
	}
}

func (r *Repo) Upsert(ctx context.Context, item opsitemrepo.Item) error {
	_ = ctx
	if item.ID == "" {
		return errors.New("operational item id must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[item.ID] = cloneItem(item)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.OperationalItemID) (opsitemrepo.Item, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.byID[id]
	if !ok {
		return opsitemrepo.Item{}, opsitemrepo.ErrNotFound
	}
	return cloneItem(item), nil
}

func (r *Repo) ListByDay(ctx context.Context, scope domain.ScheduleScope) ([]opsitemrepo.Item, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := scope.DayKey()
	out := make([]opsitemrepo.Item, 0)
	for _, item := range r.byID {
		if item.Scope.DayKey() == key {
			out = append(out, cloneItem(item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.OperationalItemID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return opsitemrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func cloneItem(item opsitemrepo.Item) opsitemrepo.Item {
	cp := item
	if item.Location != nil {
		v := *item.Location
		cp.Location = &v
	}
	return cp
}
