package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/varnooj/SubsPanel/internal/domain"
)

// memoryRepo is an in-memory stand-in for the Postgres repository. Mutations
// hold one lock, mirroring the per-record serialization the real store gets
// from row locking.
type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	subs   map[int64]*domain.Subscription
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{subs: make(map[int64]*domain.Subscription)}
}

func (r *memoryRepo) Create(_ context.Context, name, content string) (*domain.Subscription, error) {
	token, err := domain.NewToken()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := time.Now().Unix()
	sub := &domain.Subscription{
		ID:        r.nextID,
		Name:      name,
		Token:     token,
		Content:   content,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.subs[sub.ID] = sub
	copied := *sub
	return &copied, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id int64) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *sub
	return &copied, nil
}

func (r *memoryRepo) GetByToken(_ context.Context, token string) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sub := range r.subs {
		if sub.Token == token {
			copied := *sub
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryRepo) List(_ context.Context) ([]domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Subscription, 0, len(r.subs))
	for id := r.nextID; id >= 1; id-- {
		if sub, ok := r.subs[id]; ok {
			result = append(result, *sub)
		}
	}
	return result, nil
}

func (r *memoryRepo) Update(_ context.Context, id int64, name, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[id]
	if !ok {
		return pgx.ErrNoRows
	}
	sub.Name = name
	sub.Content = content
	sub.UpdatedAt = time.Now().Unix()
	return nil
}

func (r *memoryRepo) Toggle(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[id]
	if !ok {
		return pgx.ErrNoRows
	}
	sub.IsActive = !sub.IsActive
	sub.UpdatedAt = time.Now().Unix()
	return nil
}

func (r *memoryRepo) Rotate(_ context.Context, id int64) (string, error) {
	token, err := domain.NewToken()
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[id]
	if !ok {
		return "", pgx.ErrNoRows
	}
	sub.Token = token
	sub.UpdatedAt = time.Now().Unix()
	return token, nil
}

func (r *memoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.subs, id)
	return nil
}
