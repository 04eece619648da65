package service

import (
	"context"
	"strings"

	"github.com/varnooj/SubsPanel/internal/domain"
	"github.com/varnooj/SubsPanel/internal/repository"
)

// SubscriptionService carries the privileged admin operations against the
// record store. Callers reach it only through the session guard.
type SubscriptionService struct {
	subs repository.SubscriptionRepository
}

// NewSubscriptionService builds the service.
func NewSubscriptionService(subs repository.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{subs: subs}
}

// List returns every subscription, newest first.
func (s *SubscriptionService) List(ctx context.Context) ([]domain.Subscription, error) {
	return s.subs.List(ctx)
}

// Get fetches one subscription by id.
func (s *SubscriptionService) Get(ctx context.Context, id int64) (*domain.Subscription, error) {
	return s.subs.GetByID(ctx, id)
}

// Create stores a new subscription with a freshly minted token. The name is
// trimmed; content is stored verbatim.
func (s *SubscriptionService) Create(ctx context.Context, name, content string) (*domain.Subscription, error) {
	return s.subs.Create(ctx, strings.TrimSpace(name), content)
}

// Update replaces name and content, bumping updated_at.
func (s *SubscriptionService) Update(ctx context.Context, id int64, name, content string) error {
	return s.subs.Update(ctx, id, strings.TrimSpace(name), content)
}

// Toggle flips the active flag.
func (s *SubscriptionService) Toggle(ctx context.Context, id int64) error {
	return s.subs.Toggle(ctx, id)
}

// Rotate replaces the bearer token, invalidating the old one immediately.
func (s *SubscriptionService) Rotate(ctx context.Context, id int64) (string, error) {
	return s.subs.Rotate(ctx, id)
}

// Delete removes the subscription outright. No tombstone is kept.
func (s *SubscriptionService) Delete(ctx context.Context, id int64) error {
	return s.subs.Delete(ctx, id)
}
