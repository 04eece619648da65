package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/varnooj/SubsPanel/internal/repository"
)

// Delivery outcomes the HTTP boundary maps to 404 and 410. A rotated-away or
// deleted token is indistinguishable from one that never existed.
var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrSubscriptionDisabled = errors.New("subscription disabled")
)

// DeliveryService resolves bearer tokens to normalized subscription content.
// The path is read only: delivery never mutates the record, so many clients
// can poll concurrently.
type DeliveryService struct {
	subs repository.SubscriptionRepository
}

// NewDeliveryService builds the service.
func NewDeliveryService(subs repository.SubscriptionRepository) *DeliveryService {
	return &DeliveryService{subs: subs}
}

// Deliver looks up the token and returns the normalized content.
func (s *DeliveryService) Deliver(ctx context.Context, token string) (string, error) {
	sub, err := s.subs.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrSubscriptionNotFound
		}
		return "", err
	}
	if !sub.IsActive {
		return "", ErrSubscriptionDisabled
	}
	return NormalizeContent(sub.Content), nil
}

// NormalizeContent converts CRLF line endings to LF, strips surrounding
// whitespace, and appends exactly one trailing newline.
func NormalizeContent(content string) string {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	return strings.TrimSpace(normalized) + "\n"
}
