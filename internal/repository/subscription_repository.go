package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/varnooj/SubsPanel/internal/domain"
)

// tokenMintAttempts bounds the retry loop on token collisions. The unique
// constraint on subscriptions.token is the actual enforcement; randomness
// alone is not trusted.
const tokenMintAttempts = 3

// ErrTokenCollision is returned when token minting keeps hitting the unique
// constraint, which should never happen outside a broken RNG.
var ErrTokenCollision = errors.New("could not mint a unique token")

// SubscriptionRepository encapsulates subscription persistence. Every
// mutation is a single SQL statement, so per-record serialization comes from
// Postgres row locking.
type SubscriptionRepository interface {
	Create(ctx context.Context, name, content string) (*domain.Subscription, error)
	GetByID(ctx context.Context, id int64) (*domain.Subscription, error)
	GetByToken(ctx context.Context, token string) (*domain.Subscription, error)
	List(ctx context.Context) ([]domain.Subscription, error)
	Update(ctx context.Context, id int64, name, content string) error
	Toggle(ctx context.Context, id int64) error
	Rotate(ctx context.Context, id int64) (string, error)
	Delete(ctx context.Context, id int64) error
}

type subscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository instantiates repository.
func NewSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepository{pool: pool}
}

func (r *subscriptionRepository) Create(ctx context.Context, name, content string) (*domain.Subscription, error) {
	const query = `
        INSERT INTO subscriptions (name, token, content, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, TRUE, $4, $4)
        RETURNING id`

	now := time.Now().Unix()
	for attempt := 0; attempt < tokenMintAttempts; attempt++ {
		token, err := domain.NewToken()
		if err != nil {
			return nil, err
		}

		sub := &domain.Subscription{
			Name:      name,
			Token:     token,
			Content:   content,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		err = r.pool.QueryRow(ctx, query, name, token, content, now).Scan(&sub.ID)
		if err == nil {
			return sub, nil
		}
		if !isUniqueViolation(err) {
			return nil, err
		}
	}
	return nil, ErrTokenCollision
}

func (r *subscriptionRepository) GetByID(ctx context.Context, id int64) (*domain.Subscription, error) {
	const query = `
        SELECT id, name, token, content, is_active, created_at, updated_at
        FROM subscriptions WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *subscriptionRepository) GetByToken(ctx context.Context, token string) (*domain.Subscription, error) {
	const query = `
        SELECT id, name, token, content, is_active, created_at, updated_at
        FROM subscriptions WHERE token=$1`
	return r.fetchSingle(ctx, query, token)
}

func (r *subscriptionRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Subscription, error) {
	var sub domain.Subscription
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&sub.ID,
		&sub.Name,
		&sub.Token,
		&sub.Content,
		&sub.IsActive,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) List(ctx context.Context) ([]domain.Subscription, error) {
	const query = `
        SELECT id, name, token, content, is_active, created_at, updated_at
        FROM subscriptions ORDER BY id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Subscription
	for rows.Next() {
		var sub domain.Subscription
		if err := rows.Scan(
			&sub.ID,
			&sub.Name,
			&sub.Token,
			&sub.Content,
			&sub.IsActive,
			&sub.CreatedAt,
			&sub.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, sub)
	}
	return result, rows.Err()
}

func (r *subscriptionRepository) Update(ctx context.Context, id int64, name, content string) error {
	const query = `UPDATE subscriptions SET name=$1, content=$2, updated_at=$3 WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, name, content, time.Now().Unix(), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Toggle flips is_active in place. A single statement keeps concurrent
// toggles on the same row serialized by the database.
func (r *subscriptionRepository) Toggle(ctx context.Context, id int64) error {
	const query = `UPDATE subscriptions SET is_active = NOT is_active, updated_at=$1 WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, time.Now().Unix(), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Rotate swaps in a freshly minted token. The single UPDATE makes the swap
// atomic: the old token stops resolving in the same instant the new one
// starts.
func (r *subscriptionRepository) Rotate(ctx context.Context, id int64) (string, error) {
	const query = `UPDATE subscriptions SET token=$1, updated_at=$2 WHERE id=$3`

	for attempt := 0; attempt < tokenMintAttempts; attempt++ {
		token, err := domain.NewToken()
		if err != nil {
			return "", err
		}

		cmd, err := r.pool.Exec(ctx, query, token, time.Now().Unix(), id)
		if err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return "", err
		}
		if cmd.RowsAffected() == 0 {
			return "", pgx.ErrNoRows
		}
		return token, nil
	}
	return "", ErrTokenCollision
}

func (r *subscriptionRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM subscriptions WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
