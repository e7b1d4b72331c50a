package auth

import (
	"context"
	"time"

	"github.com/lmagsino/stride/internal/db"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "jwt_denylist:"

// Denylist records revoked token ids until their natural expiry.
type Denylist interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// NewDenylist prefers Redis and falls back to the jwt_denylist table when no
// Redis client is configured.
func NewDenylist(rdb *redis.Client, q db.Querier) Denylist {
	if rdb != nil {
		return &RedisDenylist{client: rdb}
	}
	return &PostgresDenylist{db: q}
}

type RedisDenylist struct {
	client *redis.Client
}

func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client}
}

func (d *RedisDenylist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denylistPrefix+jti, "1", ttl).Err()
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, denylistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type PostgresDenylist struct {
	db db.Querier
}

func NewPostgresDenylist(q db.Querier) *PostgresDenylist {
	return &PostgresDenylist{db: q}
}

func (d *PostgresDenylist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := d.db.Exec(ctx, `
		INSERT INTO jwt_denylist (jti, expires_at)
		VALUES ($1,$2)
		ON CONFLICT (jti) DO NOTHING
	`, jti, expiresAt)
	return err
}

func (d *PostgresDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := d.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM jwt_denylist WHERE jti = $1)`, jti).Scan(&revoked)
	return revoked, err
}
