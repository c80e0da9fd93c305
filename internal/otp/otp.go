// Package otp issues and checks one-time phone login codes backed by Redis.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrRateLimited     = errors.New("code was requested too recently")
	ErrCodeExpired     = errors.New("code expired or was never issued")
	ErrCodeMismatch    = errors.New("code does not match")
	ErrTooManyAttempts = errors.New("too many verification attempts")
)

const resendInterval = time.Minute

type StoreI interface {
	Issue(ctx context.Context, phone string) (string, error)
	Verify(ctx context.Context, phone, code string) error
}

type Store struct {
	rdb      *redis.Client
	ttl      time.Duration
	maxTries int
}

func NewStore(rdb *redis.Client, ttl time.Duration, maxTries int) *Store {
	return &Store{
		rdb:      rdb,
		ttl:      ttl,
		maxTries: maxTries,
	}
}

// Issue generates a 6-digit code for phone and stores it with the configured
// TTL. Repeat requests inside the resend window are rejected.
func (s *Store) Issue(ctx context.Context, phone string) (string, error) {
	ok, err := s.rdb.SetNX(ctx, resendKey(phone), 1, resendInterval).Result()
	if err != nil {
		return "", fmt.Errorf("failed to set resend guard: %w", err)
	}
	if !ok {
		return "", ErrRateLimited
	}

	code, err := generateCode()
	if err != nil {
		return "", err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, codeKey(phone), code, s.ttl)
	pipe.Del(ctx, triesKey(phone))
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to store code: %w", err)
	}

	return code, nil
}

// Verify checks code against the stored one, counting failed attempts. A
// successful check consumes the code.
func (s *Store) Verify(ctx context.Context, phone, code string) error {
	stored, err := s.rdb.Get(ctx, codeKey(phone)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCodeExpired
		}
		return fmt.Errorf("failed to get code: %w", err)
	}

	tries, err := s.rdb.Incr(ctx, triesKey(phone)).Result()
	if err != nil {
		return fmt.Errorf("failed to count attempt: %w", err)
	}
	if tries == 1 {
		s.rdb.Expire(ctx, triesKey(phone), s.ttl)
	}
	if int(tries) > s.maxTries {
		return ErrTooManyAttempts
	}

	if stored != code {
		return ErrCodeMismatch
	}

	s.rdb.Del(ctx, codeKey(phone), triesKey(phone))
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func codeKey(phone string) string   { return "otp:code:" + phone }
func triesKey(phone string) string  { return "otp:tries:" + phone }
func resendKey(phone string) string { return "otp:resend:" + phone }
