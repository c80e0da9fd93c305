package promoservice

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"coursemart/internal/domain"
	"coursemart/internal/pg"
)

type Repo interface {
	GetByCode(ctx context.Context, code string) (*domain.Promocode, error)
	Create(ctx context.Context, promo *domain.Promocode) (*domain.Promocode, error)
	List(ctx context.Context) ([]domain.Promocode, error)
	ConsumeActivation(ctx context.Context, promocodeID int64) (*domain.Promocode, error)
	CreateUserActivation(ctx context.Context, userID, promocodeID int64) error
	GetUserActivation(ctx context.Context, userID, promocodeID int64) (*domain.UserPromocode, error)
}

var (
	ErrPromoNotFound    = errors.New("promocode not found")
	ErrPromoExpired     = errors.New("promocode expired")
	ErrPromoExhausted   = errors.New("promocode activation limit reached")
	ErrPromoAlreadyUsed = errors.New("promocode already used by this user")
	ErrPromoExists      = errors.New("promocode already exists")
)

type Service struct {
	promoRepo Repo
	txManager pg.TXManager
}

func New(promoRepo Repo, txManager pg.TXManager) *Service {
	return &Service{
		promoRepo: promoRepo,
		txManager: txManager,
	}
}

// Activate redeems code for the user: one use per user, counted against the
// code's activation limit. The counter bump and the redemption record commit
// together.
func (s *Service) Activate(ctx context.Context, userID int64, code string) (*domain.Promocode, error) {
	promo, err := s.promoRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return nil, ErrPromoNotFound
	}
	if promo.ExpiresAt != nil && promo.ExpiresAt.Before(time.Now()) {
		return nil, ErrPromoExpired
	}
	if promo.Activations >= promo.MaxActivations {
		return nil, ErrPromoExhausted
	}

	activation, err := s.promoRepo.GetUserActivation(ctx, userID, promo.ID)
	if err != nil {
		return nil, err
	}
	if activation != nil {
		return nil, ErrPromoAlreadyUsed
	}

	var result *domain.Promocode
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		consumed, err := s.promoRepo.ConsumeActivation(ctx, promo.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrPromoExhausted
			}
			return err
		}
		if err := s.promoRepo.CreateUserActivation(ctx, userID, promo.ID); err != nil {
			return err
		}
		result = consumed
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrPromoExhausted) {
			zap.L().Error("failed to activate promocode", zap.String("code", code), zap.Error(err))
		}
		return nil, err
	}
	return result, nil
}

func (s *Service) Create(ctx context.Context, promo *domain.Promocode) (*domain.Promocode, error) {
	existing, err := s.promoRepo.GetByCode(ctx, promo.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPromoExists
	}

	created, err := s.promoRepo.Create(ctx, promo)
	if err != nil {
		zap.L().Error("failed to create promocode", zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Promocode, error) {
	promos, err := s.promoRepo.List(ctx)
	if err != nil {
		zap.L().Error("failed to list promocodes", zap.Error(err))
		return nil, err
	}
	return promos, nil
}
