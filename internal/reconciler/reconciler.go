// Package reconciler periodically re-checks payments stuck in pending or
// processing. Webhooks can be lost; polling the gateway is the fallback path
// that eventually settles every payment.
package reconciler

import (
	"context"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"coursemart/internal/config"
	"coursemart/internal/domain"
	"coursemart/internal/gateway/yookassa"
)

const (
	maxRetries    = 3
	retryInterval = time.Second * 1
)

var processingPayments sync.Map

type PaymentRepo interface {
	FindUnsettled(ctx context.Context, age time.Duration, limit int) ([]domain.Payment, error)
}

type Settler interface {
	ApplyGatewayStatus(ctx context.Context, gatewayPaymentID, gatewayStatus string) error
}

type Service struct {
	paymentRepo PaymentRepo
	settler     Settler
	gateway     yookassa.ClientI
	limit       int
	staleAfter  time.Duration
	workerPool  WorkerPoolI
	interval    time.Duration
}

func New(cfg *config.Config, paymentRepo PaymentRepo, settler Settler, gateway yookassa.ClientI) *Service {
	return &Service{
		paymentRepo: paymentRepo,
		settler:     settler,
		gateway:     gateway,
		limit:       1000,
		staleAfter:  cfg.ReconcileAfter,
		workerPool:  NewWorkerPool(10),
		interval:    cfg.ReconcileInterval,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Payment reconciler started")
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping reconciler")
			return
		case <-ticker.C:
			s.processPayments(ctx)
		}
	}
}

func (s *Service) processPayments(ctx context.Context) {
	payments, err := s.paymentRepo.FindUnsettled(ctx, s.staleAfter, s.limit)
	if err != nil {
		zap.L().Error("Failed to fetch unsettled payments", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, payment := range payments {
		payment := payment

		if _, loaded := processingPayments.LoadOrStore(payment.GatewayPaymentID, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer processingPayments.Delete(payment.GatewayPaymentID)
				return s.handlePayment(ctx, payment)
			})
			if err != nil {
				processingPayments.Delete(payment.GatewayPaymentID)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error reconciling payments", zap.Error(err))
	}
}

// handlePayment asks the gateway for the payment's current status and applies
// it through the same path the webhook uses, so settlement stays idempotent
// whichever side lands first.
func (s *Service) handlePayment(ctx context.Context, payment domain.Payment) error {
	var gwPayment *yookassa.Payment

	backoff := retry.WithMaxRetries(maxRetries, retry.NewConstant(retryInterval))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		gwPayment, err = s.gateway.GetPayment(ctx, payment.GatewayPaymentID)
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		zap.L().Error("Failed to fetch payment from gateway",
			zap.String("gateway_payment_id", payment.GatewayPaymentID),
			zap.Error(err))
		return err
	}

	if err := s.settler.ApplyGatewayStatus(ctx, payment.GatewayPaymentID, gwPayment.Status); err != nil {
		zap.L().Error("Failed to apply gateway status",
			zap.String("gateway_payment_id", payment.GatewayPaymentID),
			zap.String("status", gwPayment.Status),
			zap.Error(err))
		return err
	}
	return nil
}
