package reconciler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"coursemart/internal/domain"
	"coursemart/internal/gateway/yookassa"
)

func newService(t *testing.T) (*Service, *MockPaymentRepo, *MockSettler, *yookassa.MockClientI) {
	ctrl := gomock.NewController(t)
	paymentRepo := NewMockPaymentRepo(ctrl)
	settler := NewMockSettler(ctrl)
	gateway := yookassa.NewMockClientI(ctrl)
	service := &Service{
		paymentRepo: paymentRepo,
		settler:     settler,
		gateway:     gateway,
		limit:       1000,
		staleAfter:  10 * time.Minute,
		workerPool:  NewWorkerPool(2),
		interval:    time.Minute,
	}
	defer ctrl.Finish()
	return service, paymentRepo, settler, gateway
}

func TestHandlePayment(t *testing.T) {
	payment := domain.Payment{ID: 9, GatewayPaymentID: "2d6b1f", Status: domain.PaymentPending}

	t.Run("Gateway status is applied through the settler", func(t *testing.T) {
		service, _, settler, gateway := newService(t)

		gateway.EXPECT().GetPayment(gomock.Any(), "2d6b1f").Return(&yookassa.Payment{
			ID:     "2d6b1f",
			Status: yookassa.StatusSucceeded,
		}, nil)
		settler.EXPECT().ApplyGatewayStatus(gomock.Any(), "2d6b1f", yookassa.StatusSucceeded).Return(nil)

		err := service.handlePayment(context.Background(), payment)
		assert.NoError(t, err)
	})

	t.Run("Transient gateway failures are retried", func(t *testing.T) {
		service, _, settler, gateway := newService(t)

		gateway.EXPECT().GetPayment(gomock.Any(), "2d6b1f").Return(nil, assert.AnError)
		gateway.EXPECT().GetPayment(gomock.Any(), "2d6b1f").Return(&yookassa.Payment{
			ID:     "2d6b1f",
			Status: yookassa.StatusCanceled,
		}, nil)
		settler.EXPECT().ApplyGatewayStatus(gomock.Any(), "2d6b1f", yookassa.StatusCanceled).Return(nil)

		err := service.handlePayment(context.Background(), payment)
		assert.NoError(t, err)
	})

	t.Run("Exhausted retries surface the error", func(t *testing.T) {
		service, _, _, gateway := newService(t)

		gateway.EXPECT().GetPayment(gomock.Any(), "2d6b1f").Return(nil, assert.AnError).Times(maxRetries + 1)

		err := service.handlePayment(context.Background(), payment)
		assert.Error(t, err)
	})
}

func TestProcessPayments(t *testing.T) {
	service, paymentRepo, settler, gateway := newService(t)

	payments := []domain.Payment{
		{ID: 9, GatewayPaymentID: "2d6b1f"},
		{ID: 10, GatewayPaymentID: "7a01cc"},
	}

	var wg sync.WaitGroup
	wg.Add(len(payments))

	paymentRepo.EXPECT().FindUnsettled(gomock.Any(), 10*time.Minute, 1000).Return(payments, nil)
	for _, p := range payments {
		p := p
		gateway.EXPECT().GetPayment(gomock.Any(), p.GatewayPaymentID).Return(&yookassa.Payment{
			ID:     p.GatewayPaymentID,
			Status: yookassa.StatusSucceeded,
		}, nil)
		settler.EXPECT().ApplyGatewayStatus(gomock.Any(), p.GatewayPaymentID, yookassa.StatusSucceeded).DoAndReturn(
			func(context.Context, string, string) error {
				wg.Done()
				return nil
			},
		)
	}

	service.processPayments(context.Background())
	wg.Wait()
}

func TestWorkerPool(t *testing.T) {
	wp := NewWorkerPool(2)
	defer wp.Close()

	var mu sync.Mutex
	var executed int
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		err := wp.AddTask(context.Background(), func() error {
			defer wg.Done()
			mu.Lock()
			executed++
			mu.Unlock()
			return nil
		})
		assert.NoError(t, err)
	}

	wg.Wait()
	assert.Equal(t, 5, executed)
}

func TestWorkerPoolCloseDrainsQueue(t *testing.T) {
	wp := NewWorkerPool(1)

	block := make(chan struct{})
	_ = wp.AddTask(context.Background(), func() error {
		<-block
		return nil
	})

	var ran bool
	_ = wp.AddTask(context.Background(), func() error {
		ran = true
		return nil
	})

	close(block)
	wp.Close()
	assert.True(t, ran, "queued task must run before Close returns")
}

func TestWorkerPoolCanceledContext(t *testing.T) {
	wp := NewWorkerPool(1)
	defer wp.Close()

	block := make(chan struct{})
	done := make(chan struct{})
	_ = wp.AddTask(context.Background(), func() error {
		<-block
		close(done)
		return nil
	})
	// Fill the queue so the next AddTask has to wait on the context.
	_ = wp.AddTask(context.Background(), func() error { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := wp.AddTask(ctx, func() error {
		t.Error("task should not run")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	close(block)
	<-done
}
