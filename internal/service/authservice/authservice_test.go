package authservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"coursemart/internal/domain"
	"coursemart/pkg/auth"
)

const (
	testBotToken = "110201543:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw"
	testVKSecret = "wvl68m4dR1UpLrVRli"
)

func NewMock(t *testing.T) (*Service, *MockRepo, *MockBalanceCreator) {
	ctrl := gomock.NewController(t)
	userRepo := NewMockRepo(ctrl)
	balanceCreator := NewMockBalanceCreator(ctrl)
	service := New(
		userRepo,
		balanceCreator,
		&auth.HashService{},
		auth.NewJWTService("test-secret"),
		nil,
		24*time.Hour,
		testBotToken,
		testVKSecret,
	)
	defer ctrl.Finish()
	return service, userRepo, balanceCreator
}

func TestRegister(t *testing.T) {
	t.Run("New account gets a balance row", func(t *testing.T) {
		service, userRepo, balanceCreator := NewMock(t)

		userRepo.EXPECT().FindByEmail(gomock.Any(), "user@example.com").Return(nil, nil)
		userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, user *domain.User) (*domain.User, error) {
				assert.Equal(t, "user@example.com", *user.Email)
				assert.NotNil(t, user.PasswordHash)
				assert.NotEqual(t, "secret", *user.PasswordHash)
				user.ID = 1
				return user, nil
			},
		)
		balanceCreator.EXPECT().CreateBalance(gomock.Any(), int64(1)).Return(&domain.Balance{UserID: 1}, nil)

		user, err := service.Register(context.Background(), "user@example.com", "secret", "Anna", nil)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		service, userRepo, _ := NewMock(t)

		userRepo.EXPECT().FindByEmail(gomock.Any(), "user@example.com").Return(&domain.User{ID: 1}, nil)

		user, err := service.Register(context.Background(), "user@example.com", "secret", "Anna", nil)
		assert.ErrorIs(t, err, ErrUserExists)
		assert.Nil(t, user)
	})

	t.Run("Referral from a partner is kept", func(t *testing.T) {
		service, userRepo, balanceCreator := NewMock(t)
		referrerID := int64(42)

		userRepo.EXPECT().FindByEmail(gomock.Any(), "user@example.com").Return(nil, nil)
		userRepo.EXPECT().FindByID(gomock.Any(), referrerID).Return(&domain.User{ID: referrerID, IsPartner: true}, nil)
		userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, user *domain.User) (*domain.User, error) {
				assert.NotNil(t, user.ReferredBy)
				assert.Equal(t, referrerID, *user.ReferredBy)
				user.ID = 1
				return user, nil
			},
		)
		balanceCreator.EXPECT().CreateBalance(gomock.Any(), int64(1)).Return(&domain.Balance{UserID: 1}, nil)

		_, err := service.Register(context.Background(), "user@example.com", "secret", "Anna", &referrerID)
		assert.NoError(t, err)
	})

	t.Run("Referral from a non-partner is dropped", func(t *testing.T) {
		service, userRepo, balanceCreator := NewMock(t)
		referrerID := int64(42)

		userRepo.EXPECT().FindByEmail(gomock.Any(), "user@example.com").Return(nil, nil)
		userRepo.EXPECT().FindByID(gomock.Any(), referrerID).Return(&domain.User{ID: referrerID, IsPartner: false}, nil)
		userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, user *domain.User) (*domain.User, error) {
				assert.Nil(t, user.ReferredBy)
				user.ID = 1
				return user, nil
			},
		)
		balanceCreator.EXPECT().CreateBalance(gomock.Any(), int64(1)).Return(&domain.Balance{UserID: 1}, nil)

		_, err := service.Register(context.Background(), "user@example.com", "secret", "Anna", &referrerID)
		assert.NoError(t, err)
	})
}

func TestAuthenticate(t *testing.T) {
	hashService := &auth.HashService{}
	hash, err := hashService.HashPassword("secret")
	assert.NoError(t, err)

	tests := []struct {
		name          string
		password      string
		prepareMock   func(userRepo *MockRepo)
		expectedError error
	}{
		{
			name:     "Correct password",
			password: "secret",
			prepareMock: func(userRepo *MockRepo) {
				userRepo.EXPECT().FindByEmail(gomock.Any(), "user@example.com").Return(&domain.User{ID: 1, PasswordHash: &hash}, nil)
			},
		},
		{
			name:     "Wrong password",
			password: "wrong",
			prepareMock: func(userRepo *MockRepo) {
				userRepo.EXPECT().FindByEmail(gomock.Any(), "user@example.com").Return(&domain.User{ID: 1, PasswordHash: &hash}, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "Unknown email",
			password: "secret",
			prepareMock: func(userRepo *MockRepo) {
				userRepo.EXPECT().FindByEmail(gomock.Any(), "user@example.com").Return(nil, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "Phone-only account has no password",
			password: "secret",
			prepareMock: func(userRepo *MockRepo) {
				userRepo.EXPECT().FindByEmail(gomock.Any(), "user@example.com").Return(&domain.User{ID: 1}, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, userRepo, _ := NewMock(t)
			tt.prepareMock(userRepo)

			user, err := service.Authenticate(context.Background(), "user@example.com", tt.password)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, int64(1), user.ID)
			}
		})
	}
}

func TestSetPartner(t *testing.T) {
	t.Run("Commission outside 0..100 is rejected", func(t *testing.T) {
		service, _, _ := NewMock(t)

		user, err := service.SetPartner(context.Background(), 1, true, 150)
		assert.Error(t, err)
		assert.Nil(t, user)
	})

	t.Run("Valid grant", func(t *testing.T) {
		service, userRepo, _ := NewMock(t)

		userRepo.EXPECT().SetPartner(gomock.Any(), int64(1), true, 15).Return(&domain.User{ID: 1, IsPartner: true, CommissionPercent: 15}, nil)

		user, err := service.SetPartner(context.Background(), 1, true, 15)
		assert.NoError(t, err)
		assert.True(t, user.IsPartner)
	})
}
