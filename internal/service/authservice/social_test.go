package authservice

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"coursemart/internal/domain"
)

func signTelegram(fields map[string]string, botToken string) string {
	pairs := make([]string, 0, len(fields))
	for k, v := range fields {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)

	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(strings.Join(pairs, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}

func signVK(fields map[string]string, secretKey string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if strings.HasPrefix(k, "vk_") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields[k])
	}

	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(strings.Join(pairs, "&")))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func TestTelegramLogin(t *testing.T) {
	freshFields := func() map[string]string {
		return map[string]string{
			"id":         "7654321",
			"first_name": "Anna",
			"last_name":  "K",
			"auth_date":  strconv.FormatInt(time.Now().Unix(), 10),
		}
	}

	t.Run("Valid payload creates the account on first login", func(t *testing.T) {
		service, userRepo, balanceCreator := NewMock(t)

		fields := freshFields()
		fields["hash"] = signTelegram(fields, testBotToken)

		userRepo.EXPECT().FindByTelegramID(gomock.Any(), int64(7654321)).Return(nil, nil)
		userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, user *domain.User) (*domain.User, error) {
				assert.Equal(t, int64(7654321), *user.TelegramID)
				assert.Equal(t, "Anna K", user.Name)
				user.ID = 3
				return user, nil
			},
		)
		balanceCreator.EXPECT().CreateBalance(gomock.Any(), int64(3)).Return(&domain.Balance{UserID: 3}, nil)

		user, err := service.TelegramLogin(context.Background(), fields)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), user.ID)
	})

	t.Run("Second login finds the existing account", func(t *testing.T) {
		service, userRepo, _ := NewMock(t)

		fields := freshFields()
		fields["hash"] = signTelegram(fields, testBotToken)

		userRepo.EXPECT().FindByTelegramID(gomock.Any(), int64(7654321)).Return(&domain.User{ID: 3}, nil)

		user, err := service.TelegramLogin(context.Background(), fields)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), user.ID)
	})

	t.Run("Tampered field breaks the signature", func(t *testing.T) {
		service, _, _ := NewMock(t)

		fields := freshFields()
		fields["hash"] = signTelegram(fields, testBotToken)
		fields["id"] = "999"

		user, err := service.TelegramLogin(context.Background(), fields)
		assert.ErrorIs(t, err, ErrInvalidSignature)
		assert.Nil(t, user)
	})

	t.Run("Signature under the wrong bot token", func(t *testing.T) {
		service, _, _ := NewMock(t)

		fields := freshFields()
		fields["hash"] = signTelegram(fields, "other-token")

		user, err := service.TelegramLogin(context.Background(), fields)
		assert.ErrorIs(t, err, ErrInvalidSignature)
		assert.Nil(t, user)
	})

	t.Run("Stale auth_date is rejected even with a valid signature", func(t *testing.T) {
		service, _, _ := NewMock(t)

		fields := freshFields()
		fields["auth_date"] = strconv.FormatInt(time.Now().Add(-25*time.Hour).Unix(), 10)
		fields["hash"] = signTelegram(fields, testBotToken)

		user, err := service.TelegramLogin(context.Background(), fields)
		assert.ErrorIs(t, err, ErrStalePayload)
		assert.Nil(t, user)
	})

	t.Run("Missing hash", func(t *testing.T) {
		service, _, _ := NewMock(t)

		user, err := service.TelegramLogin(context.Background(), freshFields())
		assert.ErrorIs(t, err, ErrInvalidSignature)
		assert.Nil(t, user)
	})
}

func TestVKLogin(t *testing.T) {
	freshFields := func() map[string]string {
		return map[string]string{
			"vk_user_id": "494075",
			"vk_app_id":  "6736218",
			"vk_ts":      strconv.FormatInt(time.Now().Unix(), 10),
		}
	}

	t.Run("Valid signature creates the account on first login", func(t *testing.T) {
		service, userRepo, balanceCreator := NewMock(t)

		fields := freshFields()
		fields["sign"] = signVK(fields, testVKSecret)

		userRepo.EXPECT().FindByVKID(gomock.Any(), int64(494075)).Return(nil, nil)
		userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, user *domain.User) (*domain.User, error) {
				assert.Equal(t, int64(494075), *user.VKID)
				user.ID = 4
				return user, nil
			},
		)
		balanceCreator.EXPECT().CreateBalance(gomock.Any(), int64(4)).Return(&domain.Balance{UserID: 4}, nil)

		user, err := service.VKLogin(context.Background(), fields)
		assert.NoError(t, err)
		assert.Equal(t, int64(4), user.ID)
	})

	t.Run("Non-vk fields do not participate in the signature", func(t *testing.T) {
		service, userRepo, _ := NewMock(t)

		fields := freshFields()
		fields["sign"] = signVK(fields, testVKSecret)
		fields["utm_source"] = "ads"

		userRepo.EXPECT().FindByVKID(gomock.Any(), int64(494075)).Return(&domain.User{ID: 4}, nil)

		user, err := service.VKLogin(context.Background(), fields)
		assert.NoError(t, err)
		assert.Equal(t, int64(4), user.ID)
	})

	t.Run("Signature under the wrong secret", func(t *testing.T) {
		service, _, _ := NewMock(t)

		fields := freshFields()
		fields["sign"] = signVK(fields, "wrong-secret")

		user, err := service.VKLogin(context.Background(), fields)
		assert.ErrorIs(t, err, ErrInvalidSignature)
		assert.Nil(t, user)
	})

	t.Run("Missing sign", func(t *testing.T) {
		service, _, _ := NewMock(t)

		user, err := service.VKLogin(context.Background(), freshFields())
		assert.ErrorIs(t, err, ErrInvalidSignature)
		assert.Nil(t, user)
	})
}
