package authservice

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"coursemart/internal/domain"
)

// telegramAuthWindow bounds how old a login-widget payload may be.
const telegramAuthWindow = 24 * time.Hour

// TelegramLogin verifies a Telegram Login Widget payload and logs the user
// in, creating the account on first login. fields holds the raw widget
// fields including "hash".
//
// Verification follows the widget contract: the data-check-string is every
// field except hash, sorted, joined with newlines; the key is
// SHA256(bot token); the hash is hex HMAC-SHA256.
func (s *Service) TelegramLogin(ctx context.Context, fields map[string]string) (*domain.User, error) {
	hash, ok := fields["hash"]
	if !ok || hash == "" {
		return nil, ErrInvalidSignature
	}

	pairs := make([]string, 0, len(fields))
	for k, v := range fields {
		if k == "hash" {
			continue
		}
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secret := sha256.Sum256([]byte(s.telegramBotToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(checkString))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(hash)) {
		return nil, ErrInvalidSignature
	}

	authDate, err := strconv.ParseInt(fields["auth_date"], 10, 64)
	if err != nil {
		return nil, ErrInvalidSignature
	}
	if time.Since(time.Unix(authDate, 0)) > telegramAuthWindow {
		return nil, ErrStalePayload
	}

	telegramID, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil {
		return nil, ErrInvalidSignature
	}

	user, err := s.userRepo.FindByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	name := strings.TrimSpace(fields["first_name"] + " " + fields["last_name"])
	return s.finishLoginChannel(ctx, &domain.User{TelegramID: &telegramID, Name: name})
}

// VKLogin verifies VK launch-params style signed fields: every vk_* field
// sorted and urlencoded-joined, signed with HMAC-SHA256 under the app secret,
// base64url without padding in the "sign" field.
func (s *Service) VKLogin(ctx context.Context, fields map[string]string) (*domain.User, error) {
	sign, ok := fields["sign"]
	if !ok || sign == "" {
		return nil, ErrInvalidSignature
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if strings.HasPrefix(k, "vk_") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, fields[k]))
	}
	checkString := strings.Join(pairs, "&")

	mac := hmac.New(sha256.New, []byte(s.vkSecretKey))
	mac.Write([]byte(checkString))
	expected := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(sign)) {
		return nil, ErrInvalidSignature
	}

	vkID, err := strconv.ParseInt(fields["vk_user_id"], 10, 64)
	if err != nil {
		return nil, ErrInvalidSignature
	}

	user, err := s.userRepo.FindByVKID(ctx, vkID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	return s.finishLoginChannel(ctx, &domain.User{VKID: &vkID})
}
