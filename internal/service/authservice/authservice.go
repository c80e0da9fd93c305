package authservice

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"coursemart/internal/domain"
	"coursemart/internal/otp"
	"coursemart/pkg/auth"
)

type Repo interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	FindByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	FindByVKID(ctx context.Context, vkID int64) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, name string, email *string) (*domain.User, error)
	SetPartner(ctx context.Context, userID int64, isPartner bool, commissionPercent int) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

// BalanceCreator opens the ledger row for a freshly registered user.
type BalanceCreator interface {
	CreateBalance(ctx context.Context, userID int64) (*domain.Balance, error)
}

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidSignature   = errors.New("login payload signature is invalid")
	ErrStalePayload       = errors.New("login payload is too old")
)

type Service struct {
	userRepo       Repo
	balanceService BalanceCreator
	hashService    auth.HashServiceInterface
	jwtService     auth.JWTServiceInterface
	otpStore       otp.StoreI

	tokenTTL         time.Duration
	telegramBotToken string
	vkSecretKey      string
}

func New(
	repo Repo,
	balanceService BalanceCreator,
	hashService auth.HashServiceInterface,
	jwtService auth.JWTServiceInterface,
	otpStore otp.StoreI,
	tokenTTL time.Duration,
	telegramBotToken, vkSecretKey string,
) *Service {
	return &Service{
		userRepo:         repo,
		balanceService:   balanceService,
		hashService:      hashService,
		jwtService:       jwtService,
		otpStore:         otpStore,
		tokenTTL:         tokenTTL,
		telegramBotToken: telegramBotToken,
		vkSecretKey:      vkSecretKey,
	}
}

// Register creates an email+password account. referredBy, when set, binds
// the new user to the partner who brought them.
func (s *Service) Register(ctx context.Context, email, password, name string, referredBy *int64) (*domain.User, error) {
	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		zap.L().Error("can't find user", zap.Error(err))
		return nil, err
	}
	if existingUser != nil {
		zap.L().Info("user already exists", zap.String("email", email))
		return nil, ErrUserExists
	}

	if referredBy != nil {
		referrer, err := s.userRepo.FindByID(ctx, *referredBy)
		if err != nil {
			return nil, err
		}
		if referrer == nil || !referrer.IsPartner {
			referredBy = nil
		}
	}

	hashedPassword, err := s.hashService.HashPassword(password)
	if err != nil {
		zap.L().Error("can't hash password", zap.Error(err))
		return nil, err
	}

	user := &domain.User{
		Email:        &email,
		Name:         name,
		PasswordHash: &hashedPassword,
		ReferredBy:   referredBy,
	}
	return s.finishLoginChannel(ctx, user)
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil || user == nil || user.PasswordHash == nil {
		zap.L().Info("invalid credentials", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}
	if ok := s.hashService.ComparePassword(*user.PasswordHash, password); !ok {
		return nil, ErrInvalidCredentials
	}
	zap.L().Info("user successfully authenticated", zap.Int64("user_id", user.ID))
	return user, nil
}

// RequestOTP issues a one-time code for the phone. Returns the code so the
// caller can hand it to the SMS transport.
func (s *Service) RequestOTP(ctx context.Context, phone string) (string, error) {
	code, err := s.otpStore.Issue(ctx, phone)
	if err != nil {
		return "", err
	}
	zap.L().Info("otp issued", zap.String("phone", phone))
	return code, nil
}

// VerifyOTP checks the code and logs the user in, creating the account at
// first successful login.
func (s *Service) VerifyOTP(ctx context.Context, phone, code string) (*domain.User, error) {
	if err := s.otpStore.Verify(ctx, phone, code); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	return s.finishLoginChannel(ctx, &domain.User{Phone: &phone})
}

func (s *Service) GenerateToken(user *domain.User) (string, error) {
	expirationTime := time.Now().Add(s.tokenTTL)

	token, err := s.jwtService.GenerateJWT(user.ID, user.IsAdmin, user.IsPartner, expirationTime)
	if err != nil {
		zap.L().Error("can't generate token", zap.Error(err))
		return "", err
	}
	return token, nil
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, name string, email *string) (*domain.User, error) {
	if email != nil {
		existing, err := s.userRepo.FindByEmail(ctx, *email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != userID {
			return nil, ErrUserExists
		}
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, name, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ResolveUser finds a user by id or, failing that, by email. The admin
// balance-add tool accepts either.
func (s *Service) ResolveUser(ctx context.Context, userID *int64, email *string) (*domain.User, error) {
	var user *domain.User
	var err error
	switch {
	case userID != nil:
		user, err = s.userRepo.FindByID(ctx, *userID)
	case email != nil:
		user, err = s.userRepo.FindByEmail(ctx, *email)
	default:
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		zap.L().Error("failed to list users", zap.Error(err))
		return nil, err
	}
	return users, nil
}

func (s *Service) SetPartner(ctx context.Context, userID int64, isPartner bool, commissionPercent int) (*domain.User, error) {
	if commissionPercent < 0 || commissionPercent > 100 {
		return nil, errors.New("commission percent must be within 0..100")
	}
	user, err := s.userRepo.SetPartner(ctx, userID, isPartner, commissionPercent)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// finishLoginChannel creates the user together with their balance row.
func (s *Service) finishLoginChannel(ctx context.Context, user *domain.User) (*domain.User, error) {
	newUser, err := s.userRepo.Create(ctx, user)
	if err != nil {
		zap.L().Error("can't create user", zap.Error(err))
		return nil, err
	}

	if _, err := s.balanceService.CreateBalance(ctx, newUser.ID); err != nil {
		zap.L().Error("can't create balance", zap.Error(err))
		return nil, err
	}

	zap.L().Info("user successfully registered", zap.Int64("user_id", newUser.ID))
	return newUser, nil
}
