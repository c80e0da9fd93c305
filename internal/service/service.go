package service

import (
	"coursemart/internal/config"
	"coursemart/internal/gateway/yookassa"
	"coursemart/internal/otp"
	"coursemart/internal/pg"
	"coursemart/internal/repo"
	"coursemart/internal/service/authservice"
	"coursemart/internal/service/courseservice"
	"coursemart/internal/service/ledgerservice"
	"coursemart/internal/service/paymentservice"
	"coursemart/internal/service/promoservice"
	"coursemart/internal/service/reviewservice"
	pkgauth "coursemart/pkg/auth"
)

type Services struct {
	AuthService    *authservice.Service
	LedgerService  *ledgerservice.Service
	PaymentService *paymentservice.Service
	CourseService  *courseservice.Service
	PromoService   *promoservice.Service
	ReviewService  *reviewservice.Service
}

func New(cfg *config.Config, repo *repo.Repositories, txManager pg.TXManager, gateway yookassa.ClientI, otpStore otp.StoreI) *Services {
	ledgerService := ledgerservice.New(repo.BalanceRepo, repo.WithdrawalRepo, txManager)
	courseService := courseservice.New(repo.CourseRepo)
	paymentService := paymentservice.New(repo.PaymentRepo, repo.CourseRepo, repo.UserRepo, ledgerService, gateway, cfg.MinPaymentAmount)
	promoService := promoservice.New(repo.PromoRepo, txManager)
	reviewService := reviewservice.New(repo.ReviewRepo, repo.CourseRepo)
	authService := authservice.New(
		repo.UserRepo,
		ledgerService,
		&pkgauth.HashService{},
		pkgauth.NewJWTService(cfg.JWTSecret),
		otpStore,
		cfg.TokenTTL,
		cfg.TelegramBotToken,
		cfg.VKSecretKey,
	)

	return &Services{
		AuthService:    authService,
		LedgerService:  ledgerService,
		PaymentService: paymentService,
		CourseService:  courseService,
		PromoService:   promoService,
		ReviewService:  reviewService,
	}
}
