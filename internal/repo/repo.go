package repo

import (
	"coursemart/internal/pg"
	balancerepo "coursemart/internal/repo/balance-repo"
	courserepo "coursemart/internal/repo/course-repo"
	paymentrepo "coursemart/internal/repo/payment-repo"
	promorepo "coursemart/internal/repo/promo-repo"
	reviewrepo "coursemart/internal/repo/review-repo"
	userrepo "coursemart/internal/repo/user-repo"
	withdrawalrepo "coursemart/internal/repo/withdrawal-repo"
)

type Repositories struct {
	UserRepo       *userrepo.Repository
	BalanceRepo    *balancerepo.Repository
	PaymentRepo    *paymentrepo.Repository
	CourseRepo     *courserepo.Repository
	WithdrawalRepo *withdrawalrepo.Repository
	PromoRepo      *promorepo.Repository
	ReviewRepo     *reviewrepo.Repository
}

func New(conn pg.Database) *Repositories {
	return &Repositories{
		UserRepo:       userrepo.New(conn),
		BalanceRepo:    balancerepo.New(conn),
		PaymentRepo:    paymentrepo.New(conn),
		CourseRepo:     courserepo.New(conn),
		WithdrawalRepo: withdrawalrepo.New(conn),
		PromoRepo:      promorepo.New(conn),
		ReviewRepo:     reviewrepo.New(conn),
	}
}
