package handlers

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "coursemart/docs"
	"coursemart/internal/config"
	adminhandlers "coursemart/internal/handlers/admin"
	authhandlers "coursemart/internal/handlers/auth"
	balancehandlers "coursemart/internal/handlers/balance"
	coursehandlers "coursemart/internal/handlers/courses"
	paymenthandlers "coursemart/internal/handlers/payments"
	promohandlers "coursemart/internal/handlers/promo"
	"coursemart/internal/service"
	pkgauth "coursemart/pkg/auth"
	"coursemart/pkg/utils"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	RequestOTP(w http.ResponseWriter, r *http.Request)
	VerifyOTP(w http.ResponseWriter, r *http.Request)
	TelegramLogin(w http.ResponseWriter, r *http.Request)
	VKLogin(w http.ResponseWriter, r *http.Request)
	GetProfile(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
}

type CourseHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListReviews(w http.ResponseWriter, r *http.Request)
	CreateReview(w http.ResponseWriter, r *http.Request)
	Enrollments(w http.ResponseWriter, r *http.Request)
}

type PaymentHandler interface {
	Initiate(w http.ResponseWriter, r *http.Request)
	Webhook(w http.ResponseWriter, r *http.Request)
	Verify(w http.ResponseWriter, r *http.Request)
}

type BalanceHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
	GetTransactions(w http.ResponseWriter, r *http.Request)
	CreateWithdrawal(w http.ResponseWriter, r *http.Request)
	GetWithdrawals(w http.ResponseWriter, r *http.Request)
}

type PromoHandler interface {
	Activate(w http.ResponseWriter, r *http.Request)
}

type AdminHandler interface {
	AddBalance(w http.ResponseWriter, r *http.Request)
	ListWithdrawals(w http.ResponseWriter, r *http.Request)
	TransitionWithdrawal(w http.ResponseWriter, r *http.Request)
	ListUsers(w http.ResponseWriter, r *http.Request)
	SetPartner(w http.ResponseWriter, r *http.Request)
	CreateCourse(w http.ResponseWriter, r *http.Request)
	UpdateCourse(w http.ResponseWriter, r *http.Request)
	ListPendingReviews(w http.ResponseWriter, r *http.Request)
	ModerateReview(w http.ResponseWriter, r *http.Request)
	CreatePromo(w http.ResponseWriter, r *http.Request)
	ListPromos(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler    AuthHandler
	CourseHandler  CourseHandler
	PaymentHandler PaymentHandler
	BalanceHandler BalanceHandler
	PromoHandler   PromoHandler
	AdminHandler   AdminHandler

	jwtService   pkgauth.JWTServiceInterface
	webhookCIDRs []string
}

func New(cfg *config.Config, s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler:    authhandlers.New(s.AuthService),
		CourseHandler:  coursehandlers.New(s.CourseService, s.ReviewService),
		PaymentHandler: paymenthandlers.New(s.PaymentService),
		BalanceHandler: balancehandlers.New(s.LedgerService),
		PromoHandler:   promohandlers.New(s.PromoService),
		AdminHandler:   adminhandlers.New(s.AuthService, s.LedgerService, s.CourseService, s.ReviewService, s.PromoService),
		jwtService:     pkgauth.NewJWTService(cfg.JWTSecret),
		webhookCIDRs:   cfg.WebhookAllowedCIDRs,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.AuthHandler.Register)
			r.Post("/login", h.AuthHandler.Login)
			r.Post("/otp/request", h.AuthHandler.RequestOTP)
			r.Post("/otp/verify", h.AuthHandler.VerifyOTP)
			r.Post("/telegram", h.AuthHandler.TelegramLogin)
			r.Post("/vk", h.AuthHandler.VKLogin)
		})

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", h.CourseHandler.List)
			r.Get("/{id}", h.CourseHandler.Get)
			r.Get("/{id}/reviews", h.CourseHandler.ListReviews)

			r.Group(func(r chi.Router) {
				r.Use(pkgauth.Middleware(h.jwtService))
				r.Post("/{id}/reviews", h.CourseHandler.CreateReview)
			})
		})

		r.Route("/payments", func(r chi.Router) {
			r.With(h.webhookSourceCheck).Post("/webhook", h.PaymentHandler.Webhook)
			r.With(pkgauth.OptionalMiddleware(h.jwtService)).Get("/verify", h.PaymentHandler.Verify)

			r.Group(func(r chi.Router) {
				r.Use(pkgauth.Middleware(h.jwtService))
				r.Post("/", h.PaymentHandler.Initiate)
			})
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(pkgauth.Middleware(h.jwtService))
			r.Get("/profile", h.AuthHandler.GetProfile)
			r.Put("/profile", h.AuthHandler.UpdateProfile)
			r.Get("/courses", h.CourseHandler.Enrollments)
			r.Get("/balance", h.BalanceHandler.GetBalance)
			r.Get("/transactions", h.BalanceHandler.GetTransactions)

			r.Group(func(r chi.Router) {
				r.Use(pkgauth.RequirePartner)
				r.Post("/withdrawals", h.BalanceHandler.CreateWithdrawal)
				r.Get("/withdrawals", h.BalanceHandler.GetWithdrawals)
			})
		})

		r.With(pkgauth.Middleware(h.jwtService)).Post("/promocodes/activate", h.PromoHandler.Activate)

		r.Route("/admin", func(r chi.Router) {
			r.Use(pkgauth.Middleware(h.jwtService), pkgauth.RequireAdmin)
			r.Post("/balance/add", h.AdminHandler.AddBalance)
			r.Get("/withdrawals", h.AdminHandler.ListWithdrawals)
			r.Put("/withdrawals/{id}/status", h.AdminHandler.TransitionWithdrawal)
			r.Get("/users", h.AdminHandler.ListUsers)
			r.Put("/users/{id}/partner", h.AdminHandler.SetPartner)
			r.Post("/courses", h.AdminHandler.CreateCourse)
			r.Put("/courses/{id}", h.AdminHandler.UpdateCourse)
			r.Get("/reviews", h.AdminHandler.ListPendingReviews)
			r.Put("/reviews/{id}", h.AdminHandler.ModerateReview)
			r.Post("/promocodes", h.AdminHandler.CreatePromo)
			r.Get("/promocodes", h.AdminHandler.ListPromos)
		})
	})

	return r
}

// webhookSourceCheck drops callback requests that do not originate from the
// payment gateway's published address ranges. RealIP runs first, so
// RemoteAddr already reflects X-Real-IP / X-Forwarded-For.
func (h *Handlers) webhookSourceCheck(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ip = host
		}
		if !utils.IsAllowedIP(ip, h.webhookCIDRs) {
			utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}
