package http

import (
	"net/http"
	"time"

	"credify-backend/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
)

type Handlers struct {
	Health   *Handler
	Auth     *AuthHandler
	Chat     *ChatHandler
	Loans    *LoanHandler
	KYC      *KYCHandler
	Profiles *ProfileHandler
	Payments *PaymentHandler
}

type RouterDeps struct {
	Tokens   middleware.TokenValidator
	Redis    *redis.Client // nil disables idempotency
	IdempTTL time.Duration
	Metrics  http.Handler
}

// NewEcho builds the server with the shared middleware chain.
func NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.Use(
		echomw.Recover(),
		echomw.RequestID(),
		middleware.RequestContext(),
		middleware.AccessLog(),
		middleware.Metrics(),
		echomw.BodyLimit("12M"),
	)
	return e
}

func Register(e *echo.Echo, h Handlers, d RouterDeps) {
	e.GET("/health", h.Health.Health)
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics))
	}

	api := e.Group("/api")
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/otp/verify", h.Auth.VerifyOTP)
	api.POST("/auth/otp/resend", h.Auth.ResendOTP)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/chat", h.Chat.Chat, middleware.OptionalAuth(d.Tokens))
	api.POST("/face-comparison", h.KYC.CompareFaces)

	authed := api.Group("", middleware.Auth(d.Tokens))
	borrower := middleware.RequireRole("borrower")
	lender := middleware.RequireRole("lender")
	idem := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	if d.Redis != nil {
		idem = middleware.Idempotency(d.Redis, d.IdempTTL)
	}

	authed.GET("/loans", h.Loans.List)
	authed.POST("/loans", h.Loans.Apply, borrower, idem)
	authed.GET("/loans/:id", h.Loans.Get)
	authed.POST("/loans/:id/bids", h.Loans.PlaceBid, lender, idem)
	authed.POST("/loans/:id/fund", h.Loans.Fund, lender, idem)

	authed.POST("/kyc/sessions", h.KYC.Start)
	authed.GET("/kyc/sessions/:id", h.KYC.Get)
	authed.POST("/kyc/sessions/:id/document", h.KYC.UploadDocument)
	authed.POST("/kyc/sessions/:id/document/retry", h.KYC.RetryExtraction)
	authed.POST("/kyc/sessions/:id/live", h.KYC.CaptureLive)
	authed.POST("/kyc/sessions/:id/verify", h.KYC.Verify)
	authed.GET("/kyc/status", h.KYC.Status)

	authed.GET("/borrowers/me", h.Profiles.Borrower, borrower)
	authed.GET("/borrowers/me/dashboard", h.Profiles.BorrowerDashboard, borrower)
	authed.POST("/borrowers/me/payments", h.Profiles.AddPayment, borrower)
	authed.GET("/lenders/me", h.Profiles.Lender, lender)
	authed.GET("/lenders/me/dashboard", h.Profiles.LenderDashboard, lender)
	authed.POST("/lenders/me/payouts", h.Profiles.AddPayout, lender)
	authed.PATCH("/profile", h.Profiles.UpdateDisplayName)

	authed.GET("/payments/config", h.Payments.Config)
	authed.POST("/payments/confirm", h.Payments.Confirm)
}
