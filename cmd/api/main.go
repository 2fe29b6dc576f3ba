package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadp "credify-backend/internal/adapter/http"
	"credify-backend/internal/adapter/repository/mysql"
	"credify-backend/internal/config"
	"credify-backend/internal/domain/kyc"
	"credify-backend/internal/domain/otp"
	"credify-backend/internal/infrastructure/cache"
	"credify-backend/internal/infrastructure/db"
	"credify-backend/internal/infrastructure/face"
	"credify-backend/internal/infrastructure/gemini"
	"credify-backend/internal/infrastructure/jobs"
	"credify-backend/internal/infrastructure/mailer"
	"credify-backend/internal/metrics"
	"credify-backend/internal/usecase/assistant"
	"credify-backend/internal/usecase/auth"
	kycuc "credify-backend/internal/usecase/kyc"
	loanuc "credify-backend/internal/usecase/loan"
	otpuc "credify-backend/internal/usecase/otp"
	"credify-backend/internal/usecase/payment"
	profileuc "credify-backend/internal/usecase/profile"
	"credify-backend/pkg/jwt"
	"credify-backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	config.LoadDotenv()
	cfg := config.Load()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error(ctx, "server exited", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), cfg.AppEnv)
	if err != nil {
		return err
	}
	if err := mysql.AutoMigrate(gdb); err != nil {
		return err
	}
	rdb, err := cache.Open(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	loans := mysql.NewLoanRepository(gdb)
	profiles := mysql.NewProfileRepository(gdb)
	fundings := mysql.NewFundingRepository(gdb)

	var sender otp.Sender = mailer.LogSender{}
	if cfg.SMTPConfigured() {
		sender = mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	} else {
		logger.Warn(ctx, "SMTP not configured, login codes are written to the log")
	}

	var (
		model    assistant.Model
		detector kyc.FaceDetector
		comparer kyc.FaceComparer
	)
	if cfg.GeminiAPIKey != "" {
		gc, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return err
		}
		model, detector = gc, gc
	} else {
		logger.Warn(ctx, "GEMINI_API_KEY not set, assistant disabled")
	}
	if cfg.FaceServiceURL != "" {
		comparer = face.NewClient(cfg.FaceServiceURL, cfg.FaceCompareTimeout)
	} else {
		logger.Warn(ctx, "FACE_SERVICE_URL not set, face verification disabled")
	}

	tokens := jwt.NewJWTService(cfg.JWTSecret, cfg.AccessExpiry, cfg.RefreshExpiry)
	flags := cache.NewKYCFlagStore(rdb)

	profileUC := profileuc.NewUsecase(profiles, loans, fundings)
	loanUC := loanuc.NewUsecase(loans, mysql.NewGormUoW(gdb)).WithFundingRecorder(profileUC)
	otpUC := otpuc.NewUsecase(mysql.NewOTPRepository(gdb), cache.NewOTPLimiter(rdb), sender, cfg.OTPTTL)
	authUC := auth.NewUsecase(mysql.NewUserRepository(gdb), profileUC, otpUC, tokens, flags)
	kycUC := kycuc.NewUsecase(cache.NewKYCSessionStore(rdb, cfg.KYCSessionTTL), flags, comparer, detector, profileUC, cfg.KYCThreshold)
	chatUC := assistant.NewUsecase(model, loanUC)
	payUC := payment.NewUsecase(cfg.RazorpayKeyID, cfg.RazorpaySecret, profileUC, loanUC)

	purge := jobs.NewOTPPurge(otpUC, cfg.OTPPurgeSpec)
	if err := purge.Start(ctx); err != nil {
		return err
	}

	e := httpadp.NewEcho()
	httpadp.Register(e, httpadp.Handlers{
		Health:   httpadp.NewHandler(),
		Auth:     httpadp.NewAuthHandler(authUC),
		Chat:     httpadp.NewChatHandler(chatUC),
		Loans:    httpadp.NewLoanHandler(loanUC),
		KYC:      httpadp.NewKYCHandler(kycUC),
		Profiles: httpadp.NewProfileHandler(profileUC),
		Payments: httpadp.NewPaymentHandler(payUC),
	}, httpadp.RouterDeps{
		Tokens:   tokens,
		Redis:    rdb,
		IdempTTL: time.Duration(cfg.IdempTTLSecs) * time.Second,
		Metrics:  metrics.Handler(),
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.AppPort
		logger.Info(ctx, "listening", zap.String("addr", addr), zap.String("env", cfg.AppEnv))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
