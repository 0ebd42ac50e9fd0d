package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hd-notes-api/internal/config"
	"github.com/hd-notes-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/hd-notes-api/internal/infrastructure/jwt"
	"github.com/hd-notes-api/internal/infrastructure/smtp"
	"github.com/hd-notes-api/internal/otp"
	transporthttp "github.com/hd-notes-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// The signing key gates every session token; refusing to start beats
	// serving tokens signed with an empty or well-known secret.
	jwtProvider, err := jwtinfra.NewProvider(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.Fatalf("JWT provider: %v (set JWT_SECRET)", err)
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	mailer := smtp.NewMailer(cfg)

	otpStore := otp.NewStore(cfg.OTPTTL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The sweeper shares the signal context, so it stops before the
	// process exits instead of ticking into a torn-down runtime.
	sweeper := otp.NewSweeper(otpStore, cfg.OTPSweepInterval)
	go sweeper.Run(ctx)

	deps := &transporthttp.Deps{
		UserRepo:    dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		NoteRepo:    dynamo.NewNoteRepo(dynamoClient, cfg.DynamoTables.Notes),
		OTPStore:    otpStore,
		Mailer:      mailer,
		JWTProvider: jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
