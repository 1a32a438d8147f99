package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/avanti-store/catalog-backend/internal/config"
	"github.com/avanti-store/catalog-backend/internal/httpserver"
	authmw "github.com/avanti-store/catalog-backend/internal/middleware/auth"
	"github.com/avanti-store/catalog-backend/internal/models"
	"github.com/avanti-store/catalog-backend/internal/mykafka"
	"github.com/avanti-store/catalog-backend/internal/service"
	"github.com/avanti-store/catalog-backend/internal/session"
	"github.com/avanti-store/catalog-backend/internal/store"
	"github.com/avanti-store/catalog-backend/internal/upload"
	"github.com/avanti-store/catalog-backend/pkg/logging"
	loggingmw "github.com/avanti-store/catalog-backend/pkg/middleware/logging"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	sessionStore, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("session store: %v", err)
	}
	sessions := session.NewManager(sessionStore, cfg.SessionTTL)

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
		logger.Info("kafka producer enabled", "brokers", cfg.KafkaBrokers)
	}

	authSvc := &service.AuthService{
		Users:  store.NewCollection[models.User](cfg.UserDBPath),
		Secret: cfg.RegistrationSecret,
	}
	catalogSvc := &service.CatalogService{
		Products: store.NewCollection[models.Product](cfg.ProductDBPath),
		Producer: producer,
	}

	guard := &authmw.Guard{Sessions: sessions}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())
	e.Use(guard.LoadSession)

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{
			Svc:      authSvc,
			Sessions: sessions,
		},
		ProductHandler: &httpserver.ProductHTTP{
			Svc:     catalogSvc,
			Uploads: upload.NewSaver(cfg.UploadDir, cfg.UploadPublicURL),
		},
		Guard:     guard,
		StaticDir: cfg.StaticDir,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("%s listening on %s", cfg.ServiceName, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	_ = producer.Close()

	log.Printf("%s stopped", cfg.ServiceName)
}

func newSessionStore(cfg config.Config) (session.Store, error) {
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		return session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case config.SessionBackendMemory:
		return session.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}
