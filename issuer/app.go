package issuer

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/slog"

	"github.com/tigelah/issuer-simulator/internal/ledger"
	"github.com/tigelah/issuer-simulator/internal/middleware"
	issuerkafka "github.com/tigelah/issuer-simulator/issuer/kafka"
)

// App is the main application, it contains all the components of the issuer
// service and is responsible for starting and stopping them.
type App struct {
	srv       *http.Server
	wg        *sync.WaitGroup
	Addr      string
	logger    *slog.Logger
	config    *Config
	consumer  *issuerkafka.Consumer
	publisher *issuerkafka.Publisher
}

func NewApp(logger *slog.Logger, config *Config) *App {
	logger = logger.With(slog.String("app", "issuer"))

	if config == nil {
		config = DefaultConfig()
	}

	return &App{
		wg:     &sync.WaitGroup{},
		logger: logger,
		config: config,
	}
}

func (a *App) Start() error {
	a.logger.Info("starting app...")

	ledgerClient := ledger.New(a.config.LedgerBaseURL, &http.Client{Timeout: a.config.LedgerTimeout})

	publisher := issuerkafka.NewPublisher(issuerkafka.PublisherConfig{
		Brokers:         a.config.Brokers,
		TopicAuthorized: a.config.TopicAuthorized,
		TopicDeclined:   a.config.TopicDeclined,
	})
	a.publisher = publisher

	authorizer := NewAuthorizer(
		Rules{MaxAmountCents: a.config.MaxAmountCents},
		NewLimitsChecker(ledgerClient),
		NewInstallmentCalculator(a.config.AllowedPlans, a.config.MerchantRates),
		publisher,
		a.logger,
	)
	handler := NewHandler(authorizer, a.logger)

	consumer := issuerkafka.NewConsumer(
		a.logger,
		a.config.Brokers,
		a.config.GroupID,
		[]string{a.config.TopicRiskApproved, a.config.TopicRiskRejected},
		handler,
	)
	consumer.Start()
	a.consumer = consumer

	router := chi.NewRouter()
	router.Use(middleware.NewStructuredLogger(a.logger))

	api := NewAPI(handler)
	api.AppendRoutes(router)

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/-/live", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	router.Get("/-/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := ledgerClient.Ping(ctx); err != nil {
			http.Error(w, "ledger not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	l, err := net.Listen("tcp", a.config.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening tcp port: %w", err)
	}

	a.Addr = l.Addr().String()

	a.srv = &http.Server{
		Handler: router,
	}

	a.wg.Add(1)
	go func() {
		a.logger.Info("http server started", slog.String("addr", a.Addr))

		if err := a.srv.Serve(l); err != nil {
			if err != http.ErrServerClosed {
				a.logger.Error("starting http server", "err", err)
			}

			a.logger.Info("http server stopped")
		}

		a.wg.Done()
	}()

	return nil
}

func (a *App) Shutdown() {
	a.logger.Info("shutting down app...")

	if a.consumer != nil {
		if err := a.consumer.Close(); err != nil {
			a.logger.Error("closing kafka consumer", "err", err)
		}
	}

	a.srv.Shutdown(context.Background())

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("closing kafka publisher", "err", err)
		}
	}

	a.wg.Wait()

	a.logger.Info("app stopped")
}
