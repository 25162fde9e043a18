package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/didip/tollbooth/v6"
	"github.com/didip/tollbooth/v6/limiter"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/riandyrn/otelchi"
	"go.uber.org/zap"

	"github.com/sanLimbu/todo-tracker/cmd/internal"
	internaldomain "github.com/sanLimbu/todo-tracker/internal"
	"github.com/sanLimbu/todo-tracker/internal/persistence"
	"github.com/sanLimbu/todo-tracker/internal/rabbitmq"
	"github.com/sanLimbu/todo-tracker/internal/rest"
	"github.com/sanLimbu/todo-tracker/internal/service"
)

const serviceName = "todo-tracker-rest-server"

func main() {
	var env, address string

	flag.StringVar(&env, "env", "", "Environment Variables filename")
	flag.StringVar(&address, "address", ":9234", "HTTP Server Address")
	flag.Parse()

	errC, err := run(env, address)
	if err != nil {
		log.Fatalf("Couldn't run: %s", err)
	}

	if err := <-errC; err != nil {
		log.Fatalf("Error while running: %s", err)
	}
}

func run(env, address string) (<-chan error, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "zap.NewProduction")
	}

	conf, err := internal.NewConfiguration(env)
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "internal.NewConfiguration")
	}

	shutdownTracing, err := internal.NewOTExporter(conf, serviceName)
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "internal.NewOTExporter")
	}

	blobs, err := internal.NewBlobStore(context.Background(), conf, logger)
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "internal.NewBlobStore")
	}

	var rmq *internal.RabbitMQ

	if url, _ := conf.Get("RABBITMQ_URL"); url != "" {
		rmq, err = internal.NewRabbitMQ(conf)
		if err != nil {
			blobs.Close()
			return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "internal.NewRabbitMQ")
		}
	}

	logging := func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Info(r.Method,
				zap.Time("time", time.Now()),
				zap.String("url", r.URL.String()),
			)

			h.ServeHTTP(w, r)
		})
	}

	srv, err := newServer(serverConfig{
		Address:     address,
		Blobs:       blobs,
		RabbitMQ:    rmq,
		Middlewares: []func(next http.Handler) http.Handler{otelchi.Middleware(serviceName), logging},
		Logger:      logger,
	})
	if err != nil {
		blobs.Close()
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "newServer")
	}

	errC := make(chan error, 1)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT)

	go func() {
		<-ctx.Done()

		logger.Info("Shutdown signal received")

		ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		defer func() {
			_ = logger.Sync()

			blobs.Close()

			if rmq != nil {
				rmq.Close()
			}

			stop()
			cancel()
			close(errC)
		}()

		srv.SetKeepAlivesEnabled(false)

		if err := srv.Shutdown(ctxTimeout); err != nil {
			errC <- err
		}

		if err := shutdownTracing(ctxTimeout); err != nil {
			logger.Warn("Tracing shutdown failed", zap.Error(err))
		}

		logger.Info("Shutdown completed")
	}()

	go func() {
		logger.Info("Listening and serving", zap.String("address", address))

		// "ListenAndServe always returns a non-nil error. After Shutdown or Close, the returned error is
		// ErrServerClosed."
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	return errC, nil
}

type serverConfig struct {
	Address     string
	Blobs       persistence.BlobStore
	RabbitMQ    *internal.RabbitMQ
	Middlewares []func(next http.Handler) http.Handler
	Logger      *zap.Logger
}

func newServer(conf serverConfig) (*http.Server, error) {
	if conf.Address == "" {
		return nil, internaldomain.NewErrorf(internaldomain.ErrorCodeInvalidArgument, "address is required")
	}

	router := chi.NewRouter()
	router.Use(render.SetContentType(render.ContentTypeJSON))

	for _, mw := range conf.Middlewares {
		router.Use(mw)
	}

	var opts []service.TaskStoreOption

	if conf.RabbitMQ != nil {
		opts = append(opts, service.WithNotifier(rabbitmq.NewTask(conf.RabbitMQ.Channel)))
	}

	adapter := persistence.NewAdapter(conf.Blobs, conf.Logger)
	store := service.NewTaskStore(conf.Logger, adapter, opts...)
	session := service.NewSession(conf.Logger, adapter, store)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	session.Restore(ctx)

	sessionHandler := rest.NewSessionHandler(session)

	rest.RegisterOpenAPI(router)
	sessionHandler.Register(router)

	router.Group(func(r chi.Router) {
		r.Use(sessionHandler.Middleware)
		rest.NewTaskHandler(store).Register(r)
	})

	lmt := tollbooth.NewLimiter(3, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Second})

	lmtmw := tollbooth.LimitHandler(lmt, router)

	return &http.Server{
		Handler:           lmtmw,
		Addr:              conf.Address,
		ReadTimeout:       1 * time.Second,
		ReadHeaderTimeout: 1 * time.Second,
		WriteTimeout:      1 * time.Second,
		IdleTimeout:       1 * time.Second,
	}, nil
}
