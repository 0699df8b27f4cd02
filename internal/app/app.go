package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Manoj-V-348/well-remind/internal/activity"
	"github.com/Manoj-V-348/well-remind/internal/clock"
	"github.com/Manoj-V-348/well-remind/internal/config"
	"github.com/Manoj-V-348/well-remind/internal/engine"
	"github.com/Manoj-V-348/well-remind/internal/metrics"
	"github.com/Manoj-V-348/well-remind/internal/notify"
	"github.com/Manoj-V-348/well-remind/internal/reminder"
	"github.com/Manoj-V-348/well-remind/internal/scheduler"
	"github.com/Manoj-V-348/well-remind/internal/store"
	"github.com/Manoj-V-348/well-remind/internal/telegram"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	cfg     config.Config
	log     *zap.Logger
	clock   clock.Clock
	fs      afero.Fs
	reg     *prometheus.Registry
	metrics *metrics.Metrics
	bot     *tgbotapi.BotAPI
	httpSrv *http.Server
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a := &App{
		cfg:     cfg,
		log:     log,
		clock:   clock.Real{},
		fs:      afero.NewOsFs(),
		reg:     reg,
		metrics: metrics.New(reg),
	}

	if cfg.BotToken != "" {
		bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
		if err != nil {
			return nil, fmt.Errorf("telegram: %w", err)
		}
		bot.Debug = false
		a.bot = bot
	}

	if cfg.HTTPAddr != "" {
		a.httpSrv = &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      a.routes(),
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}
	}
	return a, nil
}

func (a *App) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", metrics.Handler(a.reg))
	return mux
}

// openKV opens the configured persistence backend.
func (a *App) openKV(ctx context.Context) (store.KV, error) {
	switch a.cfg.Storage {
	case config.StorageSQLite:
		return store.OpenSQLite(ctx, a.cfg.DBPath)
	case config.StorageFile:
		return store.OpenFile(a.fs, a.cfg.StateDir)
	case config.StorageMemory:
		return store.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", a.cfg.Storage)
}

// Run serves until ctx is canceled or SIGINT/SIGTERM arrives, then tears
// everything down in dependency order.
func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting well-remind",
		zap.String("storage", a.cfg.Storage),
		zap.String("http", a.cfg.HTTPAddr),
		zap.Bool("telegram", a.bot != nil),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, err := a.openKV(ctx)
	if err != nil {
		a.log.Error("open storage failed", zap.Error(err))
		return err
	}
	defer func() {
		if err := kv.Close(); err != nil {
			a.log.Warn("close storage failed", zap.Error(err))
		}
	}()

	reminders := reminder.New(kv, a.clock, a.log.Named("reminders"), a.metrics)
	reminders.Load(ctx)
	defer func() {
		shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := reminders.Close(shCtx); err != nil {
			a.log.Warn("flush reminders failed", zap.Error(err))
		}
	}()

	sinks := notify.Multi{notify.NewLog(a.log.Named("notify"))}
	if a.bot != nil {
		n := telegram.NewNotifier(a.bot, a.cfg.ChatID, a.log.Named("telegram"))
		defer n.Close()
		sinks = append(sinks, n)
	}

	driver := activity.NewDriver(engine.CompletionNotifier{Sink: sinks}, a.log.Named("activity"), a.metrics)
	defer driver.Close()

	sched := scheduler.New(reminders, sinks, a.clock, a.log.Named("scheduler"), a.metrics)
	defer sched.Stop()

	eng := engine.New(reminders, driver)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sched.Run(gctx)
		return nil
	})
	if a.httpSrv != nil {
		a.serveHTTP(gctx, g)
	}
	if a.bot != nil {
		router := telegram.NewRouter(a.bot, a.log.Named("router"), eng, a.cfg.ChatID, a.cfg.Location(), a.clock)
		g.Go(func() error { return a.pollUpdates(gctx, router) })
	}

	err = g.Wait()
	a.log.Info("shutting down")
	return err
}

func (a *App) serveHTTP(ctx context.Context, g *errgroup.Group) {
	g.Go(func() error {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.httpSrv.Shutdown(shCtx); err != nil {
			a.log.Warn("http server shutdown error", zap.Error(err))
		}
		return nil
	})
}

func (a *App) pollUpdates(ctx context.Context, router *telegram.Router) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			a.bot.StopReceivingUpdates()
			return nil
		case upd, ok := <-updCh:
			if !ok {
				return nil
			}
			router.HandleUpdate(upd)
		}
	}
}
