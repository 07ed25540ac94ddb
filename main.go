package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"github.com/Rakib5627/mixer-machine-server/broker"
	"github.com/Rakib5627/mixer-machine-server/config"
	"github.com/Rakib5627/mixer-machine-server/controllers"
	"github.com/Rakib5627/mixer-machine-server/database"
	"github.com/Rakib5627/mixer-machine-server/logging"
	"github.com/Rakib5627/mixer-machine-server/tsdb"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// slog is not configured yet
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *database.DB {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	db, err := database.Connect(ctx, cfg.ClientOptions(), cfg.DBName)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to MongoDB", "database", cfg.DBName)

	if err := database.EnsureIndexes(ctx, db); err != nil {
		slog.Warn("Failed to ensure indexes", "error", err)
	}
	return db
}

func setupStores(db *database.DB) controllers.Stores {
	clock := clockwork.NewRealClock()

	sensors := database.NewSensorStore(db.Collection(database.SensorDataCollection), clock)
	mixer := database.NewMixerStore(db.Collection(database.MixerStateCollection), clock)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()
	if err := sensors.LoadLatest(ctx); err != nil {
		slog.Warn("Failed to load latest sensor reading, serving defaults", "error", err)
	}
	if err := mixer.Init(ctx); err != nil {
		slog.Error("Failed to initialize mixer state", "error", err)
		os.Exit(1)
	}

	return controllers.Stores{
		Users:   database.NewUserStore(db.Collection(database.UsersCollection)),
		Sensors: sensors,
		Mixer:   mixer,
		Presets: database.NewPresetStore(db.Collection(database.PresetsCollection), clock),
		History: database.NewHistoryStore(db.Collection(database.HistoryCollection), clock),
		DB:      db,
	}
}

func setupBroker(cfg *config.Config) *broker.Publisher {
	if !cfg.MQTTEnabled() {
		return nil
	}

	pub, err := broker.Connect(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopicPrefix, logging.Logger)
	if err != nil {
		slog.Warn("MQTT unavailable, continuing without it", "broker", cfg.MQTTBroker, "error", err)
		return nil
	}

	slog.Info("MQTT publisher ready", "broker", cfg.MQTTBroker, "prefix", cfg.MQTTTopicPrefix)
	return pub
}

// syncMixerState seeds the mixer gauge from the store and republishes the
// retained state so a freshly booted device picks it up.
func syncMixerState(ctl *controllers.Controller, pub *broker.Publisher) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	st, err := ctl.SyncMixerState(ctx)
	if err != nil {
		slog.Warn("Failed to read mixer state", "error", err)
		return
	}
	if pub != nil {
		pub.MixerState(st)
	}
}

func setupInflux(cfg *config.Config) *tsdb.Writer {
	if !cfg.InfluxEnabled() {
		return nil
	}

	w, err := tsdb.Connect(context.Background(), cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket, logging.Logger)
	if err != nil {
		slog.Warn("InfluxDB unavailable, continuing without it", "url", cfg.InfluxURL, "error", err)
		return nil
	}
	slog.Info("InfluxDB writer ready", "url", cfg.InfluxURL, "bucket", cfg.InfluxBucket)
	return w
}

func runGracefulShutdown(srv *http.Server, hub *controllers.Hub, pub *broker.Publisher, influx *tsdb.Writer, db *database.DB) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		hub.Close()
		if pub != nil {
			pub.Close()
		}
		if influx != nil {
			influx.Close()
		}
		if err := db.Close(shutdownCtx); err != nil {
			slog.Error("MongoDB disconnect error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	cfg := setupConfig()
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	db := setupDB(cfg)
	stores := setupStores(db)

	hub := controllers.NewHub(logging.Logger)
	listeners := []controllers.Listener{hub}

	pub := setupBroker(cfg)
	if pub != nil {
		listeners = append(listeners, pub)
	}
	influx := setupInflux(cfg)
	if influx != nil {
		listeners = append(listeners, influx)
	}

	ctl := controllers.New(stores, logging.Logger, listeners...)
	syncMixerState(ctl, pub)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           controllers.NewRouter(ctl, hub, logging.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := runGracefulShutdown(srv, hub, pub, influx, db)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
