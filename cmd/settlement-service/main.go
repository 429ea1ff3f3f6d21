package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/radieske/parlay-settlement-poc/internal/settlement"
	scache "github.com/radieske/parlay-settlement-poc/internal/settlement-service/cache"
	shttp "github.com/radieske/parlay-settlement-poc/internal/settlement-service/http"
	kpub "github.com/radieske/parlay-settlement-poc/internal/settlement-service/producer"
	srepo "github.com/radieske/parlay-settlement-poc/internal/settlement-service/repo"
	"github.com/radieske/parlay-settlement-poc/internal/shared/cache"
	"github.com/radieske/parlay-settlement-poc/internal/shared/config"
	"github.com/radieske/parlay-settlement-poc/internal/shared/db"
	"github.com/radieske/parlay-settlement-poc/internal/shared/kafka"
	"github.com/radieske/parlay-settlement-poc/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("settlement-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("pool", cfg.PoolID), zap.String("env", cfg.Env))

	// Postgres: entidades e ledger do pool
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Redis: snapshot contábil das rodadas
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}

	// Kafka writers: claim_settled e revenue_finalized
	claimWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicClaimSettled)
	defer claimWriter.Close()
	revenueWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicRevenueFinalized)
	defer revenueWriter.Close()

	repository := srepo.NewPostgres(pg)
	roundCache := scache.NewRoundCache(rdb, 5*time.Minute)
	publ := kpub.NewKafkaPublisher(claimWriter, revenueWriter)

	api := shttp.NewServer(log, repository, roundCache, settlement.SystemClock{}, cfg.PoolID, publ)
	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.Router(),
	}

	// Servidor de métricas e health check
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pg.PingContext(r.Context()); err != nil {
			http.Error(w, "pg", http.StatusServiceUnavailable)
			return
		}
		if err := rdb.Ping(r.Context()).Err(); err != nil {
			http.Error(w, "redis", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	metricsSrv := &http.Server{Addr: ":" + cfg.MetricsPort, Handler: metricsMux}

	go func() {
		log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("metrics srv", zap.Error(err))
		}
	}()

	log.Info("settlement-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api srv", zap.Error(err))
	}
}
