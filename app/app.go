package app

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"fixture_lend_tool/config"
	"fixture_lend_tool/engine"
	"fixture_lend_tool/lock"
	"fixture_lend_tool/store"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router *gin.Engine
	DB     *gorm.DB      // set only for the postgres backend
	RDB    *redis.Client // set only when the redis ledger lock is enabled
	Engine *engine.Engine
	Config config.Config
}

func MustNew() *App {
	cfg := config.Load()

	// --- stores ---
	var (
		fixtures store.FixtureSource
		ledger   store.LedgerStore
		dbConn   *gorm.DB
	)
	switch cfg.StoreBackend {
	case "postgres":
		dbConn = store.ConnectDB()
		pg := store.NewPostgres(dbConn)
		fixtures, ledger = pg, pg
	case "xlsx":
		x := store.NewXLSX(cfg.FixtureFile, cfg.LedgerFile)
		fixtures, ledger = x, x
	default:
		log.Fatalf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	// --- ledger guard ---
	// 单实例用进程内互斥；多实例共用一份台账时走 Redis 锁
	var guard lock.Guard = &lock.Mutex{}
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis: %v", err)
		}
		guard = lock.NewRedis(rdb, "fixture_lend:ledger", 30*time.Second)
	}

	// --- Gin ---
	r := gin.Default()
	useCORS(r, cfg.WebOrigin)
	return &App{
		Router: r,
		DB:     dbConn,
		RDB:    rdb,
		Engine: engine.New(fixtures, ledger, guard),
		Config: cfg,
	}
}

func (a *App) Close() {
	if a.RDB != nil {
		_ = a.RDB.Close()
	}
}
