package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/RoobanKR/LMS-Server-sub001/config"
	"github.com/RoobanKR/LMS-Server-sub001/internal/api/handler"
	"github.com/RoobanKR/LMS-Server-sub001/internal/api/router"
	"github.com/RoobanKR/LMS-Server-sub001/internal/repository"
	"github.com/RoobanKR/LMS-Server-sub001/internal/service"
	"github.com/RoobanKR/LMS-Server-sub001/pkg/database"
	"github.com/RoobanKR/LMS-Server-sub001/pkg/jwt"
	"github.com/RoobanKR/LMS-Server-sub001/pkg/logger"
	"github.com/RoobanKR/LMS-Server-sub001/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（留空时搜索 ./config/config.yaml）")
	flag.Parse()

	// 配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 日志
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	// 数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, log)
	if err != nil {
		log.Fatal("连接数据库失败", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("获取底层连接失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, log); err != nil {
		log.Fatal("数据库迁移失败", zap.Error(err))
	}

	// Redis；连接失败时降级运行（登出黑名单不生效）
	redisClient, err := redis.NewClient(&cfg.Redis, log)
	if err != nil {
		log.Warn("Redis 连接失败，降级运行", zap.Error(err))
		redisClient = nil
	}

	// 依赖装配
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, cfg, jwtMgr, redisClient, log)
	h := handler.NewHandler(svc, log)
	engine := router.New(cfg, h, jwtMgr, redisClient, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("服务启动", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("服务启动失败", zap.Error(err))
		}
	}()

	// 优雅关停
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("收到退出信号，开始关停")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("关停超时", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warn("关闭 Redis 连接失败", zap.Error(err))
		}
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("关闭数据库连接失败", zap.Error(err))
	}
	log.Info("服务已退出")
}
