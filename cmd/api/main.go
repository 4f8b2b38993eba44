package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-recommender/internal/api"
	"recipe-recommender/internal/core/cache"
	"recipe-recommender/internal/core/vector"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/infrastructure/store"
	"recipe-recommender/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	// 使用 logger 記錄啟動信息
	common.LogInfo("載入設定",
		zap.String("index_path", cfg.Index.IndexPath),
		zap.String("metadata_path", cfg.Index.MetadataPath),
		zap.String("store_path", cfg.Store.Path),
		zap.String("embedding_base_url", cfg.Embedding.BaseURL),
		zap.String("embedding_model", cfg.Embedding.Model),
	)

	// 載入向量索引，缺少索引無法提供服務
	index, err := vector.LoadFlatIndex(cfg.Index.IndexPath)
	if err != nil {
		common.LogFatal("Failed to load vector index",
			zap.String("path", cfg.Index.IndexPath),
			zap.Error(err),
		)
	}

	// 載入索引位置對應的食譜中繼資料
	metadata, err := vector.LoadMetadata(cfg.Index.MetadataPath)
	if err != nil {
		common.LogFatal("Failed to load index metadata",
			zap.String("path", cfg.Index.MetadataPath),
			zap.Error(err),
		)
	}

	// 索引與中繼資料必須一一對應
	if index.Size() != metadata.Len() {
		common.LogFatal("Vector index and metadata size mismatch",
			zap.Int("index_size", index.Size()),
			zap.Int("metadata_entries", metadata.Len()),
		)
	}

	common.LogInfo("向量索引載入完成",
		zap.Int("vectors", index.Size()),
		zap.Int("dimensions", index.Dimensions()),
	)

	// 開啟食譜資料庫
	recipeStore, err := store.NewSQLiteStore(&cfg.Store)
	if err != nil {
		common.LogFatal("Failed to open recipe store",
			zap.String("path", cfg.Store.Path),
			zap.Error(err),
		)
	}
	defer recipeStore.Close()

	// 初始化快取
	cacheStore, err := cache.New(&cfg.Cache)
	// 只在快取開啟但初始化失敗時才 Fatal
	if cfg.Cache.Enabled && err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}
	if cacheStore != nil {
		defer cacheStore.Close()
	}

	// 設置路由
	router, err := api.SetupRouter(cfg, index, metadata, recipeStore, cacheStore)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
