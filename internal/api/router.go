package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"recipe-recommender/internal/api/handlers/health"
	recommendHandler "recipe-recommender/internal/api/handlers/recommend"
	"recipe-recommender/internal/api/middleware"
	"recipe-recommender/internal/core/cache"
	"recipe-recommender/internal/core/embedding"
	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/core/vector"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/infrastructure/store"
	"recipe-recommender/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置：嵌入服務是唯一可能慢的外部呼叫
	timeoutDuration = 60 * time.Second
	// 請求體大小限制 (1MB)：輸入只有食材名稱列表
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, index *vector.FlatIndex, metadata *vector.MetadataTable, recipeStore *store.SQLiteStore, cacheStore cache.Store) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 請求去重
	router.Use(middleware.Deduplication(cfg))

	// 限流
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	common.LogInfo("Initializing services",
		zap.Int("index_size", index.Size()),
		zap.Int("metadata_entries", metadata.Len()),
		zap.Int("top_k", cfg.Index.TopK),
		zap.String("match_profile", cfg.Match.Profile),
	)

	// 初始化嵌入服務
	embedder := embedding.NewClient(&cfg.Embedding)
	if embedder == nil {
		common.LogError("Failed to initialize embedding client")
		return nil, fmt.Errorf("failed to initialize embedding client")
	}

	// 初始化推薦服務
	profile := recipe.ProfileFromConfig(cfg.Match)
	recommendSvc := recipe.NewRecommendService(embedder, index, metadata, recipeStore, profile, cfg.Index.TopK)
	if recommendSvc == nil {
		common.LogError("Failed to initialize recommend service")
		return nil, fmt.Errorf("failed to initialize recommend service")
	}

	// 全局中間件：設置超時和服務
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		// 注入設定與服務，供健康檢查與狀態端點使用
		c.Set("config", cfg)
		c.Set("search_index", recipe.SearchIndex(index))
		c.Set("recipe_store", recipeStore)

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeRequestTimeout,
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		handler := recommendHandler.NewHandler(recommendSvc, cacheStore, cfg)

		recipeGroup := api.Group("/recipe")
		{
			// 依食材推薦食譜
			recipeGroup.POST("/recommend", handler.HandleRecommend)

			// 推薦效能量測
			recipeGroup.POST("/recommend/performance", handler.HandleRecommendPerformance)
		}

		systemGroup := api.Group("/system")
		{
			systemGroup.GET("/status", health.SystemStatus)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.Int("index_size", index.Size()),
		zap.Bool("cache_enabled", cacheStore != nil),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
