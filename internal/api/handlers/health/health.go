package health

import (
	"net/http"
	"runtime"
	"time"

	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/infrastructure/store"
	"recipe-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// StatusResponse 系統狀態響應
type StatusResponse struct {
	IndexSize    int                    `json:"index_size"`
	RecipeCount  int64                  `json:"recipe_count"`
	StoreHealthy bool                   `json:"store_healthy"`
	Runtime      map[string]interface{} `json:"runtime"`
	Timestamp    time.Time              `json:"timestamp"`
}

func runtimeStats() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return map[string]interface{}{
		"goroutines":     runtime.NumGoroutine(),
		"heap_alloc_mb":  float64(m.HeapAlloc) / 1024 / 1024,
		"total_alloc_mb": float64(m.TotalAlloc) / 1024 / 1024,
		"num_gc":         m.NumGC,
		"go_version":     runtime.Version(),
		"num_cpu":        runtime.NumCPU(),
	}
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	cfg, exists := c.Get("config")
	if !exists {
		common.LogError("Configuration not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Configuration not found",
		})
		return
	}
	conf, ok := cfg.(*config.Config)
	if !ok {
		common.LogError("Invalid configuration type in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Invalid configuration type",
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   conf.App.Version,
		Runtime:   runtimeStats(),
	})
}

// ReadinessCheck 就緒檢查：索引與資料庫都可用才回報 ready
func ReadinessCheck(c *gin.Context) {
	idxVal, exists := c.Get("search_index")
	if !exists {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": "index not loaded",
		})
		return
	}
	idx, ok := idxVal.(recipe.SearchIndex)
	if !ok || idx.Size() == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": "index empty",
		})
		return
	}

	stVal, exists := c.Get("recipe_store")
	if !exists {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": "store not initialized",
		})
		return
	}
	st, ok := stVal.(*store.SQLiteStore)
	if !ok || st.Ping(c.Request.Context()) != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": "store unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// LivenessCheck 存活檢查
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now(),
	})
}

// SystemStatus 系統狀態：索引規模、資料庫規模與執行期資訊
func SystemStatus(c *gin.Context) {
	resp := StatusResponse{
		Runtime:   runtimeStats(),
		Timestamp: time.Now(),
	}

	if idxVal, exists := c.Get("search_index"); exists {
		if idx, ok := idxVal.(recipe.SearchIndex); ok {
			resp.IndexSize = idx.Size()
		}
	}

	if stVal, exists := c.Get("recipe_store"); exists {
		if st, ok := stVal.(*store.SQLiteStore); ok {
			if err := st.Ping(c.Request.Context()); err == nil {
				resp.StoreHealthy = true
				if n, err := st.Count(c.Request.Context()); err == nil {
					resp.RecipeCount = n
				}
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}
