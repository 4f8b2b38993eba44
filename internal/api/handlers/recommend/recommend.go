package recommend

import (
	"net/http"
	"time"

	"recipe-recommender/internal/core/cache"
	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecommendRequest 推薦請求
type RecommendRequest struct {
	Ingredients []string `json:"ingredients" binding:"required,min=1"` // 使用者手邊的食材名稱
	Limit       int      `json:"limit,omitempty"`                      // 結果上限，省略時用伺服器預設
}

// RecommendResponse 推薦響應
type RecommendResponse struct {
	Count   int                        `json:"count"`
	Results []common.RecommendedRecipe `json:"results"`
}

// PerformanceResponse 效能量測響應
type PerformanceResponse struct {
	Ingredients   []string                   `json:"ingredients"`
	ResultsCount  int                        `json:"results_count"`
	ExecutionTime float64                    `json:"execution_time"`
	Results       []common.RecommendedRecipe `json:"results"`
}

// Handler 推薦處理程序
type Handler struct {
	service     *recipe.RecommendService
	cacheStore  cache.Store
	maxResults  int
	profileName string
}

// NewHandler 創建推薦處理程序
func NewHandler(service *recipe.RecommendService, cacheStore cache.Store, cfg *config.Config) *Handler {
	profileName := cfg.Match.Profile
	if profileName == "" {
		profileName = "default"
	}
	return &Handler{
		service:     service,
		cacheStore:  cacheStore,
		maxResults:  cfg.Match.MaxResults,
		profileName: profileName,
	}
}

// HandleRecommend 依食材推薦食譜
func (h *Handler) HandleRecommend(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = common.GenerateUUID()
		c.Header("X-Request-ID", requestID)
	}

	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	limit := req.Limit
	if limit <= 0 || limit > h.maxResults {
		limit = h.maxResults
	}

	common.LogInfo("開始處理推薦請求",
		zap.String("request_id", requestID),
		zap.Int("食材數量", len(req.Ingredients)),
		zap.Int("limit", limit),
	)

	// 快取查詢：相同食材組合直接回放先前的結果
	cacheKey := ""
	if h.cacheStore != nil {
		tokens := recipe.NormalizeUserTokens(req.Ingredients)
		cacheKey = cache.Key(tokens, limit, h.profileName)
		if cached, err := h.cacheStore.Get(c.Request.Context(), cacheKey); err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			return
		}
	}

	results, err := h.service.Recommend(c.Request.Context(), req.Ingredients)
	if err != nil {
		common.LogError("推薦失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Recommendation failed",
			"code":  common.ErrCodeServiceUnavailable,
		})
		return
	}

	if len(results) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到符合條件的食譜",
			"code":  "NO_MATCHING_RECIPES",
		})
		return
	}

	if len(results) > limit {
		results = results[:limit]
	}

	resp := RecommendResponse{
		Count:   len(results),
		Results: results,
	}

	// 寫入快取：只快取非空結果
	if h.cacheStore != nil && cacheKey != "" {
		if data, err := common.ToJSON(resp); err == nil {
			if err := h.cacheStore.Set(c.Request.Context(), cacheKey, data); err != nil {
				common.LogWarn("寫入快取失敗", zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// HandleRecommendPerformance 推薦並回報耗時（效能量測用，不經過快取）
func (h *Handler) HandleRecommendPerformance(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	start := time.Now()
	results, err := h.service.Recommend(c.Request.Context(), req.Ingredients)
	elapsed := time.Since(start)

	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Recommendation failed",
			"code":  common.ErrCodeServiceUnavailable,
		})
		return
	}

	// 只回傳前 5 筆，重點是時間數據
	top := results
	if len(top) > 5 {
		top = top[:5]
	}

	c.JSON(http.StatusOK, PerformanceResponse{
		Ingredients:   req.Ingredients,
		ResultsCount:  len(results),
		ExecutionTime: elapsed.Seconds(),
		Results:       top,
	})
}
