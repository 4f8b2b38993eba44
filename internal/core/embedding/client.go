// Package embedding 封裝外部嵌入服務
// 引擎每個請求只呼叫一次，取得整句查詢的稠密向量
package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// queryTemplate 與建索引時相同的語句模板，兩邊必須一致才能比距離
const queryTemplate = "The ingredients used in this dish are %s."

// Client 嵌入服務客戶端
type Client struct {
	config *config.EmbeddingConfig
	client *resty.Client
}

// NewClient 創建嵌入服務客戶端
func NewClient(cfg *config.EmbeddingConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		config: cfg,
		client: client,
	}
}

// embedRequest 嵌入服務請求格式
type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// embedResponse 嵌入服務回應格式
type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// EmbedIngredients 將使用者食材列表組成查詢語句並取得查詢向量
func (c *Client) EmbedIngredients(ctx context.Context, ingredients []string) ([]float32, error) {
	start := time.Now()

	req := embedRequest{
		Model:  c.config.Model,
		Prompt: fmt.Sprintf(queryTemplate, common.FormatIngredientList(ingredients)),
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/api/embeddings")
	if err != nil {
		common.LogEmbeddingCall(len(ingredients), time.Since(start), err)
		return nil, fmt.Errorf("failed to call embedding service: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		err := fmt.Errorf("embedding service returned status %d: %s", resp.StatusCode(), resp.String())
		common.LogEmbeddingCall(len(ingredients), time.Since(start), err)
		return nil, err
	}

	var result embedResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		common.LogEmbeddingCall(len(ingredients), time.Since(start), err)
		return nil, fmt.Errorf("failed to parse embedding response: %w", err)
	}
	if len(result.Embedding) == 0 {
		err := fmt.Errorf("empty embedding in response")
		common.LogEmbeddingCall(len(ingredients), time.Since(start), err)
		return nil, err
	}

	common.LogEmbeddingCall(len(ingredients), time.Since(start), nil)
	return result.Embedding, nil
}
