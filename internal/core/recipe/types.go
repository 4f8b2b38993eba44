// Package recipe 實作食譜推薦引擎：
// 向量檢索 → 去重 → 詞彙配對評分 → 排序 → 延遲補全
package recipe

import (
	"context"

	"recipe-recommender/internal/core/vector"
	"recipe-recommender/internal/pkg/common"
)

// Embedder 外部嵌入服務，每個請求最多呼叫一次
type Embedder interface {
	EmbedIngredients(ctx context.Context, ingredients []string) ([]float32, error)
}

// SearchIndex 近似最近鄰索引，回傳依距離升冪的 (位置, 距離) 配對
type SearchIndex interface {
	Search(query []float32, k int) ([]vector.Hit, error)
	Size() int
}

// RecipeStore 關聯式食譜資料庫，只讀
// 查無此列回傳 (nil, nil)；連線層錯誤才回傳 error
type RecipeStore interface {
	GetRecipe(ctx context.Context, id int64) (*common.RecipeRow, error)
}

// recipeCandidate 去重後的候選：每個 recipeId 在單一請求內最多一筆
type recipeCandidate struct {
	id             int64
	bestDistance   float32
	position       int
	title          string
	ingredientsRaw string
}
