package recipe

import (
	"context"
	"fmt"
	"sort"

	"recipe-recommender/internal/core/ingredient"
	"recipe-recommender/internal/core/vector"
	"recipe-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// RecommendService 食譜推薦服務
// 無狀態：單一請求內管線嚴格循序，跨請求之間不共享可變狀態，
// 索引與中繼資料只讀共享，可安全並行呼叫
type RecommendService struct {
	embedder Embedder
	index    SearchIndex
	metadata *vector.MetadataTable
	store    RecipeStore
	profile  ScoringProfile
	topK     int
}

// NewRecommendService 創建食譜推薦服務
// 依賴由呼叫端顯式注入，不使用套件層級的共享狀態
func NewRecommendService(embedder Embedder, index SearchIndex, metadata *vector.MetadataTable, store RecipeStore, profile ScoringProfile, topK int) *RecommendService {
	if topK <= 0 {
		topK = 500
	}
	return &RecommendService{
		embedder: embedder,
		index:    index,
		metadata: metadata,
		store:    store,
		profile:  profile,
		topK:     topK,
	}
}

// Profile 回傳目前生效的評分策略
func (s *RecommendService) Profile() ScoringProfile {
	return s.profile
}

// Recommend 依使用者食材列表推薦食譜
// 回傳完整排序結果；截斷由呼叫端決定
// 空輸入或全數被門檻淘汰時回傳空列表，不是錯誤
func (s *RecommendService) Recommend(ctx context.Context, ingredients []string) ([]common.RecommendedRecipe, error) {
	userTokens := NormalizeUserTokens(ingredients)
	if len(userTokens) == 0 {
		return nil, nil
	}

	common.LogDebug("正規化後的使用者食材",
		zap.Strings("tokens", userTokens),
	)

	// 1) 取得查詢向量（外部服務，單次呼叫）
	queryEmbedding, err := s.embedder.EmbedIngredients(ctx, ingredients)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	// 2) 向量檢索
	hits, err := s.index.Search(queryEmbedding, s.topK)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	// 3) 去重：每個 recipeId 留距離最小的命中
	candidates := dedupe(hits, s.metadata)

	common.LogDebug("檢索與去重完成",
		zap.Int("raw_hits", len(hits)),
		zap.Int("unique_candidates", len(candidates)),
	)

	// 依距離升冪逐一評分，讓距離近的候選先佔住重複標題
	ordered := make([]*recipeCandidate, 0, len(candidates))
	for _, cand := range candidates {
		ordered = append(ordered, cand)
	}
	sort.SliceStable(ordered, func(a, b int) bool {
		return ordered[a].bestDistance < ordered[b].bestDistance
	})

	results := make([]common.RecommendedRecipe, 0, len(ordered))
	seenTitles := make(map[string]struct{})

	for _, cand := range ordered {
		recipeTokens := parseIngredientTokens(cand.ingredientsRaw)

		matched := matchTokens(userTokens, recipeTokens, s.profile.ExactMatch)
		if len(matched) == 0 {
			continue
		}

		matchScore := float64(len(matched)) / float64(len(userTokens))
		if matchScore < s.profile.MinMatchScore {
			continue
		}

		// 標題去重：與 id 去重互相獨立，兩個不同 id 可能對到同名食譜
		if _, dup := seenTitles[cand.title]; dup && cand.title != "" {
			continue
		}

		// 4) 延遲補全：只有通過門檻的候選才查資料庫
		row, err := s.store.GetRecipe(ctx, cand.id)
		if err != nil {
			return nil, fmt.Errorf("hydrating recipe %d: %w", cand.id, err)
		}
		if row == nil {
			// 索引快照裡的食譜已不在資料庫，靜默略過
			continue
		}
		if _, dup := seenTitles[row.Title]; dup && row.Title != "" {
			continue
		}
		if cand.title != "" {
			seenTitles[cand.title] = struct{}{}
		}
		if row.Title != "" {
			seenTitles[row.Title] = struct{}{}
		}

		results = append(results, common.RecommendedRecipe{
			ID:                 row.ID,
			Title:              row.Title,
			Ingredients:        row.Ingredients,
			Content:            common.FlattenContent(row.Content),
			MatchScore:         matchScore,
			Affinity:           s.profile.affinity(matchScore, cand.bestDistance),
			MatchedIngredients: matched,
		})
	}

	// 5) 排序：配對到的食材數優先，配對比例次之
	// 用上 3/5 個食材的食譜勝過只用上 2/2 個的（窮盡可用食材重於覆蓋率）
	sort.SliceStable(results, func(a, b int) bool {
		if len(results[a].MatchedIngredients) != len(results[b].MatchedIngredients) {
			return len(results[a].MatchedIngredients) > len(results[b].MatchedIngredients)
		}
		return results[a].MatchScore > results[b].MatchScore
	})

	common.LogInfo("推薦完成",
		zap.Int("輸入食材數", len(ingredients)),
		zap.Int("結果數", len(results)),
	)

	return results, nil
}

// NormalizeUserTokens 正規化使用者食材並去除重複，保持輸入順序
func NormalizeUserTokens(ingredients []string) []string {
	tokens := make([]string, 0, len(ingredients))
	seen := make(map[string]struct{}, len(ingredients))
	for _, raw := range ingredients {
		if raw == "" {
			continue
		}
		tok := ingredient.Normalize(raw)
		if tok == "" {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}
