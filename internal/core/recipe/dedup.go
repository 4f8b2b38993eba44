package recipe

import (
	"recipe-recommender/internal/core/vector"
)

// dedupe 將原始檢索命中收斂成每個 recipeId 一筆最佳（距離最小）候選
// 越界位置與缺少 recipeId 的中繼資料靜默略過，不視為錯誤
// 距離相同時保留先到者；命中本身已依距離升冪，故先到即較佳
func dedupe(hits []vector.Hit, metadata *vector.MetadataTable) map[int64]*recipeCandidate {
	best := make(map[int64]*recipeCandidate)
	for _, hit := range hits {
		meta, ok := metadata.Get(hit.Position)
		if !ok {
			continue
		}
		if meta.ID == 0 {
			continue
		}
		if existing, exists := best[meta.ID]; exists && hit.Distance >= existing.bestDistance {
			continue
		}
		best[meta.ID] = &recipeCandidate{
			id:             meta.ID,
			bestDistance:   hit.Distance,
			position:       hit.Position,
			title:          meta.Title,
			ingredientsRaw: meta.Ingredients,
		}
	}
	return best
}
