package recipe

import (
	"strings"

	"recipe-recommender/internal/core/ingredient"
	"recipe-recommender/internal/infrastructure/config"
)

// ScoringProfile 配對評分策略
// 權重與門檻是策略常數而非結構不變量，透過設定切換
type ScoringProfile struct {
	DistanceWeight float64
	MatchWeight    float64
	MinMatchScore  float64
	ExactMatch     bool // true 時用精確 token 交集取代子字串包含
}

// DefaultProfile 寬鬆方案：子字串配對，詞彙配對為主、向量距離為輔
func DefaultProfile() ScoringProfile {
	return ScoringProfile{
		DistanceWeight: 0.3,
		MatchWeight:    0.7,
		MinMatchScore:  0.1,
		ExactMatch:     false,
	}
}

// StrictProfile 嚴格方案：精確交集配對、較高淘汰門檻
func StrictProfile() ScoringProfile {
	return ScoringProfile{
		DistanceWeight: 0.4,
		MatchWeight:    0.6,
		MinMatchScore:  0.3,
		ExactMatch:     true,
	}
}

// ProfileFromConfig 由設定解析評分策略，未指定的欄位沿用方案預設值
func ProfileFromConfig(cfg config.MatchConfig) ScoringProfile {
	var profile ScoringProfile
	switch cfg.Profile {
	case "strict":
		profile = StrictProfile()
	default:
		profile = DefaultProfile()
	}
	if cfg.DistanceWeight > 0 {
		profile.DistanceWeight = cfg.DistanceWeight
	}
	if cfg.MatchWeight > 0 {
		profile.MatchWeight = cfg.MatchWeight
	}
	if cfg.MinMatchScore > 0 {
		profile.MinMatchScore = cfg.MinMatchScore
	}
	return profile
}

// parseIngredientTokens 將逗號分隔的食材字串轉成正規化 token 列表
// 空片段捨棄
func parseIngredientTokens(raw string) []string {
	parts := strings.Split(raw, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tokens = append(tokens, ingredient.Normalize(part))
	}
	return tokens
}

// matchTokens 回傳配對成功的使用者 token
// 每個使用者 token 最多貢獻一次配對：遇到第一個滿足條件的食譜 token 即停
// 子字串配對是雙向包含，容忍複合食材詞（如 red pepper paste 含 pepper paste）
func matchTokens(userTokens, recipeTokens []string, exact bool) []string {
	matched := make([]string, 0, len(userTokens))
	for _, u := range userTokens {
		if u == "" {
			continue
		}
		for _, r := range recipeTokens {
			if r == "" {
				continue
			}
			if exact {
				if u == r {
					matched = append(matched, u)
					break
				}
			} else if strings.Contains(r, u) || strings.Contains(u, r) {
				matched = append(matched, u)
				break
			}
		}
	}
	return matched
}

// distanceScore 將非負距離映為 (0,1]，距離越小分數越高
func distanceScore(distance float32) float64 {
	return 1.0 / (1.0 + float64(distance))
}

// affinity 綜合評分：詞彙配對為主要訊號，向量距離當次要訊號
func (p ScoringProfile) affinity(matchScore float64, distance float32) float64 {
	return p.DistanceWeight*distanceScore(distance) + p.MatchWeight*matchScore
}
