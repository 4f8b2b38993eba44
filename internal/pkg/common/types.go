package common

import "strings"

// RecipeRow 關聯式資料庫中的食譜列
// 查詢層以具名欄位填充，引擎只讀不寫
type RecipeRow struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Ingredients string `json:"ingredients"`
	Content     string `json:"content"`
}

// RecommendedRecipe 推薦結果，僅存在於單一請求的生命週期內
type RecommendedRecipe struct {
	ID                 int64    `json:"id"`
	Title              string   `json:"title"`
	Ingredients        string   `json:"ingredients"`
	Content            string   `json:"content"`
	MatchScore         float64  `json:"match_score"`
	Affinity           float64  `json:"affinity"`
	MatchedIngredients []string `json:"matched_ingredients"`
}

// FlattenContent 將食譜內文的換行壓成單行，方便前端直接顯示
func FlattenContent(content string) string {
	return strings.ReplaceAll(content, "\n", " ")
}

// FormatIngredientList 格式化食材名稱列表（日誌與提示語句用）
func FormatIngredientList(ingredients []string) string {
	trimmed := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		if s := strings.TrimSpace(ing); s != "" {
			trimmed = append(trimmed, s)
		}
	}
	return strings.Join(trimmed, ", ")
}
