package vector

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"recipe-recommender/internal/pkg/common"
)

// RecipeMeta 建索引時擷取的食譜快照，與索引位置平行對應
// 權威的 title/content 以關聯式資料庫為準，這裡只用來解析
// recipeId 與提供評分用的粗略食材字串
type RecipeMeta struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Ingredients string `json:"ingredients"`
	Content     string `json:"content"`
}

// MetadataTable 位置式中繼資料表，啟動時載入一次後只讀
type MetadataTable struct {
	entries []RecipeMeta
}

// NewMetadataTable 以現有條目建表（建索引工具與測試用）
func NewMetadataTable(entries []RecipeMeta) *MetadataTable {
	return &MetadataTable{entries: entries}
}

// LoadMetadata 從 JSON 檔載入中繼資料表
func LoadMetadata(path string) (*MetadataTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata file: %w", err)
	}

	var entries []RecipeMeta
	if err := common.ParseJSONBytes(data, &entries); err != nil {
		return nil, fmt.Errorf("parse metadata file: %w", err)
	}
	return &MetadataTable{entries: entries}, nil
}

// Save 將中繼資料表持久化為 JSON
func (t *MetadataTable) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create metadata dir: %w", err)
	}
	data, err := json.Marshal(t.entries)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write metadata file: %w", err)
	}
	return nil
}

// Get 依索引位置取中繼資料；越界回傳 false
func (t *MetadataTable) Get(position int) (*RecipeMeta, bool) {
	if position < 0 || position >= len(t.entries) {
		return nil, false
	}
	return &t.entries[position], true
}

// Len 回傳中繼資料條目數
func (t *MetadataTable) Len() int {
	return len(t.entries)
}
