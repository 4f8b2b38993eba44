// Package store 提供食譜關聯式資料庫的 SQLite 實作
// 服務路徑只讀；寫入僅發生在匯入工具
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
)

// SQLiteStore 以 SQLite 實作食譜資料庫
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore 開啟（必要時建立）資料庫並初始化 schema
func NewSQLiteStore(cfg *config.StoreConfig) (*SQLiteStore, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS recipe (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		ingredients TEXT NOT NULL,
		content TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_recipe_title ON recipe(title);
	`
	_, err := db.Exec(schema)
	return err
}

// GetRecipe 依 id 讀取單筆食譜
// 查無此列回傳 (nil, nil)：索引快照可能比資料庫新，缺列是軟性未命中
func (s *SQLiteStore) GetRecipe(ctx context.Context, id int64) (*common.RecipeRow, error) {
	var row common.RecipeRow
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, ingredients, content FROM recipe WHERE id = ?`, id,
	).Scan(&row.ID, &row.Title, &row.Ingredients, &row.Content)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query recipe %d: %w", id, err)
	}
	return &row, nil
}

// ListRecipes 讀取全部食譜（建索引工具用），依 id 升冪
func (s *SQLiteStore) ListRecipes(ctx context.Context) ([]common.RecipeRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, ingredients, content FROM recipe ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}
	defer rows.Close()

	var recipes []common.RecipeRow
	for rows.Next() {
		var row common.RecipeRow
		if err := rows.Scan(&row.ID, &row.Title, &row.Ingredients, &row.Content); err != nil {
			return nil, fmt.Errorf("scan recipe row: %w", err)
		}
		recipes = append(recipes, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipe rows: %w", err)
	}
	return recipes, nil
}

// InsertRecipe 寫入單筆食譜（匯入工具用，id 相同時覆蓋）
func (s *SQLiteStore) InsertRecipe(ctx context.Context, row *common.RecipeRow) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO recipe (id, title, ingredients, content) VALUES (?, ?, ?, ?)`,
		row.ID, row.Title, row.Ingredients, row.Content,
	)
	if err != nil {
		return fmt.Errorf("insert recipe %d: %w", row.ID, err)
	}
	return nil
}

// Count 回傳食譜總數
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipe`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count recipes: %w", err)
	}
	return n, nil
}

// Ping 檢查資料庫連線（健康檢查用）
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close 關閉資料庫
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
