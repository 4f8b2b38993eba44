package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"recipe-recommender/internal/core/embedding"
	"recipe-recommender/internal/core/vector"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/infrastructure/store"
	"recipe-recommender/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// importRecipe 匯入檔案中的單筆食譜
type importRecipe struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Ingredients string `json:"ingredients"`
	Content     string `json:"content"`
}

func main() {
	importPath := flag.String("import", "", "匯入食譜 JSON 檔案後再建索引")
	flag.Parse()

	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	ctx := context.Background()

	// 開啟食譜資料庫
	recipeStore, err := store.NewSQLiteStore(&cfg.Store)
	if err != nil {
		common.LogFatal("Failed to open recipe store",
			zap.String("path", cfg.Store.Path),
			zap.Error(err),
		)
	}
	defer recipeStore.Close()

	// 匯入食譜資料
	if *importPath != "" {
		if err := importRecipes(ctx, recipeStore, *importPath); err != nil {
			common.LogFatal("Failed to import recipes",
				zap.String("path", *importPath),
				zap.Error(err),
			)
		}
	}

	// 讀取所有待建索引的食譜
	rows, err := recipeStore.ListRecipes(ctx)
	if err != nil {
		common.LogFatal("Failed to list recipes", zap.Error(err))
	}
	if len(rows) == 0 {
		common.LogFatal("No recipes to index",
			zap.String("store_path", cfg.Store.Path),
		)
	}

	common.LogInfo("開始建立向量索引",
		zap.Int("recipes", len(rows)),
		zap.String("embedding_model", cfg.Embedding.Model),
	)

	embedder := embedding.NewClient(&cfg.Embedding)

	var index *vector.FlatIndex
	entries := make([]vector.RecipeMeta, 0, len(rows))
	indexed := 0

	for _, row := range rows {
		ingredients := splitIngredients(row.Ingredients)
		if len(ingredients) == 0 {
			common.LogWarn("Skipping recipe with no ingredients",
				zap.Int64("recipe_id", row.ID),
			)
			continue
		}

		vec, err := embedder.EmbedIngredients(ctx, ingredients)
		if err != nil {
			common.LogFatal("Failed to embed recipe",
				zap.Int64("recipe_id", row.ID),
				zap.Error(err),
			)
		}

		// 第一筆向量決定索引維度
		if index == nil {
			index, err = vector.NewFlatIndex(len(vec))
			if err != nil {
				common.LogFatal("Failed to create index", zap.Error(err))
			}
		}

		if err := index.Add([][]float32{vec}); err != nil {
			common.LogFatal("Failed to add vector",
				zap.Int64("recipe_id", row.ID),
				zap.Error(err),
			)
		}

		entries = append(entries, vector.RecipeMeta{
			ID:          row.ID,
			Title:       row.Title,
			Ingredients: row.Ingredients,
			Content:     row.Content,
		})
		indexed++

		if indexed%100 == 0 {
			common.LogInfo("索引建立中",
				zap.Int("indexed", indexed),
				zap.Int("total", len(rows)),
			)
		}
	}

	if index == nil || index.Size() == 0 {
		common.LogFatal("No vectors were indexed")
	}

	// 寫出索引與中繼資料
	if err := index.Save(cfg.Index.IndexPath); err != nil {
		common.LogFatal("Failed to save index",
			zap.String("path", cfg.Index.IndexPath),
			zap.Error(err),
		)
	}
	if err := vector.NewMetadataTable(entries).Save(cfg.Index.MetadataPath); err != nil {
		common.LogFatal("Failed to save metadata",
			zap.String("path", cfg.Index.MetadataPath),
			zap.Error(err),
		)
	}

	common.LogInfo("索引建立完成",
		zap.Int("vectors", index.Size()),
		zap.Int("dimensions", index.Dimensions()),
		zap.String("index_path", cfg.Index.IndexPath),
		zap.String("metadata_path", cfg.Index.MetadataPath),
	)
}

// importRecipes 匯入 JSON 檔案中的食譜，重複 ID 以新資料覆蓋
func importRecipes(ctx context.Context, recipeStore *store.SQLiteStore, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	var recipes []importRecipe
	if err := common.ParseJSONBytes(data, &recipes); err != nil {
		return fmt.Errorf("failed to parse import file: %w", err)
	}

	for _, r := range recipes {
		if r.ID == 0 || r.Title == "" {
			common.LogWarn("Skipping invalid recipe entry",
				zap.Int64("recipe_id", r.ID),
				zap.String("title", r.Title),
			)
			continue
		}
		row := &common.RecipeRow{
			ID:          r.ID,
			Title:       r.Title,
			Ingredients: r.Ingredients,
			Content:     r.Content,
		}
		if err := recipeStore.InsertRecipe(ctx, row); err != nil {
			return fmt.Errorf("failed to insert recipe %d: %w", r.ID, err)
		}
	}

	common.LogInfo("食譜匯入完成",
		zap.Int("count", len(recipes)),
		zap.String("path", path),
	)
	return nil
}

// splitIngredients 將逗號分隔的食材字串拆成清單
func splitIngredients(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
