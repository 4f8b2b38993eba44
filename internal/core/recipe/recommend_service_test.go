package recipe

import (
	"context"
	"errors"
	"os"
	"testing"

	"recipe-recommender/internal/core/vector"
	"recipe-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

type fakeEmbedder struct {
	embedding []float32
	err       error
	calls     int
}

func (f *fakeEmbedder) EmbedIngredients(_ context.Context, _ []string) ([]float32, error) {
	f.calls++
	return f.embedding, f.err
}

type fakeIndex struct {
	hits []vector.Hit
	err  error
}

func (f *fakeIndex) Search(_ []float32, _ int) ([]vector.Hit, error) {
	return f.hits, f.err
}

func (f *fakeIndex) Size() int { return len(f.hits) }

type fakeStore struct {
	rows  map[int64]*common.RecipeRow
	err   error
	calls int
}

func (f *fakeStore) GetRecipe(_ context.Context, id int64) (*common.RecipeRow, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[id], nil
}

func newTestService(embedder Embedder, index SearchIndex, metadata *vector.MetadataTable, store RecipeStore) *RecommendService {
	return NewRecommendService(embedder, index, metadata, store, DefaultProfile(), 500)
}

func TestRecommendEmptyInput(t *testing.T) {
	embedder := &fakeEmbedder{embedding: []float32{1}}
	svc := newTestService(embedder, &fakeIndex{}, vector.NewMetadataTable(nil), &fakeStore{})

	for _, input := range [][]string{nil, {}, {""}} {
		results, err := svc.Recommend(context.Background(), input)
		if err != nil {
			t.Fatalf("Recommend(%v) failed: %v", input, err)
		}
		if len(results) != 0 {
			t.Errorf("Recommend(%v) = %d results, want 0", input, len(results))
		}
	}
	// 空輸入不應觸發外部嵌入呼叫
	if embedder.calls != 0 {
		t.Errorf("embedder called %d times for empty input", embedder.calls)
	}
}

func TestRecommendNoHits(t *testing.T) {
	svc := newTestService(
		&fakeEmbedder{embedding: []float32{1}},
		&fakeIndex{},
		vector.NewMetadataTable(nil),
		&fakeStore{},
	)

	results, err := svc.Recommend(context.Background(), []string{"durian"})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}

func TestRecommendPipeline(t *testing.T) {
	metadata := vector.NewMetadataTable([]vector.RecipeMeta{
		{ID: 1, Title: "蒜香炒蛋", Ingredients: "egg, garlic, salt"},
		{ID: 2, Title: "涼拌豆腐", Ingredients: "tofu, soy sauce"},
		{ID: 3, Title: "滷豬肉", Ingredients: "pork, soy sauce, sugar"},
	})
	index := &fakeIndex{hits: []vector.Hit{
		{Position: 0, Distance: 0.5},
		{Position: 1, Distance: 1.0},
		{Position: 2, Distance: 2.0},
	}}
	store := &fakeStore{rows: map[int64]*common.RecipeRow{
		1: {ID: 1, Title: "蒜香炒蛋", Ingredients: "egg, garlic, salt", Content: "打蛋\n下鍋炒"},
		2: {ID: 2, Title: "涼拌豆腐", Ingredients: "tofu, soy sauce", Content: "切塊"},
		3: {ID: 3, Title: "滷豬肉", Ingredients: "pork, soy sauce, sugar", Content: "慢燉"},
	}}

	svc := newTestService(&fakeEmbedder{embedding: []float32{1}}, index, metadata, store)

	results, err := svc.Recommend(context.Background(), []string{"egg", "garlic"})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	// 只有食譜 1 配得到兩個 token；2、3 完全配不到而被淘汰
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d: %+v", len(results), results)
	}
	r := results[0]
	if r.ID != 1 {
		t.Errorf("result ID = %d, want 1", r.ID)
	}
	if r.MatchScore != 1.0 {
		t.Errorf("MatchScore = %f, want 1.0", r.MatchScore)
	}
	if len(r.MatchedIngredients) != 2 {
		t.Errorf("MatchedIngredients = %v, want 2 tokens", r.MatchedIngredients)
	}
	// 換行在補全時攤平
	if r.Content != "打蛋 下鍋炒" {
		t.Errorf("Content = %q, want flattened", r.Content)
	}
}

func TestRecommendRankingByMatchedCount(t *testing.T) {
	// 配到 3 個食材的食譜要贏過只配到 2 個但比例滿分的
	metadata := vector.NewMetadataTable([]vector.RecipeMeta{
		{ID: 1, Title: "三味拌菜", Ingredients: "egg, garlic, onion"},
		{ID: 2, Title: "雙味小品", Ingredients: "egg, garlic"},
	})
	index := &fakeIndex{hits: []vector.Hit{
		{Position: 1, Distance: 0.1}, // 距離較近的反而配對較少
		{Position: 0, Distance: 5.0},
	}}
	store := &fakeStore{rows: map[int64]*common.RecipeRow{
		1: {ID: 1, Title: "三味拌菜", Ingredients: "egg, garlic, onion"},
		2: {ID: 2, Title: "雙味小品", Ingredients: "egg, garlic"},
	}}

	svc := newTestService(&fakeEmbedder{embedding: []float32{1}}, index, metadata, store)

	results, err := svc.Recommend(context.Background(), []string{"egg", "garlic", "onion"})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != 1 {
		t.Errorf("first result ID = %d, want 1 (more matched ingredients)", results[0].ID)
	}
	if results[1].ID != 2 {
		t.Errorf("second result ID = %d, want 2", results[1].ID)
	}
}

func TestRecommendTitleDedup(t *testing.T) {
	// 兩個不同 id 指向同名食譜，只保留距離較近者
	metadata := vector.NewMetadataTable([]vector.RecipeMeta{
		{ID: 1, Title: "家常豆腐", Ingredients: "tofu, garlic"},
		{ID: 2, Title: "家常豆腐", Ingredients: "tofu, garlic"},
	})
	index := &fakeIndex{hits: []vector.Hit{
		{Position: 0, Distance: 0.3},
		{Position: 1, Distance: 0.8},
	}}
	store := &fakeStore{rows: map[int64]*common.RecipeRow{
		1: {ID: 1, Title: "家常豆腐", Ingredients: "tofu, garlic"},
		2: {ID: 2, Title: "家常豆腐", Ingredients: "tofu, garlic"},
	}}

	svc := newTestService(&fakeEmbedder{embedding: []float32{1}}, index, metadata, store)

	results, err := svc.Recommend(context.Background(), []string{"tofu"})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result after title dedup, got %d", len(results))
	}
	if results[0].ID != 1 {
		t.Errorf("kept ID = %d, want 1 (closer distance)", results[0].ID)
	}
}

func TestRecommendMissingRowSkipped(t *testing.T) {
	metadata := vector.NewMetadataTable([]vector.RecipeMeta{
		{ID: 1, Title: "已下架", Ingredients: "egg"},
		{ID: 2, Title: "還在", Ingredients: "egg"},
	})
	index := &fakeIndex{hits: []vector.Hit{
		{Position: 0, Distance: 0.1},
		{Position: 1, Distance: 0.2},
	}}
	// 食譜 1 不在資料庫裡
	store := &fakeStore{rows: map[int64]*common.RecipeRow{
		2: {ID: 2, Title: "還在", Ingredients: "egg"},
	}}

	svc := newTestService(&fakeEmbedder{embedding: []float32{1}}, index, metadata, store)

	results, err := svc.Recommend(context.Background(), []string{"egg"})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != 2 {
		t.Errorf("results = %+v, want only recipe 2", results)
	}
}

func TestRecommendStoreError(t *testing.T) {
	metadata := vector.NewMetadataTable([]vector.RecipeMeta{
		{ID: 1, Title: "壞掉的", Ingredients: "egg"},
	})
	index := &fakeIndex{hits: []vector.Hit{{Position: 0, Distance: 0.1}}}
	store := &fakeStore{err: errors.New("database is locked")}

	svc := newTestService(&fakeEmbedder{embedding: []float32{1}}, index, metadata, store)

	if _, err := svc.Recommend(context.Background(), []string{"egg"}); err == nil {
		t.Error("expected error when store fails")
	}
}

func TestRecommendEmbedderError(t *testing.T) {
	svc := newTestService(
		&fakeEmbedder{err: errors.New("service unavailable")},
		&fakeIndex{},
		vector.NewMetadataTable(nil),
		&fakeStore{},
	)

	if _, err := svc.Recommend(context.Background(), []string{"egg"}); err == nil {
		t.Error("expected error when embedder fails")
	}
}

func TestRecommendThresholdFilter(t *testing.T) {
	// 五個輸入只配到一個，比例 0.2 超過預設門檻 0.1，仍保留；
	// 嚴格方案門檻 0.3 則淘汰
	metadata := vector.NewMetadataTable([]vector.RecipeMeta{
		{ID: 1, Title: "單味", Ingredients: "egg, flour"},
	})
	index := &fakeIndex{hits: []vector.Hit{{Position: 0, Distance: 0.5}}}
	store := &fakeStore{rows: map[int64]*common.RecipeRow{
		1: {ID: 1, Title: "單味", Ingredients: "egg, flour"},
	}}
	input := []string{"egg", "tofu", "pork", "beef", "lamb"}

	svc := newTestService(&fakeEmbedder{embedding: []float32{1}}, index, metadata, store)
	results, err := svc.Recommend(context.Background(), input)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("default profile: expected 1 result, got %d", len(results))
	}
	if results[0].MatchScore != 0.2 {
		t.Errorf("MatchScore = %f, want 0.2", results[0].MatchScore)
	}

	strict := NewRecommendService(&fakeEmbedder{embedding: []float32{1}}, index, metadata, store, StrictProfile(), 500)
	results, err = strict.Recommend(context.Background(), input)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("strict profile: expected 0 results, got %d", len(results))
	}
}

func TestNormalizeUserTokens(t *testing.T) {
	tokens := NormalizeUserTokens([]string{"Egg Yolk", "egg white", "", "garlic"})
	// 兩個蛋的變體收斂為同一 token
	want := []string{"egg", "garlic"}
	if len(tokens) != len(want) {
		t.Fatalf("tokens = %v, want %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, tokens[i], want[i])
		}
	}
}
