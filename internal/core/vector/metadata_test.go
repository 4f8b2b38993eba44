package vector

import (
	"path/filepath"
	"testing"
)

func TestMetadataTableGet(t *testing.T) {
	table := NewMetadataTable([]RecipeMeta{
		{ID: 10, Title: "蒜香炒蛋", Ingredients: "egg, garlic"},
		{ID: 20, Title: "洋蔥炒肉", Ingredients: "onion, pork"},
	})

	meta, ok := table.Get(1)
	if !ok {
		t.Fatal("expected position 1 to exist")
	}
	if meta.ID != 20 {
		t.Errorf("meta.ID = %d, want 20", meta.ID)
	}

	if _, ok := table.Get(-1); ok {
		t.Error("expected negative position to be out of bounds")
	}
	if _, ok := table.Get(2); ok {
		t.Error("expected position 2 to be out of bounds")
	}
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}
}

func TestMetadataTableSaveLoad(t *testing.T) {
	entries := []RecipeMeta{
		{ID: 1, Title: "番茄炒蛋", Ingredients: "egg, tomato", Content: "打蛋\n下鍋"},
		{ID: 2, Title: "蔥油雞", Ingredients: "chicken, green onion"},
	}
	path := filepath.Join(t.TempDir(), "metadata.json")

	if err := NewMetadataTable(entries).Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadMetadata(path)
	if err != nil {
		t.Fatalf("LoadMetadata failed: %v", err)
	}
	if loaded.Len() != len(entries) {
		t.Fatalf("loaded %d entries, want %d", loaded.Len(), len(entries))
	}
	for i, want := range entries {
		got, ok := loaded.Get(i)
		if !ok {
			t.Fatalf("position %d missing after load", i)
		}
		if *got != want {
			t.Errorf("entry %d = %+v, want %+v", i, *got, want)
		}
	}
}

func TestLoadMetadataMissingFile(t *testing.T) {
	if _, err := LoadMetadata(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing metadata file")
	}
}
