package ingredient

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"小寫不變", "garlic", "garlic"},
		{"大小寫統一", "Garlic", "garlic"},
		{"移除數量與空白", "2 eggs", "eggs"},
		{"移除標點", "salt!", "salt"},
		{"移除描述性前綴", "minced garlic", "garlic"},
		{"前綴只移除一次", "dried fresh basil", "basil"},
		{"同義詞統一 蛋黃", "egg yolk", "egg"},
		{"同義詞統一 老抽", "dark soy sauce", "soysauce"},
		{"同義詞統一 青蔥", "spring onion", "greenonion"},
		{"同義詞統一 橄欖油", "olive oil", "cookingoil"},
		{"同義詞統一 黑胡椒", "black pepper", "pepper"},
		{"非同義詞保持清洗結果", "pork belly", "porkbelly"},
		{"純數字退回原字串", "123", "123"},
		{"純符號退回原字串", "!!", "!!"},
		{"空字串退回原字串", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Minced Garlic", "egg yolk", "2 tbsp olive oil", "pork belly", "spring onion"}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalizePrefixSinglePass(t *testing.T) {
	// 前綴表為單趟掃描，移除 baby 後不會回頭再比對排在前面的前綴
	got := Normalize("baby minced carrot")
	if got != "mincedcarrot" {
		t.Errorf("Normalize(%q) = %q, want %q", "baby minced carrot", got, "mincedcarrot")
	}
}
