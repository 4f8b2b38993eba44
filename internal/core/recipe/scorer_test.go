package recipe

import (
	"math"
	"testing"

	"recipe-recommender/internal/infrastructure/config"
)

func TestMatchTokensSubstring(t *testing.T) {
	user := []string{"pepper", "garlic", "tofu"}
	recipeTokens := []string{"redpepperpaste", "garlic", "pork"}

	matched := matchTokens(user, recipeTokens, false)
	if len(matched) != 2 {
		t.Fatalf("matched = %v, want 2 tokens", matched)
	}
	if matched[0] != "pepper" || matched[1] != "garlic" {
		t.Errorf("matched = %v, want [pepper garlic]", matched)
	}
}

func TestMatchTokensBidirectional(t *testing.T) {
	// 使用者 token 較長、食譜 token 較短也要能配上
	matched := matchTokens([]string{"garlicclove"}, []string{"garlic"}, false)
	if len(matched) != 1 {
		t.Errorf("matched = %v, want 1 token", matched)
	}
}

func TestMatchTokensExact(t *testing.T) {
	user := []string{"pepper", "garlic"}
	recipeTokens := []string{"redpepperpaste", "garlic"}

	matched := matchTokens(user, recipeTokens, true)
	if len(matched) != 1 || matched[0] != "garlic" {
		t.Errorf("exact matched = %v, want [garlic]", matched)
	}
}

func TestMatchTokensOnePerUserToken(t *testing.T) {
	// 一個使用者 token 配到多個食譜 token 也只算一次
	matched := matchTokens([]string{"onion"}, []string{"onion", "redonion", "oniongreens"}, false)
	if len(matched) != 1 {
		t.Errorf("matched = %v, want exactly 1", matched)
	}
}

func TestMatchTokensSkipsEmpty(t *testing.T) {
	matched := matchTokens([]string{"", "salt"}, []string{"", "salt"}, false)
	if len(matched) != 1 || matched[0] != "salt" {
		t.Errorf("matched = %v, want [salt]", matched)
	}
}

func TestParseIngredientTokens(t *testing.T) {
	tokens := parseIngredientTokens("Minced Garlic, , egg yolk,2 onions")
	want := []string{"garlic", "egg", "onions"}
	if len(tokens) != len(want) {
		t.Fatalf("tokens = %v, want %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, tokens[i], want[i])
		}
	}
}

func TestDistanceScore(t *testing.T) {
	if got := distanceScore(0); got != 1.0 {
		t.Errorf("distanceScore(0) = %f, want 1", got)
	}
	if got := distanceScore(2); math.Abs(got-1.0/3.0) > 1e-9 {
		t.Errorf("distanceScore(2) = %f, want 1/3", got)
	}
	// 單調遞減
	if distanceScore(1) <= distanceScore(2) {
		t.Error("distanceScore should decrease with distance")
	}
}

func TestAffinityWeighted(t *testing.T) {
	p := DefaultProfile()

	// 全配對、距離 2.0：0.3*(1/3) + 0.7*1.0 = 0.8
	got := p.affinity(1.0, 2.0)
	want := 0.3*(1.0/3.0) + 0.7
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("affinity = %f, want %f", got, want)
	}

	// 分數始終落在 (0, 1]
	if s := p.affinity(0, 0); s <= 0 || s > 1 {
		t.Errorf("affinity(0, 0) = %f, out of range", s)
	}
	if s := p.affinity(1, 0); s != 1.0 {
		t.Errorf("affinity(1, 0) = %f, want 1", s)
	}
}

func TestProfileFromConfig(t *testing.T) {
	// 預設方案
	p := ProfileFromConfig(config.MatchConfig{})
	if p != DefaultProfile() {
		t.Errorf("default profile = %+v", p)
	}

	// 嚴格方案
	p = ProfileFromConfig(config.MatchConfig{Profile: "strict"})
	if p != StrictProfile() {
		t.Errorf("strict profile = %+v", p)
	}

	// 設定覆寫個別欄位
	p = ProfileFromConfig(config.MatchConfig{MinMatchScore: 0.5})
	if p.MinMatchScore != 0.5 {
		t.Errorf("MinMatchScore = %f, want 0.5", p.MinMatchScore)
	}
	if p.DistanceWeight != 0.3 || p.MatchWeight != 0.7 {
		t.Errorf("weights should keep defaults, got %+v", p)
	}
}
