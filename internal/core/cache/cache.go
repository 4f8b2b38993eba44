// Package cache 提供推薦回應快取
// 快取只存在於 API 層：引擎本身不保留任何跨請求狀態
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"recipe-recommender/internal/infrastructure/config"
)

// Store 回應快取後端
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// New 依設定建立快取後端；停用時回傳 (nil, nil)
func New(cfg *config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch cfg.Backend {
	case "redis":
		return NewRedisStore(cfg)
	default:
		return NewManager(cfg), nil
	}
}

// Key 由正規化後的使用者 token、結果上限與評分方案組出快取鍵
// token 先排序，使食材順序不影響命中
func Key(tokens []string, limit int, profile string) string {
	sorted := append([]string(nil), tokens...)
	sort.Strings(sorted)
	raw := fmt.Sprintf("%s|%d|%s", strings.Join(sorted, ","), limit, profile)
	hash := sha256.Sum256([]byte(raw))
	return "recommend:" + hex.EncodeToString(hash[:])
}
