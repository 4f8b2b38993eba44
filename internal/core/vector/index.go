// Package vector 提供扁平 L2 向量索引與位置式中繼資料表
// 索引與中繼資料在啟動時載入一次，之後只讀共享
package vector

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Hit 單筆最近鄰檢索結果
// Position 是索引內的位置，Distance 是平方 L2 距離（越小越相似）
type Hit struct {
	Position int
	Distance float32
}

// FlatIndex 扁平暴力搜尋索引，等價於 IndexFlatL2
// 讀取為並行安全；建索引工具以外不存在寫入路徑
type FlatIndex struct {
	dimensions int
	vectors    [][]float32
	mu         sync.RWMutex
}

// NewFlatIndex 建立指定維度的空索引
func NewFlatIndex(dimensions int) (*FlatIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	return &FlatIndex{
		dimensions: dimensions,
		vectors:    make([][]float32, 0),
	}, nil
}

// Add 追加向量，位置依加入順序遞增
func (idx *FlatIndex) Add(vectors [][]float32) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, vec := range vectors {
		if len(vec) != idx.dimensions {
			return fmt.Errorf("vector dimension mismatch: got %d, expected %d", len(vec), idx.dimensions)
		}
		cp := make([]float32, idx.dimensions)
		copy(cp, vec)
		idx.vectors = append(idx.vectors, cp)
	}
	return nil
}

// Search 回傳最多 k 筆結果，依距離升冪排序；距離相同時位置小者在前
func (idx *FlatIndex) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != idx.dimensions {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(query), idx.dimensions)
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if k <= 0 || len(idx.vectors) == 0 {
		return nil, nil
	}

	hits := make([]Hit, len(idx.vectors))
	for i, vec := range idx.vectors {
		var sum float64
		for j := 0; j < idx.dimensions; j++ {
			d := float64(query[j] - vec[j])
			sum += d * d
		}
		hits[i] = Hit{Position: i, Distance: float32(sum)}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Distance < hits[b].Distance })

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Size 回傳索引內的向量數
func (idx *FlatIndex) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.vectors)
}

// Dimensions 回傳索引維度
func (idx *FlatIndex) Dimensions() int {
	return idx.dimensions
}

// Save 將索引持久化
// 格式：dimensions (uint32)、count (uint32)，之後每向量 dimensions*4 bytes (LE)
func (idx *FlatIndex) Save(path string) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer f.Close()
	if err := binary.Write(f, binary.LittleEndian, uint32(idx.dimensions)); err != nil {
		return fmt.Errorf("write dimensions: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(len(idx.vectors))); err != nil {
		return fmt.Errorf("write count: %w", err)
	}
	for _, vec := range idx.vectors {
		if _, err := f.Write(float32SliceToBytes(vec)); err != nil {
			return fmt.Errorf("write vector: %w", err)
		}
	}
	return nil
}

// LoadFlatIndex 從檔案載入索引
// 檔案不存在或格式錯誤都是錯誤：沒有可用的索引就不該對外服務
func LoadFlatIndex(path string) (*FlatIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()

	var dim, n uint32
	if err := binary.Read(f, binary.LittleEndian, &dim); err != nil {
		return nil, fmt.Errorf("read dimensions: %w", err)
	}
	if dim == 0 {
		return nil, fmt.Errorf("index file has zero dimensions")
	}
	if err := binary.Read(f, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("read count: %w", err)
	}

	idx := &FlatIndex{
		dimensions: int(dim),
		vectors:    make([][]float32, 0, n),
	}
	buf := make([]byte, int(dim)*4)
	for i := uint32(0); i < n; i++ {
		if _, err := io.ReadFull(f, buf); err != nil {
			return nil, fmt.Errorf("read vector %d: %w", i, err)
		}
		idx.vectors = append(idx.vectors, bytesToFloat32Slice(buf))
	}
	return idx, nil
}

func float32SliceToBytes(s []float32) []byte {
	const size = 4
	out := make([]byte, len(s)*size)
	for i, v := range s {
		binary.LittleEndian.PutUint32(out[i*size:(i+1)*size], math.Float32bits(v))
	}
	return out
}

func bytesToFloat32Slice(b []byte) []float32 {
	const size = 4
	out := make([]float32, len(b)/size)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size : (i+1)*size]))
	}
	return out
}
