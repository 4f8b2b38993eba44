// Package ingredient 提供食材名稱正規化：
// 清洗非字母字符、移除描述性前綴、統一同義詞
package ingredient

import (
	"strings"
	"unicode"
)

// descriptivePrefixes 描述性前綴，依序只各移除一次
// 順序即優先序：先列出的先嘗試，不會在移除後重新從頭掃描
var descriptivePrefixes = []string{
	"minced",
	"chopped",
	"sliced",
	"diced",
	"crushed",
	"grated",
	"shredded",
	"dried",
	"fresh",
	"frozen",
	"canned",
	"ground",
	"roasted",
	"smoked",
	"boiled",
	"pickled",
	"baby",
}

// synonymTable 同義詞對照表，變體寫法統一成一個標準名稱
var synonymTable = map[string]string{
	// 蛋相關
	"egg":      "egg",
	"eggyolk":  "egg",
	"eggwhite": "egg",

	// 醬油相關
	"soysauce":      "soysauce",
	"darksoysauce":  "soysauce",
	"lightsoysauce": "soysauce",

	// 糖相關
	"sugar":      "sugar",
	"brownsugar": "sugar",
	"whitesugar": "sugar",
	"rawsugar":   "sugar",

	// 食用油相關
	"cookingoil":   "cookingoil",
	"vegetableoil": "cookingoil",
	"canolaoil":    "cookingoil",
	"sunfloweroil": "cookingoil",
	"oliveoil":     "cookingoil",

	// 蔥相關
	"greenonion":  "greenonion",
	"scallion":    "greenonion",
	"springonion": "greenonion",
	"welshonion":  "greenonion",

	// 洋蔥相關
	"onion":      "onion",
	"redonion":   "onion",
	"whiteonion": "onion",

	// 鹽相關
	"salt":     "salt",
	"seasalt":  "salt",
	"rocksalt": "salt",

	// 胡椒相關
	"blackpepper": "pepper",
	"whitepepper": "pepper",

	// 大蒜相關
	"garlic":      "garlic",
	"garlicclove": "garlic",

	// 麻油相關
	"sesameoil":  "sesameoil",
	"perillaoil": "sesameoil",

	// 奶油相關
	"butter":         "butter",
	"unsaltedbutter": "butter",

	// 香菜相關
	"coriander": "coriander",
	"cilantro":  "coriander",

	// 辣椒粉相關
	"chilipowder":    "chilipowder",
	"redchilipowder": "chilipowder",
}

// Normalize 將原始食材字串轉成可比較的標準 token
// 純函數：相同輸入必得相同輸出，對所有字串皆有定義
func Normalize(raw string) string {
	cleaned := cleanLetters(raw)

	// 移除描述性前綴：單趟掃描，每個前綴最多套用一次
	for _, prefix := range descriptivePrefixes {
		if strings.HasPrefix(cleaned, prefix) {
			cleaned = cleaned[len(prefix):]
		}
	}

	// 清洗後為空時退回原始字串，讓純數字或符號的輸入仍可參與字面配對
	if cleaned == "" {
		return raw
	}

	if canonical, ok := synonymTable[cleaned]; ok {
		return canonical
	}
	return cleaned
}

// cleanLetters 只保留字母並轉小寫（數字、標點、單位標記一律移除）
func cleanLetters(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) {
			sb.WriteRune(unicode.ToLower(r))
		}
	}
	return sb.String()
}
