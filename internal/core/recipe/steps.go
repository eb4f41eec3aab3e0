package recipe

import (
	"encoding/json"
	"regexp"
	"strings"

	"grocery-planning/internal/pkg/common"
)

// minGoodSteps 通過品質檢查所需的最少步驟數
const minGoodSteps = 6

// 結構化步驟的欄位別名，依序取第一個有值的欄位
var (
	stepTextFields        = []string{"action", "title", "instruction", "step", "text"}
	stepMinutesFields     = []string{"minutes", "mins", "time"}
	stepTemperatureFields = []string{"temperature_c", "temp_c", "celsius"}
)

var (
	ingredientEcho = regexp.MustCompile(`(?i)\([^)]*\bingredient[^)]*\)`)
	templateMarker = regexp.MustCompile(`(?i)\bStep\s*\d+\b|where\s+relevant|\bplaceholder\b|\.\.\.`)
)

// NormalizeSteps 將模型給的步驟轉為乾淨的字串清單。
// 非陣列輸入回傳空清單；物件步驟組成 "<text> (<mins> min) <tc>°C"。
func NormalizeSteps(raw interface{}) []string {
	items, ok := raw.([]interface{})
	if !ok {
		return []string{}
	}

	steps := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if obj, ok := item.(map[string]interface{}); ok {
			s = composeStep(obj)
		} else {
			s = strings.TrimSpace(common.Stringify(item))
		}
		s = strings.TrimSpace(ingredientEcho.ReplaceAllString(s, ""))
		if s != "" {
			steps = append(steps, s)
		}
	}
	return steps
}

func composeStep(obj map[string]interface{}) string {
	parts := make([]string, 0, 3)
	if text := strings.TrimSpace(firstField(obj, stepTextFields)); text != "" {
		parts = append(parts, text)
	}
	if mins := firstField(obj, stepMinutesFields); mins != "" {
		parts = append(parts, "("+mins+" min)")
	}
	if tc := firstField(obj, stepTemperatureFields); tc != "" {
		parts = append(parts, tc+"°C")
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// firstField 依別名順序取第一個非零值，只含空白的字串也算有值
func firstField(obj map[string]interface{}, names []string) string {
	for _, name := range names {
		v, ok := obj[name]
		if !ok || isZeroValue(v) {
			continue
		}
		return common.Stringify(v)
	}
	return ""
}

// IsGoodStepList 品質檢查：至少六步，且不含 "Step N"、"where relevant"、placeholder 或省略號
func IsGoodStepList(steps []string) bool {
	if len(steps) < minGoodSteps {
		return false
	}
	return !templateMarker.MatchString(strings.Join(steps, " "))
}

// isZeroValue 0、false、空字串與空集合都視為沒有值
func isZeroValue(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case string:
		return x == ""
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 0
	case []interface{}:
		return len(x) == 0
	case map[string]interface{}:
		return len(x) == 0
	}
	return false
}
