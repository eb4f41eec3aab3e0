package recipe

import (
	"regexp"
	"strings"

	"grocery-planning/internal/pkg/common"
)

var fenceOpen = regexp.MustCompile("(?i)```(?:json|tabular-data-json)?")

// ExtractJSON 從模型文字中取出 JSON 物件，找不到時回傳 nil。
// 依序嘗試：原文解析、去除 markdown 圍欄後解析、括號深度掃描取最後一個合法物件。
func ExtractJSON(text string) map[string]interface{} {
	var v interface{}
	if err := common.ParseJSON(text, &v); err == nil {
		return asObject(v)
	}

	stripped := stripFences(text)
	if err := common.ParseJSON(stripped, &v); err == nil {
		return asObject(v)
	}

	return asObject(lastBalancedObject(stripped))
}

// stripFences 移除 ```json / ```tabular-data-json / ``` 圍欄
func stripFences(text string) string {
	s := fenceOpen.ReplaceAllString(text, "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// lastBalancedObject 以大括號深度切出候選片段，保留最後一個可解析的
func lastBalancedObject(text string) interface{} {
	var lastValid interface{}
	depth, start := 0, -1
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			// 多出來的右括號不讓深度變成負數
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start != -1 {
				var v interface{}
				if err := common.ParseJSON(text[start:i+1], &v); err == nil {
					lastValid = v
				}
				start = -1
			}
		}
	}
	return lastValid
}

func asObject(v interface{}) map[string]interface{} {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	return obj
}
