package recipe

import "regexp"

// refusalPattern 拒答特徵與其原因標籤
type refusalPattern struct {
	re     *regexp.Regexp
	reason string
}

var refusalPatterns = []refusalPattern{
	{regexp.MustCompile(`(?i)\bI\s+can(?:not|'t)\b`), "cannot"},
	{regexp.MustCompile(`(?i)\bI\s+am\s+unable\b`), "unable"},
	{regexp.MustCompile(`(?i)model\s+is\s+unable`), "model-unable"},
	{regexp.MustCompile(`(?i)\bas\s+an\s+AI\b`), "as-an-ai"},
	{regexp.MustCompile(`(?i)\bpolicy\b`), "policy"},
	{regexp.MustCompile(`(?i)\brefuse\b`), "refuse"},
}

// IsRefusal 判斷模型輸出是否為拒答，空字串也視為拒答
func IsRefusal(text string) bool {
	_, refused := refusalReason(text)
	return refused
}

// refusalReason 回傳第一個命中的拒答原因
func refusalReason(text string) (string, bool) {
	if text == "" {
		return "empty", true
	}
	for _, p := range refusalPatterns {
		if p.re.MatchString(text) {
			return p.reason, true
		}
	}
	return "", false
}
