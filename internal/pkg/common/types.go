package common

// Recipe 食譜（標題與依序排列的步驟）
type Recipe struct {
	Title string   `json:"title"`
	Steps []string `json:"steps"`
}

// Favorite 使用者收藏的食譜
type Favorite struct {
	UserSub string   `json:"userSub"`
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Steps   []string `json:"steps"`
}

// Clone 複製食譜，避免呼叫端修改共用的切片
func (r Recipe) Clone() Recipe {
	steps := make([]string, len(r.Steps))
	copy(steps, r.Steps)
	return Recipe{Title: r.Title, Steps: steps}
}
