package recipe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// repairInputLimit 修復提示詞最多帶入的前次輸出字元數
const repairInputLimit = 6000

// pantryStaples 無食材時的替代描述
const pantryStaples = "basic pantry staples"

// promptExample few-shot 範例
type promptExample struct {
	Ingredients []string
	Output      string
}

var promptExamples = []promptExample{
	{
		Ingredients: []string{"pasta", "tomatoes", "garlic", "basil"},
		Output:      `{"title":"Pasta al Pomodoro","steps":["Boil pasta in salted water 8–10 min; drain.","Warm 2 tbsp olive oil (2 min).","Sauté 2 minced garlic cloves 1–2 min.","Add 300 g crushed tomatoes; simmer 6–8 min; season.","Toss with pasta; add torn basil; 1 min; serve.","Optional: finish with grated Parmesan."]}`,
	},
	{
		Ingredients: []string{"eggs", "potatoes", "onion"},
		Output:      `{"title":"Spanish Tortilla","steps":["Slice potatoes and onion thinly.","Fry in 4 tbsp oil until tender (10–12 min).","Beat 6 eggs; season.","Mix eggs with drained potatoes/onion.","Cook on medium-low until almost set (5–6 min).","Flip; cook 3–4 min; rest; slice; serve."]}`,
	},
	{
		Ingredients: []string{"rice", "mushrooms", "onion"},
		Output:      `{"title":"Mushroom Risotto","steps":["Warm 800 ml stock on low heat.","Sauté chopped onion in 2 tbsp butter (3–4 min).","Add 300 g Arborio rice; toast 2 min.","Add sliced mushrooms; cook 2–3 min.","Add hot stock ladle by ladle ~18 min until creamy.","Finish with butter; season; rest 1 min; serve."]}`,
	},
}

// BuildPrimaryPrompt 完整提示詞：角色、限制、輸出格式、規則、三個範例與目標食材
func BuildPrimaryPrompt(ingredients []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a Michelin-trained recipe developer. Create ONE authentic, cookable ENGLISH recipe that uses ONLY these ingredients when possible: %s.\n", ingredientPhrase(ingredients))
	sb.WriteString("You MAY assume salt, pepper, oil and water/stock. Do NOT introduce other major ingredients.\n")
	sb.WriteString("Prefer a classic dish name if a well-known recipe fits; otherwise propose a sensible home-style dish.\n\n")
	sb.WriteString("Return ONLY a pure JSON object (no markdown, no commentary) with EXACTLY:\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"title\": \"Short specific dish name\",\n")
	sb.WriteString("  \"steps\": [\n")
	sb.WriteString("    \"Action with minutes and, when relevant, °C.\",\n")
	sb.WriteString("    \"... (6–8 total)\"\n")
	sb.WriteString("  ]\n")
	sb.WriteString("}\n\n")
	sb.WriteString("Hard rules:\n")
	sb.WriteString("- 6–8 steps, imperative, concrete; include times and °C where reasonable.\n")
	sb.WriteString("- Do NOT echo the word \"ingredients\" inside parentheses.\n")
	sb.WriteString("- No markdown, no extra keys.\n\n")
	sb.WriteString(renderExamples())
	fmt.Fprintf(&sb, "\n\nNow generate the JSON for: %s", ingredientList(ingredients))
	return sb.String()
}

// BuildStrictPrompt 精簡版提示詞（無範例），用於較便宜的重試
func BuildStrictPrompt(ingredients []string) string {
	var sb strings.Builder
	sb.WriteString("Return ONLY a JSON object with \"title\" and \"steps\".\n")
	fmt.Fprintf(&sb, "- Use ONLY: %s (+ salt/pepper/oil/water/stock).\n", ingredientPhrase(ingredients))
	sb.WriteString("- 6–8 concrete steps with minutes and °C when reasonable.\n")
	sb.WriteString("- No markdown, no commentary, no extra keys.")
	return sb.String()
}

// BuildRepairPrompt 請模型從前次輸出中修復出最佳的合法 JSON
func BuildRepairPrompt(previous string) string {
	var sb strings.Builder
	sb.WriteString("Extract the BEST VALID JSON like:\n")
	sb.WriteString(`{"title":"...","steps":["...", "..."]}`)
	sb.WriteString("\nReturn ONLY the pure JSON (no markdown). Remove parentheses that just repeat ingredients.\n")
	sb.WriteString("Previous:\n")
	sb.WriteString(strings.TrimSpace(truncateRunes(previous, repairInputLimit)))
	return sb.String()
}

func renderExamples() string {
	blocks := make([]string, 0, len(promptExamples))
	for _, ex := range promptExamples {
		blocks = append(blocks, fmt.Sprintf("EXAMPLE\nIngredients: %s\nOutput JSON:\n%s", ingredientList(ex.Ingredients), ex.Output))
	}
	return strings.Join(blocks, "\n\n")
}

// ingredientPhrase 逗號分隔的食材描述，空清單時改用常備食材
func ingredientPhrase(ingredients []string) string {
	if len(ingredients) == 0 {
		return pantryStaples
	}
	return strings.Join(ingredients, ", ")
}

// ingredientList 以 JSON 陣列呈現食材，與範例格式一致
func ingredientList(ingredients []string) string {
	if ingredients == nil {
		ingredients = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ingredients); err != nil {
		return "[]"
	}
	return strings.TrimSpace(buf.String())
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
