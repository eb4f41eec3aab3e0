package recipe

import (
	"context"
	"math"
	"strings"

	"grocery-planning/internal/core/ai/model"
	"grocery-planning/internal/pkg/common"

	"go.uber.org/zap"
)

// 各階段參數與固定文字
const (
	strictMaxTokens = 620
	repairMaxTokens = 580

	defaultTitle  = "Suggested Recipe"
	fallbackTitle = "Weeknight Dish"
	previewLength = 200
)

var fallbackSteps = []string{
	"Heat 2 tbsp oil over medium heat (2 min).",
	"Sauté aromatics if present (onion/garlic) 3–4 min.",
	"Add main ingredients; cook 8–12 min, stirring.",
	"Season to taste; keep it simple and warm.",
	"Serve hot.",
}

// Invoker 送出提示詞並取得模型文字
type Invoker interface {
	Invoke(ctx context.Context, prompt string, opts model.Options) (string, error)
}

// Settings 管線的基準生成參數
type Settings struct {
	MaxTokens   int
	Temperature float64
}

// Pipeline 多階段提示與修復流程：primary → strict → repair → fallback
type Pipeline struct {
	invoker  Invoker
	settings Settings
}

// NewPipeline 創建食譜生成管線
func NewPipeline(invoker Invoker, settings Settings) *Pipeline {
	return &Pipeline{
		invoker:  invoker,
		settings: settings,
	}
}

// FallbackRecipe 所有階段都失敗時回傳的固定食譜
func FallbackRecipe() common.Recipe {
	return common.Recipe{Title: fallbackTitle, Steps: append([]string(nil), fallbackSteps...)}
}

// stage 單一生成階段
type stage struct {
	name      string
	prompt    string
	opts      model.Options
	retryOpts *model.Options // 拒答時以相同提示詞重試
}

// Generate 依食材產生食譜；只有模型調用失敗才會回傳錯誤
func (p *Pipeline) Generate(ctx context.Context, ingredients []string) (common.Recipe, error) {
	recipe, _, err := p.generate(ctx, ingredients)
	return recipe, err
}

// generate 回傳食譜以及它是否通過品質檢查（false 表示為 fallback）
func (p *Pipeline) generate(ctx context.Context, ingredients []string) (common.Recipe, bool, error) {
	base := p.settings.Temperature

	primary := stage{
		name:      "primary",
		prompt:    BuildPrimaryPrompt(ingredients),
		retryOpts: &model.Options{Temperature: math.Min(0.55, base+0.2)},
	}
	primaryRaw, recipe, ok, err := p.runStage(ctx, primary)
	if err != nil || ok {
		return recipe, ok, err
	}

	strict := stage{
		name:      "strict",
		prompt:    BuildStrictPrompt(ingredients),
		opts:      model.Options{MaxTokens: strictMaxTokens, Temperature: math.Min(0.5, base+0.15)},
		retryOpts: &model.Options{MaxTokens: strictMaxTokens, Temperature: math.Min(0.6, base+0.25)},
	}
	strictRaw, recipe, ok, err := p.runStage(ctx, strict)
	if err != nil || ok {
		return recipe, ok, err
	}

	seed := strictRaw
	if seed == "" {
		seed = primaryRaw
	}
	repair := stage{
		name:   "repair",
		prompt: BuildRepairPrompt(seed),
		opts:   model.Options{MaxTokens: repairMaxTokens, Temperature: math.Min(0.55, base+0.2)},
	}
	_, recipe, ok, err = p.runStage(ctx, repair)
	if err != nil || ok {
		return recipe, ok, err
	}

	common.LogWarn("All recipe stages failed quality gate, using fallback",
		zap.Int("ingredients", len(ingredients)),
	)
	return FallbackRecipe(), false, nil
}

// runStage 執行一個階段並回傳最終的原始文字與是否取得合格食譜
func (p *Pipeline) runStage(ctx context.Context, s stage) (string, common.Recipe, bool, error) {
	raw, err := p.invoker.Invoke(ctx, s.prompt, s.opts)
	if err != nil {
		return "", common.Recipe{}, false, err
	}

	if reason, refused := refusalReason(raw); refused && s.retryOpts != nil {
		common.LogDebug("Model refused, retrying stage",
			zap.String("stage", s.name),
			zap.String("reason", reason),
		)
		raw, err = p.invoker.Invoke(ctx, s.prompt, *s.retryOpts)
		if err != nil {
			return "", common.Recipe{}, false, err
		}
	}

	recipe, ok := acceptCandidate(raw)
	common.LogDebug("Recipe stage finished",
		zap.String("stage", s.name),
		zap.Int("prompt_length", len(s.prompt)),
		zap.Int("response_length", len(raw)),
		zap.Bool("accepted", ok),
		zap.String("preview", common.Preview(raw, previewLength)),
	)
	return raw, recipe, ok, nil
}

// acceptCandidate 解析、正規化並做品質檢查
func acceptCandidate(raw string) (common.Recipe, bool) {
	data := ExtractJSON(raw)
	if data == nil {
		return common.Recipe{}, false
	}

	steps := NormalizeSteps(data["steps"])
	if !IsGoodStepList(steps) {
		return common.Recipe{}, false
	}

	title := ""
	if v, ok := data["title"]; ok && !isZeroValue(v) {
		title = strings.TrimSpace(common.Stringify(v))
	}
	if title == "" {
		title = defaultTitle
	}
	return common.Recipe{Title: title, Steps: steps}, true
}
