package recipe

import (
	"context"
	"net/http"
	"strings"

	"grocery-planning/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	modeCustom = "custom"
	modeDaily  = "daily"
)

// Generator 食譜生成服務
type Generator interface {
	GenerateRecipe(ctx context.Context, ingredients []string) (common.Recipe, error)
	DailyIngredients() []string
}

// Response 食譜響應；每日模式附上當日食材
type Response struct {
	Title       string   `json:"title"`
	Steps       []string `json:"steps"`
	Ingredients []string `json:"ingredients,omitempty"`
}

// Handler 食譜處理程序
type Handler struct {
	generator Generator
	debug     bool
}

// NewHandler 創建新的食譜處理程序；debug 為 true 時錯誤響應附帶細節
func NewHandler(generator Generator, debug bool) *Handler {
	return &Handler{
		generator: generator,
		debug:     debug,
	}
}

// HandleGenerate 依 {"mode","ingredients"} 產生食譜。
// 無法解析的請求體視為空的自訂請求，不回 400。
func (h *Handler) HandleGenerate(c *gin.Context) {
	requestID := requestid.Get(c)

	mode, ingredients := parseRecipeRequest(c)
	daily := mode == modeDaily
	if daily {
		ingredients = h.generator.DailyIngredients()
	}

	common.LogInfo("開始處理食譜生成請求",
		zap.String("request_id", requestID),
		zap.String("mode", mode),
		zap.Strings("ingredients", ingredients),
	)

	recipe, err := h.generator.GenerateRecipe(c.Request.Context(), ingredients)
	if err != nil {
		common.LogError("食譜生成失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		resp := common.ErrorResponse{Error: common.ServerErrorMessage}
		if h.debug {
			resp.Detail = err.Error()
		}
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	resp := Response{Title: recipe.Title, Steps: recipe.Steps}
	if daily {
		resp.Ingredients = ingredients
	}

	common.LogInfo("食譜生成成功",
		zap.String("request_id", requestID),
		zap.String("title", recipe.Title),
		zap.Int("steps", len(recipe.Steps)),
	)
	c.JSON(http.StatusOK, resp)
}

// parseRecipeRequest 取出模式與清理後的食材
func parseRecipeRequest(c *gin.Context) (string, []string) {
	payload := map[string]interface{}{}
	if body, err := c.GetRawData(); err == nil && len(body) > 0 {
		if err := common.ParseJSONBytes(body, &payload); err != nil || payload == nil {
			common.LogDebug("Ignoring malformed recipe request body", zap.Error(err))
			payload = map[string]interface{}{}
		}
	}

	mode := strings.ToLower(strings.TrimSpace(common.Stringify(payload["mode"])))
	if mode == "" {
		mode = modeCustom
	}

	return mode, cleanIngredients(payload["ingredients"])
}

// cleanIngredients 轉字串、去空白並略過空項；非陣列視為空清單
func cleanIngredients(raw interface{}) []string {
	items, ok := raw.([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(common.Stringify(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
