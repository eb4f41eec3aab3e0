package favorites

import (
	"net/http"
	"strings"

	"grocery-planning/internal/api/middleware"
	favstore "grocery-planning/internal/core/favorites"
	"grocery-planning/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultTitle = "Recipe"

// Handler 收藏處理程序；store 為 nil 表示未設定收藏資料表
type Handler struct {
	store favstore.Store
}

// NewHandler 創建收藏處理程序
func NewHandler(store favstore.Store) *Handler {
	return &Handler{store: store}
}

// HandleList 列出呼叫者的收藏
func (h *Handler) HandleList(c *gin.Context) {
	userSub, ok := h.authorize(c)
	if !ok {
		return
	}

	items, err := h.store.List(c.Request.Context(), userSub)
	if err != nil {
		h.fail(c, "列出收藏失敗", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// HandleSave 新增或覆寫收藏，未帶 id 時產生新的 UUID
func (h *Handler) HandleSave(c *gin.Context) {
	userSub, ok := h.authorize(c)
	if !ok {
		return
	}

	fav := parseFavorite(c)
	fav.UserSub = userSub

	if err := h.store.Put(c.Request.Context(), fav); err != nil {
		h.fail(c, "儲存收藏失敗", err)
		return
	}

	common.LogInfo("收藏已儲存",
		zap.String("request_id", requestid.Get(c)),
		zap.String("id", fav.ID),
	)
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": fav.ID})
}

// HandleDelete 刪除收藏，不存在也回成功
func (h *Handler) HandleDelete(c *gin.Context) {
	userSub, ok := h.authorize(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := h.store.Delete(c.Request.Context(), userSub, id); err != nil {
		h.fail(c, "刪除收藏失敗", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// authorize 先確認資料表已設定，再確認呼叫者身分
func (h *Handler) authorize(c *gin.Context) (string, bool) {
	if h.store == nil {
		c.JSON(common.NewErrorResponse(common.ErrTableNotConfigured))
		return "", false
	}
	userSub := middleware.UserSub(c)
	if userSub == "" {
		c.JSON(common.NewErrorResponse(common.ErrUnauthenticated))
		return "", false
	}
	return userSub, true
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	common.LogError(msg,
		zap.Error(err),
		zap.String("request_id", requestid.Get(c)),
	)
	c.JSON(common.NewErrorResponse(err))
}

// parseFavorite 讀取請求體；格式錯誤時以空物件處理
func parseFavorite(c *gin.Context) common.Favorite {
	payload := map[string]interface{}{}
	if body, err := c.GetRawData(); err == nil && len(body) > 0 {
		if err := common.ParseJSONBytes(body, &payload); err != nil || payload == nil {
			payload = map[string]interface{}{}
		}
	}

	id := strings.TrimSpace(common.Stringify(payload["id"]))
	if id == "" {
		id = common.GenerateUUID()
	}

	title := strings.TrimSpace(common.Stringify(payload["title"]))
	if title == "" {
		title = defaultTitle
	}

	steps := []string{}
	if items, ok := payload["steps"].([]interface{}); ok {
		for _, item := range items {
			steps = append(steps, common.Stringify(item))
		}
	}

	return common.Favorite{ID: id, Title: title, Steps: steps}
}
