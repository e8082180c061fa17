package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/todomate/internal/api/middleware"
	"github.com/d60-Lab/todomate/pkg/response"
)

// SearchUserDiaries 查看关注对象的日记
// @Summary 检索用户日记
// @Tags 检索
// @Security BearerAuth
// @Produce json
// @Param uid path int true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Page{results=[]model.Diary}
// @Failure 403 {object} response.Detail
// @Router /diary/search/{uid} [get]
func (h *Handler) SearchUserDiaries(c *gin.Context) {
	var uri userURI
	if !bindID(c, &uri) {
		return
	}
	pg := h.page(c)
	list, total, err := h.searchService.ListUserDiaries(c.Request.Context(), middleware.CurrentUser(c), uri.ID, pg)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Paginated(c, total, pg.Page, pg.PageSize, list)
}

// SearchUserDiariesByDate 查看关注对象某日日记
// @Summary 按日期检索用户日记
// @Tags 检索
// @Security BearerAuth
// @Produce json
// @Param uid path int true "用户ID"
// @Param date path string true "日期 YYYY-MM-DD"
// @Success 200 {object} response.Page{results=[]model.Diary}
// @Failure 403 {object} response.Detail
// @Failure 404 {object} response.Detail
// @Router /diary/search/{uid}/{date} [get]
func (h *Handler) SearchUserDiariesByDate(c *gin.Context) {
	// 用户 id 非法按路由不存在处理，优先于日期校验
	var uri userURI
	if !bindID(c, &uri) {
		return
	}
	date, ok := bindDate(c)
	if !ok {
		return
	}
	pg := h.page(c)
	list, total, err := h.searchService.ListUserDiariesByDate(c.Request.Context(), middleware.CurrentUser(c), uri.ID, date, pg)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Paginated(c, total, pg.Page, pg.PageSize, list)
}
