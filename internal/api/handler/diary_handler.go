package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/todomate/internal/api/middleware"
	"github.com/d60-Lab/todomate/internal/service"
	"github.com/d60-Lab/todomate/pkg/response"
)

// diaryRequest 只接受 content；作者、日期、昵称由服务端写入
type diaryRequest struct {
	Content *string `json:"content"`
}

func bindDiary(c *gin.Context) (service.DiaryInput, bool) {
	var req diaryRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "JSON parse error.")
			return service.DiaryInput{}, false
		}
	}
	return service.DiaryInput{Content: req.Content}, true
}

// ListMyDiaries 本人全部日记
// @Summary 我的日记列表
// @Tags 日记
// @Security BearerAuth
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Page{results=[]model.Diary}
// @Failure 401 {object} response.Detail
// @Router /diary/mydiary [get]
func (h *Handler) ListMyDiaries(c *gin.Context) {
	pg := h.page(c)
	list, total, err := h.diaryService.ListMine(c.Request.Context(), middleware.CurrentUser(c), pg)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Paginated(c, total, pg.Page, pg.PageSize, list)
}

// MyDiaryEntry 按日期跳转到新建或编辑入口
// @Summary 日期入口跳转
// @Tags 日记
// @Security BearerAuth
// @Param date path string true "日期 YYYY-MM-DD"
// @Success 302
// @Failure 400 {object} response.Detail
// @Router /diary/mydiary/{date} [get]
func (h *Handler) MyDiaryEntry(c *gin.Context) {
	date, ok := bindDate(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, service.DetailNotAuthenticated)
		return
	}
	target, err := h.resolver.Resolve(c.Request.Context(), user.ID, date)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, h.resolver.Location(date, target))
}

// ListMyDiariesByDate 本人某日日记
// @Summary 我的某日日记
// @Tags 日记
// @Security BearerAuth
// @Produce json
// @Param date path string true "日期 YYYY-MM-DD"
// @Success 200 {object} response.Page{results=[]model.Diary}
// @Router /diary/mydiary/{date}/create [get]
func (h *Handler) ListMyDiariesByDate(c *gin.Context) {
	date, ok := bindDate(c)
	if !ok {
		return
	}
	pg := h.page(c)
	list, total, err := h.diaryService.ListMineByDate(c.Request.Context(), middleware.CurrentUser(c), date, pg)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Paginated(c, total, pg.Page, pg.PageSize, list)
}

// CreateMyDiary 新建某日日记
// @Summary 新建日记
// @Tags 日记
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param date path string true "日期 YYYY-MM-DD"
// @Param request body diaryRequest true "日记内容"
// @Success 201 {object} model.Diary
// @Failure 400 {object} response.Detail
// @Failure 409 {object} response.Detail
// @Router /diary/mydiary/{date}/create [post]
func (h *Handler) CreateMyDiary(c *gin.Context) {
	date, ok := bindDate(c)
	if !ok {
		return
	}
	in, ok := bindDiary(c)
	if !ok {
		return
	}
	d, err := h.diaryService.CreateForDate(c.Request.Context(), middleware.CurrentUser(c), date, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, d)
}

// GetMyDiary 本人某日日记详情
// @Summary 我的日记详情
// @Tags 日记
// @Security BearerAuth
// @Produce json
// @Param date path string true "日期 YYYY-MM-DD"
// @Success 200 {object} model.Diary
// @Failure 404 {object} response.Detail
// @Router /diary/mydiary/{date}/update [get]
func (h *Handler) GetMyDiary(c *gin.Context) {
	date, ok := bindDate(c)
	if !ok {
		return
	}
	d, err := h.diaryService.GetMineByDate(c.Request.Context(), middleware.CurrentUser(c), date)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, d)
}

// UpdateMyDiary PUT 与 PATCH 共用
// @Summary 修改我的日记
// @Tags 日记
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param date path string true "日期 YYYY-MM-DD"
// @Param request body diaryRequest true "日记内容"
// @Success 200 {object} model.Diary
// @Failure 404 {object} response.Detail
// @Router /diary/mydiary/{date}/update [put]
// @Router /diary/mydiary/{date}/update [patch]
func (h *Handler) UpdateMyDiary(c *gin.Context) {
	date, ok := bindDate(c)
	if !ok {
		return
	}
	in, ok := bindDiary(c)
	if !ok {
		return
	}
	d, err := h.diaryService.UpdateMineByDate(c.Request.Context(), middleware.CurrentUser(c), date, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, d)
}

// DeleteMyDiary 删除本人某日日记及其评论
// @Summary 删除我的日记
// @Tags 日记
// @Security BearerAuth
// @Param date path string true "日期 YYYY-MM-DD"
// @Success 204
// @Failure 404 {object} response.Detail
// @Router /diary/mydiary/{date}/update [delete]
func (h *Handler) DeleteMyDiary(c *gin.Context) {
	date, ok := bindDate(c)
	if !ok {
		return
	}
	if err := h.diaryService.DeleteMineByDate(c.Request.Context(), middleware.CurrentUser(c), date); err != nil {
		h.fail(c, err)
		return
	}
	response.NoContent(c)
}

// WatchDiary 按 id 查看日记（作者或关注者）
// @Summary 查看日记
// @Tags 日记
// @Security BearerAuth
// @Produce json
// @Param did path int true "日记ID"
// @Success 200 {object} model.Diary
// @Failure 403 {object} response.Detail
// @Failure 404 {object} response.Detail
// @Router /diary/watch/{did} [get]
func (h *Handler) WatchDiary(c *gin.Context) {
	var uri diaryURI
	if !bindID(c, &uri) {
		return
	}
	d, err := h.diaryService.Get(c.Request.Context(), middleware.CurrentUser(c), uri.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, d)
}

// UpdateWatchedDiary 仅作者可改
// @Summary 按 id 修改日记
// @Tags 日记
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param did path int true "日记ID"
// @Param request body diaryRequest true "日记内容"
// @Success 200 {object} model.Diary
// @Failure 403 {object} response.Detail
// @Failure 404 {object} response.Detail
// @Router /diary/watch/{did} [put]
// @Router /diary/watch/{did} [patch]
func (h *Handler) UpdateWatchedDiary(c *gin.Context) {
	var uri diaryURI
	if !bindID(c, &uri) {
		return
	}
	in, ok := bindDiary(c)
	if !ok {
		return
	}
	d, err := h.diaryService.Update(c.Request.Context(), middleware.CurrentUser(c), uri.ID, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, d)
}

// DeleteWatchedDiary 仅作者可删
// @Summary 按 id 删除日记
// @Tags 日记
// @Security BearerAuth
// @Param did path int true "日记ID"
// @Success 204
// @Failure 403 {object} response.Detail
// @Failure 404 {object} response.Detail
// @Router /diary/watch/{did} [delete]
func (h *Handler) DeleteWatchedDiary(c *gin.Context) {
	var uri diaryURI
	if !bindID(c, &uri) {
		return
	}
	if err := h.diaryService.Delete(c.Request.Context(), middleware.CurrentUser(c), uri.ID); err != nil {
		h.fail(c, err)
		return
	}
	response.NoContent(c)
}
