package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/todomate/internal/api/middleware"
	"github.com/d60-Lab/todomate/pkg/response"
)

type commentRequest struct {
	Content *string `json:"content"`
}

func bindComment(c *gin.Context) (*string, bool) {
	var req commentRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "JSON parse error.")
			return nil, false
		}
	}
	return req.Content, true
}

// ListComments 日记下的评论，按创建时间升序
// @Summary 评论列表
// @Tags 评论
// @Security BearerAuth
// @Produce json
// @Param did path int true "日记ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Page{results=[]model.Comment}
// @Failure 403 {object} response.Detail
// @Failure 404 {object} response.Detail
// @Router /diary/comment/{did} [get]
func (h *Handler) ListComments(c *gin.Context) {
	var uri diaryURI
	if !bindID(c, &uri) {
		return
	}
	pg := h.page(c)
	list, total, err := h.commentService.List(c.Request.Context(), middleware.CurrentUser(c), uri.ID, pg)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Paginated(c, total, pg.Page, pg.PageSize, list)
}

// CreateComment 发表评论；日记 id 与作者取自路径和会话
// @Summary 发表评论
// @Tags 评论
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param did path int true "日记ID"
// @Param request body commentRequest true "评论内容"
// @Success 201 {object} model.Comment
// @Failure 400 {object} response.Detail
// @Failure 403 {object} response.Detail
// @Failure 404 {object} response.Detail
// @Router /diary/comment/{did} [post]
func (h *Handler) CreateComment(c *gin.Context) {
	var uri diaryURI
	if !bindID(c, &uri) {
		return
	}
	content, ok := bindComment(c)
	if !ok {
		return
	}
	var text string
	if content != nil {
		text = *content
	}
	cm, err := h.commentService.Create(c.Request.Context(), middleware.CurrentUser(c), uri.ID, text)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, cm)
}

// GetComment 评论详情
// @Summary 评论详情
// @Tags 评论
// @Security BearerAuth
// @Produce json
// @Param cid path int true "评论ID"
// @Success 200 {object} model.Comment
// @Failure 403 {object} response.Detail
// @Failure 404 {object} response.Detail
// @Router /diary/comment/detail/{cid} [get]
func (h *Handler) GetComment(c *gin.Context) {
	var uri commentURI
	if !bindID(c, &uri) {
		return
	}
	cm, err := h.commentService.Get(c.Request.Context(), middleware.CurrentUser(c), uri.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, cm)
}

// UpdateComment 仅日记作者可改
// @Summary 修改评论
// @Tags 评论
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param cid path int true "评论ID"
// @Param request body commentRequest true "评论内容"
// @Success 200 {object} model.Comment
// @Failure 403 {object} response.Detail
// @Failure 404 {object} response.Detail
// @Router /diary/comment/detail/{cid} [put]
// @Router /diary/comment/detail/{cid} [patch]
func (h *Handler) UpdateComment(c *gin.Context) {
	var uri commentURI
	if !bindID(c, &uri) {
		return
	}
	content, ok := bindComment(c)
	if !ok {
		return
	}
	cm, err := h.commentService.Update(c.Request.Context(), middleware.CurrentUser(c), uri.ID, content)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, cm)
}

// DeleteComment 仅日记作者可删
// @Summary 删除评论
// @Tags 评论
// @Security BearerAuth
// @Param cid path int true "评论ID"
// @Success 204
// @Failure 403 {object} response.Detail
// @Failure 404 {object} response.Detail
// @Router /diary/comment/detail/{cid} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	var uri commentURI
	if !bindID(c, &uri) {
		return
	}
	if err := h.commentService.Delete(c.Request.Context(), middleware.CurrentUser(c), uri.ID); err != nil {
		h.fail(c, err)
		return
	}
	response.NoContent(c)
}
