package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/todomate/internal/api/middleware"
	"github.com/d60-Lab/todomate/internal/service"
	"github.com/d60-Lab/todomate/pkg/response"
)

type relationList struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	List     []uint `json:"list"`
}

// Follow 关注用户（粉丝表异步冗余）
// @Summary 关注用户
// @Tags 关系链
// @Security BearerAuth
// @Param uid path int true "被关注的用户ID"
// @Success 204
// @Failure 400 {object} response.Detail
// @Failure 404 {object} response.Detail
// @Router /accounts/follow/{uid} [post]
func (h *Handler) Follow(c *gin.Context) {
	var uri userURI
	if !bindID(c, &uri) {
		return
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, service.DetailNotAuthenticated)
		return
	}
	if err := h.relService.Follow(c.Request.Context(), user.ID, uri.ID); err != nil {
		h.fail(c, err)
		return
	}
	response.NoContent(c)
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Security BearerAuth
// @Param uid path int true "被关注的用户ID"
// @Success 204
// @Router /accounts/follow/{uid} [delete]
func (h *Handler) Unfollow(c *gin.Context) {
	var uri userURI
	if !bindID(c, &uri) {
		return
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, service.DetailNotAuthenticated)
		return
	}
	if err := h.relService.Unfollow(c.Request.Context(), user.ID, uri.ID); err != nil {
		h.fail(c, err)
		return
	}
	response.NoContent(c)
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Security BearerAuth
// @Param uid path int true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量"
// @Success 200 {object} relationList
// @Router /accounts/{uid}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	var uri userURI
	if !bindID(c, &uri) {
		return
	}
	pg := h.page(c)
	list, err := h.relService.ListFollowing(c.Request.Context(), uri.ID, pg)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, relationList{Page: pg.Page, PageSize: pg.PageSize, List: list})
}

// ListFans 查询某用户的粉丝
// @Summary 查询粉丝列表（来自冗余表）
// @Tags 关系链
// @Security BearerAuth
// @Param uid path int true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量"
// @Success 200 {object} relationList
// @Router /accounts/{uid}/followers [get]
func (h *Handler) ListFans(c *gin.Context) {
	var uri userURI
	if !bindID(c, &uri) {
		return
	}
	pg := h.page(c)
	list, err := h.relService.ListFans(c.Request.Context(), uri.ID, pg)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, relationList{Page: pg.Page, PageSize: pg.PageSize, List: list})
}
