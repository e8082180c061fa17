package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/todomate/internal/api/middleware"
	"github.com/d60-Lab/todomate/internal/model"
	"github.com/d60-Lab/todomate/internal/service"
	"github.com/d60-Lab/todomate/pkg/response"
)

type signupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Nickname string `json:"nickname" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type emailRequest struct {
	Email string `json:"email" form:"email"`
}

type authResponse struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    *model.User `json:"user"`
}

func (h *Handler) issue(c *gin.Context, user *model.User, created bool) {
	pair, err := h.tokens.GenerateTokenPair(user.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	body := authResponse{Access: pair.Access, Refresh: pair.Refresh, User: user}
	if created {
		response.Created(c, body)
		return
	}
	response.Success(c, body)
}

// Signup 注册
// @Summary 注册
// @Tags 账户
// @Accept json
// @Produce json
// @Param request body signupRequest true "注册信息"
// @Success 201 {object} authResponse
// @Failure 400 {object} response.Detail
// @Failure 409 {object} response.Detail
// @Router /accounts/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "This field is required(email, password, nickname).")
		return
	}
	user, err := h.userService.Register(c.Request.Context(), req.Email, req.Password, req.Nickname)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.issue(c, user, true)
}

// Login 登录，签发 access/refresh
// @Summary 登录
// @Tags 账户
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} authResponse
// @Failure 401 {object} response.Detail
// @Router /accounts/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "This field is required(email, password).")
		return
	}
	user, err := h.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.issue(c, user, false)
}

// RefreshToken 用 refresh 换新的 access
// @Summary 刷新令牌
// @Tags 账户
// @Accept json
// @Produce json
// @Param request body refreshRequest true "refresh 令牌"
// @Success 200 {object} map[string]string
// @Failure 401 {object} response.Detail
// @Router /accounts/token/refresh [post]
func (h *Handler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "This field is required(refresh).")
		return
	}
	claims, err := h.tokens.ParseRefresh(req.Refresh)
	if err != nil {
		response.Unauthorized(c, "Token is invalid or expired")
		return
	}
	if _, err := h.userService.GetByID(c.Request.Context(), claims.UserID); err != nil {
		if service.KindOf(err) == service.KindNotFound {
			response.Unauthorized(c, "Token is invalid or expired")
			return
		}
		h.fail(c, err)
		return
	}
	access, err := h.tokens.GenerateAccess(claims.UserID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"access": access})
}

// Me 当前用户
// @Summary 当前用户
// @Tags 账户
// @Security BearerAuth
// @Produce json
// @Success 200 {object} model.User
// @Failure 401 {object} response.Detail
// @Router /accounts/me [get]
func (h *Handler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, service.DetailNotAuthenticated)
		return
	}
	response.Success(c, user)
}

// FindUser 按邮箱查找用户；GET 读取 query 或 JSON body，POST 读取 JSON body
// @Summary 按邮箱查找用户
// @Tags 账户
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param email query string false "邮箱"
// @Param request body emailRequest false "邮箱"
// @Success 200 {object} model.User
// @Failure 400 {object} response.Detail
// @Failure 404 {object} response.Detail
// @Router /accounts/search [get]
// @Router /accounts/search [post]
func (h *Handler) FindUser(c *gin.Context) {
	req := emailRequest{Email: c.Query("email")}
	if req.Email == "" && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, service.DetailNoEmail)
			return
		}
	}
	user, err := h.userService.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, user)
}
