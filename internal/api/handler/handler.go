package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/todomate/config"
	"github.com/d60-Lab/todomate/internal/service"
	"github.com/d60-Lab/todomate/pkg/jwt"
	"github.com/d60-Lab/todomate/pkg/response"
)

// Handler 聚合所有 HTTP 处理器依赖
type Handler struct {
	userService    service.UserService
	diaryService   service.DiaryService
	commentService service.CommentService
	searchService  service.SearchService
	relService     service.RelationshipService
	resolver       *service.EntryResolver
	tokens         *jwt.Manager
	pagination     config.PaginationConfig
}

type Deps struct {
	Users         service.UserService
	Diaries       service.DiaryService
	Comments      service.CommentService
	Search        service.SearchService
	Relationships service.RelationshipService
	Resolver      *service.EntryResolver
	Tokens        *jwt.Manager
	Pagination    config.PaginationConfig
}

func New(d Deps) *Handler {
	return &Handler{
		userService:    d.Users,
		diaryService:   d.Diaries,
		commentService: d.Comments,
		searchService:  d.Search,
		relService:     d.Relationships,
		resolver:       d.Resolver,
		tokens:         d.Tokens,
		pagination:     d.Pagination,
	}
}

// fail 把业务错误映射为状态码，其余一律 500
func (h *Handler) fail(c *gin.Context, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		response.InternalError(c, err)
		return
	}
	switch se.Kind {
	case service.KindBadRequest:
		response.BadRequest(c, se.Detail)
	case service.KindUnauthorized:
		response.Unauthorized(c, se.Detail)
	case service.KindForbidden:
		response.Forbidden(c, se.Detail)
	case service.KindNotFound:
		response.NotFound(c, se.Detail)
	case service.KindConflict:
		response.Conflict(c, se.Detail)
	default:
		response.InternalError(c, err)
	}
}

func (h *Handler) page(c *gin.Context) service.Pagination {
	p, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("page_size"))
	return service.Pagination{Page: p, PageSize: size}.Normalize(h.pagination.DefaultPageSize, h.pagination.MaxPageSize)
}

type dateURI struct {
	Date string `uri:"date" binding:"required,diarydate"`
}

type diaryURI struct {
	ID uint `uri:"did" binding:"required"`
}

type commentURI struct {
	ID uint `uri:"cid" binding:"required"`
}

type userURI struct {
	ID uint `uri:"uid" binding:"required"`
}

func bindDate(c *gin.Context) (string, bool) {
	var uri dateURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
		return "", false
	}
	return uri.Date, true
}

func bindID(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindUri(obj); err != nil {
		response.Error(c, http.StatusNotFound, service.DetailNotFound)
		return false
	}
	return true
}
