package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/todomate/internal/model"
	"github.com/d60-Lab/todomate/internal/service"
	"github.com/d60-Lab/todomate/pkg/jwt"
	"github.com/d60-Lab/todomate/pkg/response"
)

const (
	ctxUserKey = "current_user"

	detailTokenInvalid = "Given token not valid for any token type"
	detailUserNotFound = "User not found"
)

// UserLookup service.UserService 满足该接口
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
}

// RequireAuth 校验 Authorization: Bearer <access>，并把用户放入上下文
func RequireAuth(tokens *jwt.Manager, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, service.DetailNotAuthenticated)
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Unauthorized(c, detailTokenInvalid)
			return
		}

		claims, err := tokens.ParseAccess(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Unauthorized(c, detailTokenInvalid)
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if service.KindOf(err) == service.KindNotFound {
				response.Unauthorized(c, detailUserNotFound)
				return
			}
			response.InternalError(c, err)
			return
		}
		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// CurrentUser 返回已认证用户；未认证时为 nil
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*model.User)
	return u
}

func userField(c *gin.Context) zap.Field {
	if u := CurrentUser(c); u != nil {
		return zap.Uint("user_id", u.ID)
	}
	return zap.Skip()
}
