package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/todomate/config"
	"github.com/d60-Lab/todomate/internal/model"
	"github.com/d60-Lab/todomate/internal/service"
	"github.com/d60-Lab/todomate/pkg/jwt"
)

func init() { gin.SetMode(gin.TestMode) }

type usersStub map[uint]*model.User

func (s usersStub) GetByID(_ context.Context, id uint) (*model.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, service.ErrNotFound("User not found.")
}

func newTokens() *jwt.Manager {
	return jwt.NewManager(config.JWTConfig{Secret: "test-secret", Issuer: "todomate", AccessTTL: time.Minute, RefreshTTL: time.Hour})
}

func detailOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Detail
}

func TestRequireAuth(t *testing.T) {
	tokens := newTokens()
	users := usersStub{1: {ID: 1, Nickname: "alice"}}

	r := gin.New()
	r.GET("/me", RequireAuth(tokens, users), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"nickname": CurrentUser(c).Nickname})
	})

	do := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do("")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, service.DetailNotAuthenticated, detailOf(t, w))

	w = do("Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, detailTokenInvalid, detailOf(t, w))

	pair, err := tokens.GenerateTokenPair(1)
	require.NoError(t, err)

	// refresh 令牌不能当 access 使用
	w = do("Bearer " + pair.Refresh)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do("Bearer " + pair.Access)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"nickname":"alice"}`, w.Body.String())

	ghost, err := tokens.GenerateAccess(42)
	require.NoError(t, err)
	w = do("Bearer " + ghost)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, detailUserNotFound, detailOf(t, w))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(HeaderRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Logger(), Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error.", detailOf(t, w))
}

func TestRateLimiter(t *testing.T) {
	l := NewRateLimiter(1, 2)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	r := gin.New()
	r.Use(l.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// 令牌桶按时间恢复
	now = now.Add(time.Second)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// 不同客户端互不影响
	assert.True(t, l.Allow("ip:10.0.0.9"))
}

type observerStub struct {
	route  string
	status int
}

func (o *observerStub) ObserveRequest(_ string, route string, status int, _ time.Duration) {
	o.route, o.status = route, status
}

func TestMetrics(t *testing.T) {
	obs := &observerStub{}
	r := gin.New()
	r.Use(Metrics(obs))
	r.GET("/diary/watch/:did", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/diary/watch/7", nil))
	assert.Equal(t, "/diary/watch/:did", obs.route)
	assert.Equal(t, http.StatusNoContent, obs.status)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, "unmatched", obs.route)
	assert.Equal(t, http.StatusNotFound, obs.status)
}
