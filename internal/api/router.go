package api

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/todomate/config"
	_ "github.com/d60-Lab/todomate/docs"
	"github.com/d60-Lab/todomate/internal/api/handler"
	"github.com/d60-Lab/todomate/internal/api/middleware"
	"github.com/d60-Lab/todomate/pkg/jwt"
	"github.com/d60-Lab/todomate/pkg/metrics"
	"github.com/d60-Lab/todomate/pkg/validator"
)

// Options 路由依赖；Metrics/Gatherer 为 nil 时不挂载指标
type Options struct {
	Handler   *handler.Handler
	Tokens    *jwt.Manager
	Users     middleware.UserLookup
	Metrics   *metrics.Collector
	Gatherer  prometheus.Gatherer
	RateLimit config.RateLimitConfig
	Tracing   config.TracingConfig
}

func SetupRouter(opts Options) *gin.Engine {
	validator.Register()

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery())
	if opts.Tracing.Enabled {
		r.Use(otelgin.Middleware(opts.Tracing.ServiceName))
	}
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(opts.Gatherer)))
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	public := []gin.HandlerFunc{}
	authed := []gin.HandlerFunc{middleware.RequireAuth(opts.Tokens, opts.Users)}
	if opts.RateLimit.Enabled {
		// 认证前按 IP 限流，令牌校验和用户查询不能被无限次触发；认证后再按用户限流
		byIP := middleware.NewRateLimiter(opts.RateLimit.RPS, opts.RateLimit.Burst)
		byUser := middleware.NewRateLimiter(opts.RateLimit.RPS, opts.RateLimit.Burst)
		public = append(public, byIP.ByIP())
		authed = []gin.HandlerFunc{byIP.ByIP(), middleware.RequireAuth(opts.Tokens, opts.Users), byUser.Middleware()}
	}

	h := opts.Handler

	accounts := r.Group("/accounts")
	{
		open := accounts.Group("", public...)
		open.POST("/signup", h.Signup)
		open.POST("/login", h.Login)
		open.POST("/token/refresh", h.RefreshToken)

		me := accounts.Group("", authed...)
		me.GET("/me", h.Me)
		me.GET("/search", h.FindUser)
		me.POST("/search", h.FindUser)
		me.POST("/follow/:uid", h.Follow)
		me.DELETE("/follow/:uid", h.Unfollow)
		me.GET("/:uid/following", h.ListFollowing)
		me.GET("/:uid/followers", h.ListFans)
	}

	diary := r.Group("/diary", authed...)
	{
		diary.GET("/mydiary", h.ListMyDiaries)
		diary.GET("/mydiary/:date", h.MyDiaryEntry)
		diary.GET("/mydiary/:date/create", h.ListMyDiariesByDate)
		diary.POST("/mydiary/:date/create", h.CreateMyDiary)
		diary.GET("/mydiary/:date/update", h.GetMyDiary)
		diary.PUT("/mydiary/:date/update", h.UpdateMyDiary)
		diary.PATCH("/mydiary/:date/update", h.UpdateMyDiary)
		diary.DELETE("/mydiary/:date/update", h.DeleteMyDiary)

		diary.GET("/watch/:did", h.WatchDiary)
		diary.PUT("/watch/:did", h.UpdateWatchedDiary)
		diary.PATCH("/watch/:did", h.UpdateWatchedDiary)
		diary.DELETE("/watch/:did", h.DeleteWatchedDiary)

		diary.GET("/comment/:did", h.ListComments)
		diary.POST("/comment/:did", h.CreateComment)
		diary.GET("/comment/detail/:cid", h.GetComment)
		diary.PUT("/comment/detail/:cid", h.UpdateComment)
		diary.PATCH("/comment/detail/:cid", h.UpdateComment)
		diary.DELETE("/comment/detail/:cid", h.DeleteComment)

		diary.GET("/search/:uid", h.SearchUserDiaries)
		diary.GET("/search/:uid/:date", h.SearchUserDiariesByDate)
	}

	return r
}
