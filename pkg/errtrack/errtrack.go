// Package errtrack wraps the Sentry client used for error reporting.
package errtrack

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/d60-Lab/todomate/config"
)

// Init 初始化 Sentry；DSN 为空时不启用，返回的 flush 函数可安全调用
func Init(cfg config.SentryConfig) (func(), error) {
	if cfg.DSN == "" {
		return func() {}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		EnableTracing:    cfg.TracesSampleRate > 0,
		TracesSampleRate: cfg.TracesSampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		return func() {}, fmt.Errorf("init sentry: %w", err)
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// Enabled 报告 Sentry 是否已初始化
func Enabled() bool {
	return sentry.CurrentHub().Client() != nil
}

// CaptureRequest 上报与请求相关的错误
func CaptureRequest(r *http.Request, err error) {
	if err == nil || !Enabled() {
		return
	}
	hub := sentry.CurrentHub().Clone()
	hub.Scope().SetRequest(r)
	hub.CaptureException(err)
}

// CapturePanic 上报 recover 到的 panic
func CapturePanic(r *http.Request, recovered interface{}) {
	if !Enabled() {
		return
	}
	hub := sentry.CurrentHub().Clone()
	hub.Scope().SetRequest(r)
	hub.Recover(recovered)
}
