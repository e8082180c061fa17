package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/todomate/internal/repository"
	"github.com/d60-Lab/todomate/pkg/logger"
)

type replicateAction int

const (
	actionAdd replicateAction = iota + 1
	actionRemove
)

type replicateJob struct {
	action replicateAction
	userID uint
	fanID  uint
	enqAt  time.Time
}

// FanReplicator 异步把 follows 冗余到 fans 表，供“我的粉丝”分页使用
type FanReplicator struct {
	fanRepo   repository.FanRepository
	ch        chan replicateJob
	metricsCh chan time.Duration
}

func NewFanReplicator(fanRepo repository.FanRepository, queueSize int) *FanReplicator {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &FanReplicator{fanRepo: fanRepo, ch: make(chan replicateJob, queueSize), metricsCh: make(chan time.Duration, 65536)}
}

// Start 启动 workers 个消费协程，返回的函数先等待队列排空（最多 2s 或 ctx 结束）再停止协程
func (r *FanReplicator) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	stopCh := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case job := <-r.ch:
					r.process(job)
				case <-stopCh:
					return
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		timeout := time.After(2 * time.Second)
	drain:
		for len(r.ch) > 0 {
			select {
			case <-timeout:
				break drain
			case <-ctx.Done():
				break drain
			case <-time.After(50 * time.Millisecond):
			}
		}
		close(stopCh)
		wg.Wait()
		if n := len(r.ch); n > 0 {
			logger.Warn("replicator stopped with pending jobs", zap.Int("pending", n))
		}
		return nil
	}
}

func (r *FanReplicator) process(job replicateJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var err error
	switch job.action {
	case actionAdd:
		err = r.fanRepo.Create(ctx, job.userID, job.fanID)
	case actionRemove:
		err = r.fanRepo.Delete(ctx, job.userID, job.fanID)
	}
	if err != nil {
		logger.Error("replicate fan failed", zap.Uint("user", job.userID), zap.Uint("fan", job.fanID), zap.Error(err))
	}
	if !job.enqAt.IsZero() {
		select {
		case r.metricsCh <- time.Since(job.enqAt):
		default:
		}
	}
}

func (r *FanReplicator) EnqueueAdd(userID, fanID uint) {
	select {
	case r.ch <- replicateJob{action: actionAdd, userID: userID, fanID: fanID, enqAt: time.Now()}:
	default:
		logger.Warn("replicator queue full, drop add", zap.Uint("user", userID), zap.Uint("fan", fanID))
	}
}

func (r *FanReplicator) EnqueueRemove(userID, fanID uint) {
	select {
	case r.ch <- replicateJob{action: actionRemove, userID: userID, fanID: fanID, enqAt: time.Now()}:
	default:
		logger.Warn("replicator queue full, drop remove", zap.Uint("user", userID), zap.Uint("fan", fanID))
	}
}

// Metrics 返回复制落地耗时的只读通道（每处理一条发送一次 duration）。
func (r *FanReplicator) Metrics() <-chan time.Duration { return r.metricsCh }

// QueueLen 返回当前队列长度（采样值）。
func (r *FanReplicator) QueueLen() int { return len(r.ch) }
