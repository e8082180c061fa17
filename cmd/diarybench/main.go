// Command diarybench 压测关注写入、同日并发建日记与访问策略判定
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/todomate/config"
	internalcache "github.com/d60-Lab/todomate/internal/cache"
	"github.com/d60-Lab/todomate/internal/model"
	"github.com/d60-Lab/todomate/internal/repository"
	"github.com/d60-Lab/todomate/internal/service"
	"github.com/d60-Lab/todomate/pkg/cache"
	"github.com/d60-Lab/todomate/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	mustDo(database.Migrate(db, model.All()...))
	defer database.Close(db)

	N := envInt("N", 2000)
	CONC := envInt("CONC", 8)
	CHECKS := envInt("CHECKS", 20000)

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	diaries := repository.NewDiaryRepository(db)
	followRepo := repository.NewFollowRepository(db)
	fanRepo := repository.NewFanRepository(db)

	replicator := service.NewFanReplicator(fanRepo, cfg.Replicator.QueueSize)
	stop := replicator.Start(cfg.Replicator.Workers)

	var checker service.FollowChecker = followRepo
	var invalidator service.FollowInvalidator
	if cfg.Redis.Enabled {
		rdb := must(cache.NewRedis(ctx, cfg.Redis))
		defer rdb.Close()
		fc := internalcache.NewFollowCache(followRepo, rdb, cfg.Redis.FollowTTL, nil)
		checker, invalidator = fc, fc
	}
	policy := service.NewPolicy(diaries, checker, nil)
	relSvc := service.NewRelationshipService(users, followRepo, fanRepo, replicator, invalidator)
	diarySvc := service.NewDiaryService(diaries, policy, nil)

	// seed: author 被 N 个读者关注
	run := uuid.NewString()[:8]
	author := &model.User{Email: "author-" + run + "@bench.local", Nickname: "author", Password: "x"}
	mustDo(users.Create(ctx, author))
	readers := make([]*model.User, N)
	for i := range readers {
		readers[i] = &model.User{Email: fmt.Sprintf("reader-%s-%d@bench.local", run, i), Nickname: "reader", Password: "x"}
	}
	mustDo(db.CreateInBatches(readers, 500).Error)

	// 1. 关注写入（粉丝表异步冗余）
	followLat := make([]time.Duration, N)
	feed := make(chan int, N)
	for i := 0; i < N; i++ {
		feed <- i
	}
	close(feed)
	t0 := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < CONC; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range feed {
				st := time.Now()
				_ = relSvc.Follow(ctx, readers[i].ID, author.ID)
				followLat[i] = time.Since(st)
			}
		}()
	}
	wg.Wait()
	followDur := time.Since(t0)

	// 2. 同一 (作者, 日期) 并发创建，只能成功一次
	date := time.Now().Format("2006-01-02")
	var created, conflicts, failed int32
	t1 := time.Now()
	for w := 0; w < CONC; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			content := "bench " + run
			_, err := diarySvc.CreateForDate(ctx, author, date, service.DiaryInput{Content: &content})
			switch {
			case err == nil:
				atomic.AddInt32(&created, 1)
			case service.KindOf(err) == service.KindConflict:
				atomic.AddInt32(&conflicts, 1)
			default:
				atomic.AddInt32(&failed, 1)
			}
		}()
	}
	wg.Wait()
	createDur := time.Since(t1)
	d := must(diaries.GetByOwnerDate(ctx, author.ID, date))

	// 3. 读者访问判定
	checkLat := make([]time.Duration, 0, CHECKS)
	var denied int
	t2 := time.Now()
	for i := 0; i < CHECKS; i++ {
		reader := readers[i%N]
		st := time.Now()
		ok, err := policy.CanAccess(ctx, reader, service.DiaryRecord(d), false)
		checkLat = append(checkLat, time.Since(st))
		if err != nil || !ok {
			denied++
		}
	}
	checkDur := time.Since(t2)

	_ = stop(ctx)
	landing := make([]time.Duration, 0, N)
	for {
		select {
		case v := <-replicator.Metrics():
			landing = append(landing, v)
			continue
		default:
		}
		break
	}
	fans := must(fanRepo.ListFans(ctx, author.ID, 0, 50))

	fmt.Printf("N=%d, CONC=%d, CHECKS=%d, driver=%s, redis=%v\n", N, CONC, CHECKS, cfg.Database.Driver, cfg.Redis.Enabled)
	fmt.Printf("Follow total: %v, per op: %v, p50: %v, p95: %v, p99: %v\n",
		followDur, followDur/time.Duration(N), pct(followLat, 0.50), pct(followLat, 0.95), pct(followLat, 0.99))
	if len(landing) > 0 {
		fmt.Printf("Fan replication landing: samples=%d, p50=%v, p95=%v, p99=%v, first page=%d\n",
			len(landing), pct(landing, 0.50), pct(landing, 0.95), pct(landing, 0.99), len(fans))
	}
	fmt.Printf("Concurrent create (%s): created=%d, conflicts=%d, failed=%d, took=%v\n", date, created, conflicts, failed, createDur)
	fmt.Printf("Policy check total: %v, p50: %v, p95: %v, p99: %v, denied=%d\n",
		checkDur, pct(checkLat, 0.50), pct(checkLat, 0.95), pct(checkLat, 0.99), denied)
	if created != 1 {
		fmt.Fprintln(os.Stderr, "uniqueness violated: expected exactly one diary")
		os.Exit(1)
	}
}
