package worker

import (
	"context"
	"time"

	"go-gin-event-calendar/internal/service"
	"go-gin-event-calendar/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RetentionJob 依 cron 排程清除已讀通知
type RetentionJob struct {
	service   service.NotificationService
	retention time.Duration
	cron      *cron.Cron
}

func NewRetentionJob(service service.NotificationService, retention time.Duration) *RetentionJob {
	return &RetentionJob{
		service:   service,
		retention: retention,
		cron:      cron.New(),
	}
}

// Start 註冊排程後開始執行；schedule 無效時回傳錯誤，ctx 結束時停止排程
func (j *RetentionJob) Start(ctx context.Context, schedule string) error {
	if _, err := j.cron.AddFunc(schedule, func() { j.Run(ctx) }); err != nil {
		return err
	}
	j.cron.Start()

	go func() {
		<-ctx.Done()
		<-j.cron.Stop().Done()
		logger.WithComponent("worker").Info("retention job stopped")
	}()
	return nil
}

// Run 執行一次清除
func (j *RetentionJob) Run(ctx context.Context) {
	if _, err := j.service.PurgeRead(ctx, j.retention); err != nil {
		logger.WithComponent("worker").Error("purge read notifications failed", zap.Error(err))
	}
}
