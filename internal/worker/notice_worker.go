package worker

import (
	"context"

	"go-gin-event-calendar/internal/queue"
	"go-gin-event-calendar/internal/service"
	"go-gin-event-calendar/pkg/logger"

	"go.uber.org/zap"
)

type NoticeWorker interface {
	// 訂閱報名通知隊列
	Start(ctx context.Context) error
}

type NoticeWorkerImpl struct {
	service service.NotificationService
	queue   queue.NoticeQueue
}

func NewNoticeWorker(service service.NotificationService, queue queue.NoticeQueue) NoticeWorker {
	return &NoticeWorkerImpl{
		service: service,
		queue:   queue,
	}
}

func (w *NoticeWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeNotices(ctx)
	if err != nil {
		return err
	}

	log := logger.WithComponent("worker")
	go func() {
		for msg := range msgs {
			// 寫入通知；以 request_id 去重，重試不會產生重複通知
			if err := w.service.Record(ctx, msg.Data); err != nil {
				log.Warn("record notice failed, requeue",
					zap.String("request_id", msg.Data.RequestID),
					zap.Error(err),
				)
				msg.Nack(true)
				continue
			}
			msg.Ack()
		}
		log.Info("notice worker stopped")
	}()
	return nil
}
