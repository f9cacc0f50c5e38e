package queue

import (
	"context"
	"errors"

	"go-gin-event-calendar/internal/model"
)

// ErrQueueFull 記憶體隊列 buffer 已滿，通知被丟棄
var ErrQueueFull = errors.New("notice queue is full")

type Delivery struct {
	Data *model.ParticipationNotice
	Ack  func()
	Nack func(requeue bool)
}

type NoticeQueue interface {
	// 發送報名狀態變更通知到隊列
	PublishNotice(ctx context.Context, notice *model.ParticipationNotice) error
	// 訂閱通知隊列
	SubscribeNotices(ctx context.Context) (<-chan Delivery, error)
}

type MemoryNoticeQueueImpl struct {
	// 使用 Go channel 來模擬 MQ 隊列
	ch chan *model.ParticipationNotice
}

func NewMemoryNoticeQueue(bufferSize int) NoticeQueue {
	return &MemoryNoticeQueueImpl{
		ch: make(chan *model.ParticipationNotice, bufferSize),
	}
}

// PublishNotice 不阻塞：呼叫時交易已 commit，buffer 滿時回傳 ErrQueueFull 由呼叫端記錄
func (q *MemoryNoticeQueueImpl) PublishNotice(ctx context.Context, notice *model.ParticipationNotice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.ch <- notice:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *MemoryNoticeQueueImpl) SubscribeNotices(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case notice, ok := <-q.ch:
				if !ok {
					return
				}

				d := Delivery{
					Data: notice,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if requeue {
							// 非阻塞重回隊列，buffer 滿時丟棄
							select {
							case q.ch <- notice:
							default:
							}
						}
					},
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
