package ws

import (
	"context"

	"cropwatch/internal/app/domains/services/svcallback"
	"cropwatch/internal/app/infra/persistence/redis"
	"cropwatch/internal/app/pkg/logger"
)

// FeedListener 告警推送订阅（PubSubClient 实现）
type FeedListener interface {
	Listen(ctx context.Context, channel string) (redis.Subscription, error)
}

// RunFeed 将 Redis alerts:feed 频道的消息转发给 Hub，ctx 取消后返回
func RunFeed(ctx context.Context, listener FeedListener, hub *Hub, log logger.Logger) error {
	sub, err := listener.Listen(ctx, svcallback.FeedChannel)
	if err != nil {
		return err
	}
	defer sub.Close()

	log.Info("Alert feed started", "channel", svcallback.FeedChannel)
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			log.Info("Alert feed stopped")
			return ctx.Err()
		case payload, ok := <-ch:
			if !ok {
				return nil
			}
			hub.Broadcast([]byte(payload))
		}
	}
}
