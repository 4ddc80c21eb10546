package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrWaitTimeout 等待消息超时
var ErrWaitTimeout = errors.New("redis: wait for message timeout")

// Subscription 已确认的频道订阅
type Subscription interface {
	// Next 等待下一条消息，超时返回 ErrWaitTimeout
	Next(ctx context.Context, timeout time.Duration) (string, error)
	// Channel 持续接收消息，Close 后关闭
	Channel() <-chan string
	Close() error
}

// PubSubClient Redis Pub/Sub 客户端封装
type PubSubClient struct {
	rdb *redis.Client
}

// NewPubSubClient 创建 Pub/Sub 客户端，支持密码认证
func NewPubSubClient(addr, password string, db int) (*PubSubClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &PubSubClient{rdb: rdb}, nil
}

// Listen 订阅频道并等待服务端确认后返回
// 用于 Smart Wait：必须在发布分析任务之前调用，避免结果先于订阅到达
func (c *PubSubClient) Listen(ctx context.Context, channel string) (Subscription, error) {
	sub := c.rdb.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s failed: %w", channel, err)
	}
	return &subscription{sub: sub, done: make(chan struct{})}, nil
}

// Subscribe 订阅指定 channel 并等待一条消息，支持超时控制
func (c *PubSubClient) Subscribe(ctx context.Context, channel string, timeout time.Duration) (string, error) {
	sub, err := c.Listen(ctx, channel)
	if err != nil {
		return "", err
	}
	defer sub.Close()

	return sub.Next(ctx, timeout)
}

// Publish 向指定 channel 发布消息
func (c *PubSubClient) Publish(ctx context.Context, channel string, message string) error {
	return c.rdb.Publish(ctx, channel, message).Err()
}

// PublishJSON 序列化后发布
func (c *PubSubClient) PublishJSON(ctx context.Context, channel string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal message failed: %w", err)
	}
	return c.Publish(ctx, channel, string(payload))
}

// Ping 健康检查
func (c *PubSubClient) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close 关闭连接
func (c *PubSubClient) Close() error {
	return c.rdb.Close()
}

type subscription struct {
	sub  *redis.PubSub
	done chan struct{}
	once sync.Once
}

func (s *subscription) Next(ctx context.Context, timeout time.Duration) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case msg, ok := <-s.sub.Channel():
		if !ok {
			return "", errors.New("redis: subscription closed")
		}
		return msg.Payload, nil
	case <-timeoutCtx.Done():
		if errors.Is(timeoutCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return "", ErrWaitTimeout
		}
		return "", timeoutCtx.Err()
	}
}

func (s *subscription) Channel() <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		for msg := range s.sub.Channel() {
			select {
			case out <- msg.Payload:
			case <-s.done:
				return
			}
		}
	}()
	return out
}

func (s *subscription) Close() error {
	s.once.Do(func() { close(s.done) })
	return s.sub.Close()
}
