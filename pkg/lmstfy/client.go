package lmstfy

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bitleak/lmstfy/client"

	"cropwatch/internal/framework"
)

const defaultTries = 3

// Client Lmstfy 客户端封装（worker 拉取分析任务、apiserver 投递任务和消费回调共用）
type Client struct {
	cli       *client.LmstfyClient
	namespace string
	tries     uint16
}

// Option 客户端选项
type Option func(*Client)

// WithTries 设置投递的最大消费次数（超过后进入死信）
func WithTries(tries uint16) Option {
	return func(c *Client) {
		if tries > 0 {
			c.tries = tries
		}
	}
}

// NewClient 创建 Lmstfy 客户端
func NewClient(host string, port int, namespace string, token string, opts ...Option) (*Client, error) {
	if host == "" || namespace == "" {
		return nil, fmt.Errorf("lmstfy host and namespace are required")
	}
	c := &Client{
		cli:       client.NewLmstfyClient(host, port, namespace, token),
		namespace: namespace,
		tries:     defaultTries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Namespace 返回命名空间
func (c *Client) Namespace() string {
	return c.namespace
}

// Consume 拉取一条消息（实现 framework.MessageSource）
// 超时未拉到消息时返回 nil, nil
func (c *Client) Consume(queue string, timeout time.Duration, ttr time.Duration) (*framework.Message, error) {
	job, err := c.cli.Consume(queue, uint32(ttr.Seconds()), uint32(timeout.Seconds()))
	if err != nil {
		return nil, fmt.Errorf("lmstfy consume %s failed: %w", queue, err)
	}
	if job == nil {
		return nil, nil
	}

	return &framework.Message{
		ID:    job.ID,
		Queue: queue,
		Data:  job.Data,
		Extra: map[string]interface{}{"namespace": c.namespace},
	}, nil
}

// Ack 确认消息（实现 framework.MessageSource）
func (c *Client) Ack(queue string, jobID string) error {
	if err := c.cli.Ack(queue, jobID); err != nil {
		return fmt.Errorf("lmstfy ack %s/%s failed: %w", queue, jobID, err)
	}
	return nil
}

// Publish 投递原始消息
func (c *Client) Publish(queue string, data []byte, ttl, delay uint32) error {
	_, err := c.PublishJob(queue, data, ttl, delay)
	return err
}

// PublishJob 投递原始消息并返回 job id
func (c *Client) PublishJob(queue string, data []byte, ttl, delay uint32) (string, error) {
	jobID, err := c.cli.Publish(queue, data, ttl, c.tries, delay)
	if err != nil {
		return "", fmt.Errorf("lmstfy publish %s failed: %w", queue, err)
	}
	return jobID, nil
}

// PublishJSON 序列化后投递
func (c *Client) PublishJSON(queue string, v interface{}, ttl, delay uint32) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal job for %s failed: %w", queue, err)
	}
	return c.PublishJob(queue, data, ttl, delay)
}
