package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cropwatch/common/model"
	"cropwatch/internal/app/domains/services/svcallback"
	"cropwatch/internal/app/infra/persistence/redis"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print newly persisted alerts from the Redis alert feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			client, err := redis.NewPubSubClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				return fmt.Errorf("connect redis: %w", err)
			}
			defer client.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sub, err := client.Listen(ctx, svcallback.FeedChannel)
			if err != nil {
				return err
			}
			defer sub.Close()
			return WatchFeed(ctx, sub.Channel(), cmd.OutOrStdout())
		},
	}
}

// WatchFeed 逐条打印告警事件，无法解析的消息原样输出
func WatchFeed(ctx context.Context, messages <-chan string, out io.Writer) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			fmt.Fprintln(out, formatEvent(msg))
		}
	}
}

func formatEvent(msg string) string {
	var event model.AlertEvent
	if err := json.Unmarshal([]byte(msg), &event); err != nil || event.Type != model.AlertEventType {
		return msg
	}
	p := event.Payload
	return fmt.Sprintf("[%s] plot=%s alert=%s %s", p.Severity, p.PlotID, p.AlertID, p.Message)
}
