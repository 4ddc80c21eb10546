package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置（worker / cropctl 共用）
type Config struct {
	App     AppConfig             `mapstructure:"app"`
	Redis   RedisConfig           `mapstructure:"redis"`
	Lmstfy  LmstfyConfig          `mapstructure:"lmstfy"`
	MQTT    MQTTConfig            `mapstructure:"mqtt"`
	Workers []WorkerConfig        `mapstructure:"workers"`
	Outlier OutlierConfig         `mapstructure:"outlier"`
	Rules   map[string]RuleConfig `mapstructure:"rules"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Env         string `mapstructure:"env"`
	LogLevel    string `mapstructure:"log_level"`
	LogFile     string `mapstructure:"log_file"`     // 为空时只输出到 stdout
	MetricsAddr string `mapstructure:"metrics_addr"` // 为空时不暴露 /metrics
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LmstfyConfig Lmstfy 配置
type LmstfyConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Namespace string `mapstructure:"namespace"`
	Token     string `mapstructure:"token"`
	Queue     string `mapstructure:"queue"` // 分析任务队列（cropctl 投递用）
}

// MQTTConfig MQTT 配置（cropctl simulate 发布读数）
type MQTTConfig struct {
	Broker   string `mapstructure:"broker"`
	ClientID string `mapstructure:"client_id"`
	Topic    string `mapstructure:"topic"` // 如 plots/%s/readings
}

// WorkerConfig Worker 配置
type WorkerConfig struct {
	Name          string           `mapstructure:"name"`
	QueueName     string           `mapstructure:"queue_name"`
	CallbackQueue string           `mapstructure:"callback_queue"` // 回调队列名称
	Subscriber    SubscriberConfig `mapstructure:"subscriber"`
	Processor     ProcessorConfig  `mapstructure:"processor"`
}

// SubscriberConfig Subscriber 配置
type SubscriberConfig struct {
	Threads      int           `mapstructure:"threads"`       // 并发拉取数
	Rate         time.Duration `mapstructure:"rate"`          // 拉取速率
	Timeout      time.Duration `mapstructure:"timeout"`       // 拉取超时
	TTR          time.Duration `mapstructure:"ttr"`           // Time-To-Run
	ErrorBackoff time.Duration `mapstructure:"error_backoff"` // 错误退避时间
}

// ProcessorConfig Processor 配置
type ProcessorConfig struct {
	Threads    int           `mapstructure:"threads"`     // 并发处理数
	BufferSize int           `mapstructure:"buffer_size"` // Channel 缓冲大小
	Timeout    time.Duration `mapstructure:"timeout"`     // 单个任务超时
}

// OutlierConfig 离群检测配置
type OutlierConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	Trees      int     `mapstructure:"trees"`
	SampleSize int     `mapstructure:"sample_size"`
	MaxDepth   int     `mapstructure:"max_depth"`
	MinSamples int     `mapstructure:"min_samples"`
	Threshold  float64 `mapstructure:"threshold"`
	Seed       int64   `mapstructure:"seed"`
}

// RuleConfig 阈值覆盖（未设置的字段沿用参考值）
type RuleConfig struct {
	Min         *float64 `mapstructure:"min"`
	Max         *float64 `mapstructure:"max"`
	CriticalMin *float64 `mapstructure:"critical_min"`
	CriticalMax *float64 `mapstructure:"critical_max"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.log_level", "info")
	v.SetDefault("outlier.trees", 100)
	v.SetDefault("outlier.sample_size", 256)
	v.SetDefault("outlier.max_depth", 10)
	v.SetDefault("outlier.min_samples", 5)
	v.SetDefault("outlier.threshold", 0.6)
	v.SetDefault("outlier.seed", 42)
	v.SetDefault("mqtt.client_id", "cropctl")
	v.SetDefault("mqtt.topic", "plots/%s/readings")
}

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	return &cfg, nil
}

// Validate 验证配置（worker 进程）
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.Lmstfy.Host == "" {
		return fmt.Errorf("lmstfy.host is required")
	}
	if len(c.Workers) == 0 {
		return fmt.Errorf("at least one worker is required")
	}
	for i, w := range c.Workers {
		if w.QueueName == "" {
			return fmt.Errorf("workers[%d].queue_name is required", i)
		}
		if w.Subscriber.Threads <= 0 || w.Processor.Threads <= 0 {
			return fmt.Errorf("workers[%d]: subscriber and processor threads must be positive", i)
		}
		if w.Processor.Timeout <= 0 {
			return fmt.Errorf("workers[%d].processor.timeout must be positive", i)
		}
	}
	if c.Outlier.Enabled && (c.Outlier.Threshold <= 0 || c.Outlier.Threshold >= 1) {
		return fmt.Errorf("outlier.threshold must be in (0,1)")
	}
	return nil
}
