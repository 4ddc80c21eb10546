package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Lmstfy   LmstfyConfig   `mapstructure:"lmstfy"`
	MQTT     MQTTConfig     `mapstructure:"mqtt"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Callback CallbackConfig `mapstructure:"callback"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

type ServerConfig struct {
	Port        string   `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type MySQLConfig struct {
	DSN         string `mapstructure:"dsn"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LmstfyConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Namespace     string `mapstructure:"namespace"`
	Queue         string `mapstructure:"queue"`
	CallbackQueue string `mapstructure:"callback_queue"`
	Token         string `mapstructure:"token"`
}

// MQTTConfig broker 为空时不启动 MQTT 接入
type MQTTConfig struct {
	Broker   string `mapstructure:"broker"`
	ClientID string `mapstructure:"client_id"`
	Topic    string `mapstructure:"topic"` // 订阅过滤器，如 plots/+/readings
	QoS      byte   `mapstructure:"qos"`
}

// AnalysisConfig Smart Wait 参数
type AnalysisConfig struct {
	MaxWait time.Duration `mapstructure:"max_wait"` // ?wait=N 的上限
	JobTTL  uint32        `mapstructure:"job_ttl"`  // 分析任务 TTL（秒）
}

// CallbackConfig 回调消费配置，Embedded 为 true 时 apiserver 内置消费者
type CallbackConfig struct {
	Embedded     bool          `mapstructure:"embedded"`
	PollTimeout  time.Duration `mapstructure:"poll_timeout"`
	TTR          time.Duration `mapstructure:"ttr"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "cropwatch-apiserver")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("lmstfy.port", 7777)
	v.SetDefault("lmstfy.queue", "plot_analysis")
	v.SetDefault("lmstfy.callback_queue", "analysis_callback")
	v.SetDefault("mqtt.client_id", "cropwatch-apiserver")
	v.SetDefault("mqtt.topic", "plots/+/readings")
	v.SetDefault("mqtt.qos", 1)
	v.SetDefault("analysis.max_wait", 30*time.Second)
	v.SetDefault("analysis.job_ttl", 3600)
	v.SetDefault("callback.embedded", true)
	v.SetDefault("callback.poll_timeout", 5*time.Second)
	v.SetDefault("callback.ttr", 30*time.Second)
	v.SetDefault("callback.poll_interval", time.Second)
}

// Load 从配置文件加载配置
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

// LoadDefault 加载默认配置文件路径
func LoadDefault() (*Config, error) {
	return Load("config/config.yaml")
}

// Validate 验证配置完整性
func (c *Config) Validate() error {
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql dsn is required")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required")
	}
	if c.Lmstfy.Host == "" {
		return fmt.Errorf("lmstfy host is required")
	}
	if c.Lmstfy.Namespace == "" {
		return fmt.Errorf("lmstfy namespace is required")
	}
	if c.Lmstfy.Queue == "" || c.Lmstfy.CallbackQueue == "" {
		return fmt.Errorf("lmstfy queue and callback_queue are required")
	}
	if c.Analysis.MaxWait < 0 {
		return fmt.Errorf("analysis.max_wait must not be negative")
	}
	return nil
}
