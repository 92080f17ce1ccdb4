package config

import (
	"os"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var (
	cfg  *Config
	once sync.Once
)

// Init 读取配置文件后再用环境变量覆盖，配置文件路径可由 CONFIG_PATH 指定
func Init() {
	once.Do(func() {
		c, err := Load(os.Getenv("CONFIG_PATH"))
		if err != nil {
			panic(err)
		}
		cfg = c
	})
}

// Load 按 默认值 -> 配置文件 -> 环境变量 的顺序加载配置
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = "config.yaml"
	}
	v.SetConfigFile(path)
	// 配置文件不存在时只使用默认值与环境变量
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "读取配置文件失败")
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, "解析配置文件失败")
	}
	if err := envconfig.Process("", c); err != nil {
		return nil, errors.Wrap(err, "读取环境变量失败")
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", "8080")
	v.SetDefault("prefix", "api")
	v.SetDefault("mode", string(ModeDebug))
	v.SetDefault("timezone", "Local")
	v.SetDefault("mysql.host", "127.0.0.1")
	v.SetDefault("mysql.port", "3306")
	v.SetDefault("mysql.db_name", "portal_actividades")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.cache_ttl", 60)
	v.SetDefault("jwt.access_expire", 8*60*60)
	v.SetDefault("jwt.issuer", "activity-portal")
	v.SetDefault("jwt.audience", "activity-portal-clients")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("otel.service_name", "activity-portal")
	v.SetDefault("otel.agent_port", "4318")
}

// Get 返回全局配置，未初始化时先初始化
func Get() *Config {
	if cfg == nil {
		Init()
	}
	return cfg
}

// Set 替换全局配置，供测试使用
func Set(c *Config) {
	once.Do(func() {})
	cfg = c
}

// Location 返回计算日期使用的时区
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
