package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	apperrors "github.com/koopa0/system-design/paddle-arena/pkg/errors"
)

// EnvPrefix 環境變數前綴，例如 ARENA_SERVER_PORT
const EnvPrefix = "ARENA"

// Config 整個應用的配置
//
// 載入順序：預設值 → config.yaml → 環境變數（ARENA_*）→ 驗證。
type Config struct {
	Server struct {
		Port           int           `yaml:"port" validate:"min=1,max=65535"`
		ReadTimeout    time.Duration `yaml:"read_timeout" split_words:"true"`
		WriteTimeout   time.Duration `yaml:"write_timeout" split_words:"true"`
		AllowedOrigins []string      `yaml:"allowed_origins" split_words:"true"`
	} `yaml:"server"`

	Redis struct {
		Enabled      bool          `yaml:"enabled"`
		Addr         string        `yaml:"addr" validate:"required_if=Enabled true"`
		Password     string        `yaml:"password"`
		DB           int           `yaml:"db" validate:"min=0"`
		PoolSize     int           `yaml:"pool_size" split_words:"true"`
		ReadTimeout  time.Duration `yaml:"read_timeout" split_words:"true"`
		WriteTimeout time.Duration `yaml:"write_timeout" split_words:"true"`
		KeyPrefix    string        `yaml:"key_prefix" split_words:"true"`
	} `yaml:"redis"`

	Postgres struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host" validate:"required_if=Enabled true"`
		Port     int    `yaml:"port" validate:"min=0,max=65535"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DBName   string `yaml:"dbname"`
		SSLMode  string `yaml:"sslmode" split_words:"true" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
		MaxConns int32  `yaml:"max_conns" split_words:"true" validate:"min=0"`
		MinConns int32  `yaml:"min_conns" split_words:"true" validate:"min=0"`
	} `yaml:"postgres"`

	Auth struct {
		JWTSecret string `yaml:"jwt_secret" split_words:"true" validate:"required,min=16"`
		Issuer    string `yaml:"issuer"`
	} `yaml:"auth"`

	Game struct {
		TickRate     int `yaml:"tick_rate" split_words:"true" validate:"min=1,max=240"`
		WinningScore int `yaml:"winning_score" split_words:"true" validate:"min=1"`
	} `yaml:"game"`

	Persistence struct {
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"persistence"`

	Log struct {
		Level      string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
		Format     string `yaml:"format" validate:"omitempty,oneof=json text"`
		Output     string `yaml:"output"`
		MaxSizeMB  int    `yaml:"max_size_mb" split_words:"true"`
		MaxBackups int    `yaml:"max_backups" split_words:"true"`
		MaxAgeDays int    `yaml:"max_age_days" split_words:"true"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"log"`
}

// DefaultConfig 預設配置
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Server.Port = 3000
	cfg.Server.ReadTimeout = 10 * time.Second
	cfg.Server.WriteTimeout = 10 * time.Second

	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.PoolSize = 10
	cfg.Redis.ReadTimeout = 3 * time.Second
	cfg.Redis.WriteTimeout = 3 * time.Second
	cfg.Redis.KeyPrefix = "arena"

	cfg.Postgres.Host = "localhost"
	cfg.Postgres.Port = 5432
	cfg.Postgres.User = "arena"
	cfg.Postgres.DBName = "arena"
	cfg.Postgres.SSLMode = "disable"
	cfg.Postgres.MaxConns = 10
	cfg.Postgres.MinConns = 2

	cfg.Auth.Issuer = "paddle-arena"

	cfg.Game.TickRate = 60
	cfg.Game.WinningScore = DefaultWinningScore

	cfg.Persistence.Timeout = 5 * time.Second

	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	cfg.Log.Output = "stdout"
	cfg.Log.MaxSizeMB = 100
	cfg.Log.MaxBackups = 5
	cfg.Log.MaxAgeDays = 30

	return cfg
}

// LoadConfig 載入配置；path 為空或檔案不存在時只使用預設值與環境變數
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		// #nosec G304 - path 來自命令列參數，由部署者指定
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 驗證配置
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.ErrInvalidConfig.WithDetails(err.Error())
	}
	return nil
}

// TickInterval tick 間隔
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Game.TickRate)
}

// PostgresDSN 生成 PostgreSQL 連線字串（postgres:// 形式，pgx 與 migrate 共用）
func (c *Config) PostgresDSN() string {
	// 支援環境變數覆蓋（生產環境常用）
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Postgres.User, c.Postgres.Password),
		Host:     c.Postgres.Host + ":" + strconv.Itoa(c.Postgres.Port),
		Path:     "/" + c.Postgres.DBName,
		RawQuery: url.Values{"sslmode": []string{c.Postgres.SSLMode}}.Encode(),
	}
	return u.String()
}
