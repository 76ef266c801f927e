package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Configはアプリ全体の設定
type Config struct {
	Port string `yaml:"port"` // サーバーポート（8080）

	DatabaseURL      string `yaml:"database_url"` // あればPOSTGRES_*より優先
	PostgresUser     string `yaml:"postgres_user"`
	PostgresPassword string `yaml:"postgres_password"`
	PostgresDB       string `yaml:"postgres_db"`
	PostgresHost     string `yaml:"postgres_host"`
	PostgresPort     int    `yaml:"postgres_port"`
	PostgresSSLMode  string `yaml:"postgres_sslmode"`

	JWTSecret string `yaml:"jwt_secret"` // 外部IdPと共有する署名シークレット
	JWTIssuer string `yaml:"jwt_issuer"` // 空ならissは見ない

	GoEnv string `yaml:"go_env"` // dev/prod
	FEURL string `yaml:"fe_url"` // CORS

	// trueなら pending→processing→shipped→delivered（キャンセルはpending/processingのみ）
	StrictOrderTransitions bool `yaml:"order_strict_transitions"`

	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`

	KafkaBrokers    []string `yaml:"kafka_brokers"` // 空ならイベント送信なし
	KafkaOrderTopic string   `yaml:"kafka_order_topic"`
}

func defaults() Config {
	return Config{
		Port:             "8080",
		PostgresHost:     "localhost",
		PostgresPort:     5432,
		PostgresUser:     "postgres",
		PostgresPassword: "postgres",
		PostgresDB:       "eshop",
		PostgresSSLMode:  "disable",
		GoEnv:            "dev",
		RateLimitRPS:     10,
		RateLimitBurst:   20,
		KafkaOrderTopic:  "orders.status",
	}
}

// Loadは CONFIG_FILE（任意のYAML）→ 環境変数 の順で読み込む。環境変数が勝つ。
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DatabaseURL == "" {
		if cfg.PostgresHost == "" {
			return Config{}, fmt.Errorf("POSTGRES_HOST is required")
		}
		if cfg.PostgresDB == "" {
			return Config{}, fmt.Errorf("POSTGRES_DB is required")
		}
	}
	switch cfg.GoEnv {
	case "dev", "prod", "test":
	default:
		return Config{}, fmt.Errorf("GO_ENV must be one of dev/prod/test")
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	return cfg, nil
}

// DSNはgorm/pgx用の接続文字列
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("CONFIG_FILE read: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("CONFIG_FILE parse: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString("PORT", &cfg.Port)
	setString("DATABASE_URL", &cfg.DatabaseURL)
	setString("POSTGRES_USER", &cfg.PostgresUser)
	setString("POSTGRES_PASSWORD", &cfg.PostgresPassword)
	setString("POSTGRES_DB", &cfg.PostgresDB)
	setString("POSTGRES_HOST", &cfg.PostgresHost)
	setString("POSTGRES_SSLMODE", &cfg.PostgresSSLMode)
	setString("JWT_SECRET", &cfg.JWTSecret)
	setString("JWT_ISSUER", &cfg.JWTIssuer)
	setString("GO_ENV", &cfg.GoEnv)
	setString("FE_URL", &cfg.FEURL)
	setString("KAFKA_ORDER_TOPIC", &cfg.KafkaOrderTopic)

	if v := os.Getenv("POSTGRES_PORT"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("POSTGRES_PORT must be number: %w", err)
		}
		cfg.PostgresPort = i
	}
	if v := os.Getenv("ORDER_STRICT_TRANSITIONS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ORDER_STRICT_TRANSITIONS must be bool: %w", err)
		}
		cfg.StrictOrderTransitions = b
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_RPS must be number: %w", err)
		}
		cfg.RateLimitRPS = f
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_BURST must be number: %w", err)
		}
		cfg.RateLimitBurst = i
	}
	if v, ok := os.LookupEnv("KAFKA_BROKERS"); ok {
		cfg.KafkaBrokers = splitList(v)
	}
	return nil
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	out := []string{}
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
