package config

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"jsserve/internal/mimetypes"
)

// DefaultPort は既定のリッスンポート
const DefaultPort = 3000

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server ServerConfig `yaml:"server" toml:"server"`
	Static StaticConfig `yaml:"static" toml:"static"`
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	// リッスンするホスト（空文字は全インターフェース）
	Host string `yaml:"host" toml:"host"`
	// リッスンするポート番号（0 は空いているポート）
	Port int `yaml:"port" toml:"port" validate:"gte=0,lte=65535"`

	// タイムアウト設定
	ReadTimeout  time.Duration `yaml:"read_timeout" toml:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" toml:"write_timeout" validate:"gte=0"`

	// 同時接続数の上限（0 は無制限）
	MaxConnections int `yaml:"max_connections" toml:"max_connections" validate:"gte=0"`
	// リクエストごとのアクセスログ
	AccessLog bool `yaml:"access_log" toml:"access_log"`
	// gin のデバッグモード
	Debug bool `yaml:"debug" toml:"debug"`
	// ステータスエンドポイントのパス（空文字は無効）
	StatusPath string `yaml:"status_path" toml:"status_path" validate:"omitempty,startswith=/"`
}

// StaticConfig は静的ファイル配信の設定
type StaticConfig struct {
	// 配信ルートディレクトリ
	Root string `yaml:"root" toml:"root" validate:"required"`
	// 拡張子から判定できないファイルは内容から判定する
	Sniff bool `yaml:"sniff" toml:"sniff"`
	// 末尾一致による Content-Type の上書き（".js" は常に application/javascript）
	Overrides map[string]string `yaml:"overrides" toml:"overrides"`
	// ディレクトリへのリクエストで探すインデックスファイル
	Index []string `yaml:"index" toml:"index" validate:"dive,required,excludesall=/"`
	// インデックスがないディレクトリの一覧表示
	Listing bool `yaml:"listing" toml:"listing"`
}

// Default は既定の設定を返す
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "",
			Port:        DefaultPort,
			ReadTimeout: 10 * time.Second,
			// 大きなファイルの配信を打ち切らないよう無効化
			WriteTimeout: 0,
		},
		Static: StaticConfig{
			Root:    ".",
			Index:   []string{"index.html", "index.htm"},
			Listing: true,
		},
	}
}

// Load は設定を読み込む
// 既定値を環境変数で上書きする
func Load() (*Config, error) {
	cfg := Default()
	cfg.applyEnv()

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "設定の検証に失敗")
	}

	return cfg, nil
}

// LoadFile は設定ファイルを読み込む
// 拡張子が .yaml/.yml なら YAML、.toml なら TOML として解釈し、既定値と環境変数の上に重ねる
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "設定ファイルの読み込みに失敗: %s", path)
	}

	cfg := Default()
	cfg.applyEnv()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "YAML の解析に失敗: %s", path)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, errors.Wrapf(err, "TOML の解析に失敗: %s", path)
		}
	default:
		return nil, errors.Errorf("未対応の設定ファイル形式です: %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "設定の検証に失敗")
	}

	return cfg, nil
}

var validate = validator.New()

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	// 上書き設定の検証
	for _, suffix := range sortedKeys(c.Static.Overrides) {
		if !strings.HasPrefix(suffix, ".") {
			return fmt.Errorf("上書きの拡張子は '.' で始まる必要があります: %q", suffix)
		}
		if _, _, err := mime.ParseMediaType(c.Static.Overrides[suffix]); err != nil {
			return fmt.Errorf("無効なメディアタイプ %q (%s): %w", c.Static.Overrides[suffix], suffix, err)
		}
	}

	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Overrides は ".js" の既定の上書きに設定の上書きを重ねた一覧を返す
func (c *Config) Overrides() []mimetypes.Override {
	overrides := []mimetypes.Override{mimetypes.JavaScriptOverride}
	for _, suffix := range sortedKeys(c.Static.Overrides) {
		overrides = append(overrides, mimetypes.Override{
			Suffix: suffix,
			Type:   c.Static.Overrides[suffix],
		})
	}
	return overrides
}

// Resolver は設定に基づく Content-Type の Resolver を作成する
func (c *Config) Resolver() *mimetypes.OverrideResolver {
	return mimetypes.New(mimetypes.DefaultTable(), c.Overrides()...)
}

func (c *Config) applyEnv() {
	c.Server.Host = getEnvOrDefault("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvAsIntOrDefault("PORT", c.Server.Port)
	c.Static.Root = getEnvOrDefault("STATIC_ROOT", c.Static.Root)
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
