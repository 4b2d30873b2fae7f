package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"jsserve/internal/mimetypes"
)

// TestConfigDefaultIgnoresEnv は Default が環境変数を参照しないことをテストする
func TestConfigDefaultIgnoresEnv(t *testing.T) {
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("PORT", "8080")
	t.Setenv("STATIC_ROOT", "/etc")

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("既定の設定が不正です: %v", err)
	}
	if got := cfg.ServerAddress(); got != ":3000" {
		t.Errorf("リッスンアドレスが想定と異なります: got %q, want %q", got, ":3000")
	}
	if cfg.Static.Root != "." {
		t.Errorf("配信ルートが想定と異なります: got %q, want %q", cfg.Static.Root, ".")
	}
}

// TestConfigLoad は設定の読み込みをテストする
func TestConfigLoad(t *testing.T) {
	t.Setenv("SERVER_HOST", "")
	t.Setenv("PORT", "")
	t.Setenv("STATIC_ROOT", "")

	// 設定を読み込む
	cfg, err := Load()
	if err != nil {
		t.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// サーバー設定の検証
	if cfg.Server.Host != "" {
		t.Errorf("既定のホストは全インターフェースのはずです: got %q", cfg.Server.Host)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("既定のポートが想定と異なります: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.ServerAddress() != ":3000" {
		t.Errorf("リッスンアドレスが想定と異なります: got %q", cfg.ServerAddress())
	}
	if cfg.Server.ReadTimeout <= 0 {
		t.Error("読み込みタイムアウトが設定されていません")
	}
	// WriteTimeout は 0（無効）でも正常
	if cfg.Server.WriteTimeout < 0 {
		t.Error("書き込みタイムアウトが負の値です")
	}

	// 静的ファイル設定の検証
	if cfg.Static.Root != "." {
		t.Errorf("既定のルートはカレントディレクトリのはずです: got %q", cfg.Static.Root)
	}
	if len(cfg.Static.Index) == 0 {
		t.Error("インデックスファイルが設定されていません")
	}
	if cfg.Static.Sniff {
		t.Error("内容による判定は既定で無効のはずです")
	}
}

// TestConfigLoadEnv は環境変数による上書きをテストする
func TestConfigLoadEnv(t *testing.T) {
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("PORT", "8081")
	t.Setenv("STATIC_ROOT", "/srv/www")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	if got := cfg.ServerAddress(); got != "127.0.0.1:8081" {
		t.Errorf("リッスンアドレスが想定と異なります: got %q", got)
	}
	if cfg.Static.Root != "/srv/www" {
		t.Errorf("ルートが想定と異なります: got %q", cfg.Static.Root)
	}

	// 数値でないポートは無視される
	t.Setenv("PORT", "abc")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("設定の読み込みに失敗しました: %v", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("不正な PORT が無視されていません: got %d", cfg.Server.Port)
	}
}

// TestConfigValidation は設定の検証をテストする
func TestConfigValidation(t *testing.T) {
	testCases := []struct {
		name      string
		modify    func(c *Config)
		expectErr bool
	}{
		{
			name:      "正常な設定",
			modify:    func(c *Config) {},
			expectErr: false,
		},
		{
			name:      "ポート0（空いているポート）",
			modify:    func(c *Config) { c.Server.Port = 0 },
			expectErr: false,
		},
		{
			name:      "無効なポート番号",
			modify:    func(c *Config) { c.Server.Port = 99999 },
			expectErr: true,
		},
		{
			name:      "負のポート番号",
			modify:    func(c *Config) { c.Server.Port = -1 },
			expectErr: true,
		},
		{
			name:      "負のタイムアウト",
			modify:    func(c *Config) { c.Server.ReadTimeout = -time.Second },
			expectErr: true,
		},
		{
			name:      "負の接続数上限",
			modify:    func(c *Config) { c.Server.MaxConnections = -1 },
			expectErr: true,
		},
		{
			name:      "スラッシュで始まらないステータスパス",
			modify:    func(c *Config) { c.Server.StatusPath = "status" },
			expectErr: true,
		},
		{
			name:      "ステータスパス",
			modify:    func(c *Config) { c.Server.StatusPath = "/_status" },
			expectErr: false,
		},
		{
			name:      "ルートなし",
			modify:    func(c *Config) { c.Static.Root = "" },
			expectErr: true,
		},
		{
			name:      "スラッシュを含むインデックス",
			modify:    func(c *Config) { c.Static.Index = []string{"sub/index.html"} },
			expectErr: true,
		},
		{
			name:      "空のインデックス名",
			modify:    func(c *Config) { c.Static.Index = []string{""} },
			expectErr: true,
		},
		{
			name:      "正常な上書き",
			modify:    func(c *Config) { c.Static.Overrides = map[string]string{".mjs": "application/javascript"} },
			expectErr: false,
		},
		{
			name:      "ドットで始まらない上書き",
			modify:    func(c *Config) { c.Static.Overrides = map[string]string{"mjs": "application/javascript"} },
			expectErr: true,
		},
		{
			name:      "無効なメディアタイプ",
			modify:    func(c *Config) { c.Static.Overrides = map[string]string{".x": "not a type"} },
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(cfg)
			err := cfg.Validate()
			if tc.expectErr && err == nil {
				t.Error("エラーが期待されましたが、nilが返されました")
			}
			if !tc.expectErr && err != nil {
				t.Errorf("エラーが期待されませんでしたが、エラーが返されました: %v", err)
			}
		})
	}
}

// TestLoadFile は設定ファイルの読み込みをテストする
func TestLoadFile(t *testing.T) {
	t.Setenv("SERVER_HOST", "")
	t.Setenv("PORT", "")
	t.Setenv("STATIC_ROOT", "")

	dir := t.TempDir()

	testCases := []struct {
		name     string
		file     string
		content  string
		wantPort int
		wantRoot string
	}{
		{
			name: "YAML",
			file: "config.yaml",
			content: `server:
  host: 127.0.0.1
  port: 8080
  read_timeout: 5s
  access_log: true
static:
  root: ./public
  sniff: true
  overrides:
    .mjs: application/javascript
`,
			wantPort: 8080,
			wantRoot: "./public",
		},
		{
			name: "TOML",
			file: "config.toml",
			content: `[server]
host = "127.0.0.1"
port = 8080
read_timeout = "5s"
access_log = true

[static]
root = "./public"
sniff = true

[static.overrides]
".mjs" = "application/javascript"
`,
			wantPort: 8080,
			wantRoot: "./public",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.file)
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatal(err)
			}

			cfg, err := LoadFile(path)
			if err != nil {
				t.Fatalf("設定ファイルの読み込みに失敗しました: %v", err)
			}

			if cfg.Server.Port != tc.wantPort {
				t.Errorf("ポートが想定と異なります: got %d, want %d", cfg.Server.Port, tc.wantPort)
			}
			if cfg.Server.Host != "127.0.0.1" {
				t.Errorf("ホストが想定と異なります: got %q", cfg.Server.Host)
			}
			if cfg.Server.ReadTimeout != 5*time.Second {
				t.Errorf("読み込みタイムアウトが想定と異なります: got %v", cfg.Server.ReadTimeout)
			}
			if !cfg.Server.AccessLog {
				t.Error("アクセスログが有効になっていません")
			}
			if cfg.Static.Root != tc.wantRoot {
				t.Errorf("ルートが想定と異なります: got %q, want %q", cfg.Static.Root, tc.wantRoot)
			}
			if !cfg.Static.Sniff {
				t.Error("内容による判定が有効になっていません")
			}
			// ファイルに書かれていない項目は既定値のまま
			if !cfg.Static.Listing {
				t.Error("ディレクトリ一覧の既定値が失われています")
			}

			r := cfg.Resolver()
			if got := r.ContentType("a.mjs"); got != mimetypes.JavaScript {
				t.Errorf("上書きが反映されていません: got %q", got)
			}
			if got := r.ContentType("a.js"); got != mimetypes.JavaScript {
				t.Errorf(".js の上書きが失われています: got %q", got)
			}
		})
	}
}

// TestLoadFileErrors は設定ファイルの読み込みエラーをテストする
func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	testCases := []struct {
		name string
		path string
	}{
		{"存在しないファイル", filepath.Join(dir, "missing.yaml")},
		{"未対応の形式", write("config.json", `{}`)},
		{"壊れた YAML", write("broken.yaml", "server: [")},
		{"壊れた TOML", write("broken.toml", "[server")},
		{"検証エラー", write("invalid.yaml", "server:\n  port: 70000\n")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadFile(tc.path); err == nil {
				t.Errorf("LoadFile(%q) がエラーを返しませんでした", tc.path)
			}
		})
	}
}

// TestResolverDefaultOverride は設定から作った Resolver が ".js" を上書きすることをテストする
func TestResolverDefaultOverride(t *testing.T) {
	cfg := Default()

	r := cfg.Resolver()
	if got := r.ContentType("app.js"); got != mimetypes.JavaScript {
		t.Errorf("ContentType = %q, want %q", got, mimetypes.JavaScript)
	}
	if got := r.ContentType("index.html"); got != "text/html" {
		t.Errorf("ContentType = %q, want %q", got, "text/html")
	}

	// 設定で ".js" を上書きした場合は設定が優先される
	cfg.Static.Overrides = map[string]string{".js": "text/javascript"}
	if got := cfg.Resolver().ContentType("app.js"); got != "text/javascript" {
		t.Errorf("ContentType = %q, want %q", got, "text/javascript")
	}
}
