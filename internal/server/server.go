package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"golang.org/x/net/netutil"

	"jsserve/internal/config"
	"jsserve/internal/staticfs"
)

// shutdownTimeout はグレースフルシャットダウンの待ち時間
const shutdownTimeout = 5 * time.Second

// Server はHTTPサーバーを管理する構造体
type Server struct {
	config     *config.Config
	httpServer *http.Server
	engine     *gin.Engine
	listener   net.Listener
	out        io.Writer
}

// New は設定の配信ルートとContent-Typeの上書きで新しいServerインスタンスを作成する
func New(cfg *config.Config) (*Server, error) {
	fsys, err := staticfs.New(cfg.Static.Root)
	if err != nil {
		return nil, fmt.Errorf("配信ルートの準備に失敗: %w", err)
	}

	files := NewFileHandler(fsys, cfg.Resolver(), cfg.Static)
	return NewWithHandler(cfg, files), nil
}

// NewWithHandler は任意のファイルハンドラでServerインスタンスを作成する
func NewWithHandler(cfg *config.Config, files http.Handler) *Server {
	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	// 末尾スラッシュの扱いは FileHandler が決める
	engine.RedirectTrailingSlash = false

	s := &Server{
		config: cfg,
		engine: engine,
		out:    os.Stdout,
		httpServer: &http.Server{
			Handler:      engine,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	s.setupRoutes(files)

	return s
}

// setupRoutes はHTTPルートを設定する
func (s *Server) setupRoutes(files http.Handler) {
	s.engine.Use(gin.Recovery(), requestID())
	if s.config.Server.AccessLog {
		s.engine.Use(accessLog(log.Default()))
	}

	// ステータスエンドポイント
	if s.config.Server.StatusPath != "" {
		s.engine.GET(s.config.Server.StatusPath, s.handleStatus)
	}

	// それ以外のパスはすべて静的ファイルとして扱う
	s.engine.NoRoute(gin.WrapH(files))
}

// SetOutput は起動メッセージの出力先を変更する
func (s *Server) SetOutput(w io.Writer) {
	s.out = w
}

// Handler はリクエストを処理するハンドラを返す
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Listen はポートを同期的にバインドする
func (s *Server) Listen() error {
	if s.listener != nil {
		return errors.New("すでにリッスンしています")
	}

	ln, err := net.Listen("tcp", s.config.ServerAddress())
	if err != nil {
		return fmt.Errorf("%s のリッスンに失敗: %w", s.config.ServerAddress(), err)
	}

	if n := s.config.Server.MaxConnections; n > 0 {
		ln = netutil.LimitListener(ln, n)
	}

	s.listener = ln
	return nil
}

// Addr はバインド済みのアドレスを返す
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Port はバインド済みのポート番号を返す
// バインド前は設定値を返す
func (s *Server) Port() int {
	if addr, ok := s.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return s.config.Server.Port
}

// Start はポートをバインドし、起動メッセージを出力してサーバーを起動する
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(s.out, "Server running on port %d...\n", s.Port())

	return s.Serve(ctx)
}

// Serve はバインド済みのリスナーでリクエストを処理する
// コンテキストのキャンセルかシグナルでシャットダウンする
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("リッスンしていません")
	}

	// シャットダウン用のチャンネル
	shutdownCh := make(chan error, 1)

	// サーバーを別ゴルーチンで起動
	go func() {
		log.Printf("HTTPサーバーを起動しています: %s", s.listener.Addr())
		if err := s.httpServer.Serve(s.listener); err != nil && err != http.ErrServerClosed {
			shutdownCh <- fmt.Errorf("サーバーの起動に失敗: %w", err)
		}
	}()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// コンテキストかシグナルを待つ
	select {
	case <-ctx.Done():
		log.Println("コンテキストがキャンセルされました")
	case sig := <-sigCh:
		log.Printf("シグナルを受信しました: %v", sig)
	case err := <-shutdownCh:
		return err
	}

	// グレースフルシャットダウン
	return s.Shutdown()
}

// Shutdown はサーバーをグレースフルにシャットダウンする
func (s *Server) Shutdown() error {
	log.Println("サーバーをシャットダウンしています...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("サーバーのシャットダウンに失敗: %w", err)
	}

	log.Println("サーバーが正常にシャットダウンされました")
	return nil
}
