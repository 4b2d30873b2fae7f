package main

import (
	"context"
	"log"

	"jsserve/internal/config"
	"jsserve/internal/server"
)

func main() {
	// 既定の設定を使う（ポート3000、カレントディレクトリ、環境変数は参照しない）
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("設定の検証に失敗しました: %v", err)
	}

	// サーバーを作成
	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("サーバーの作成に失敗しました: %v", err)
	}

	// コンテキストを作成
	ctx := context.Background()

	// サーバーを起動
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("サーバーの起動に失敗しました: %v", err)
	}
}
