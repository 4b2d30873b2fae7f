// Package server は、静的ファイルを配信するHTTPサーバーを管理します。
//
// このパッケージは、HTTPサーバーの起動、ルーティング、
// 静的ファイルの配信とContent-Typeの決定を担当します。
//
// 責務:
//   - ポートの同期的なバインドとHTTPサーバーの起動
//   - 配信ルート配下のファイルの配信（GET/HEAD）
//   - mimetypes.Resolver によるContent-Typeの決定
//   - ディレクトリのインデックスファイルと一覧表示
//   - リクエストIDの付与とアクセスログ
//
// 仕様:
//   - ルーティングはgin-gonic/ginを使用
//   - 配信ルートはgo-billyのファイルシステムとして扱う
//   - Range、HEAD、条件付きリクエストはhttp.ServeContentに委譲
//   - バインド失敗は即座にエラーとして返す（リトライしない）
//   - グレースフルシャットダウンに対応
package server
