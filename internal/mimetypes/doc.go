// Package mimetypes は、リクエストパスから Content-Type を決定します。
//
// 責務:
//   - 拡張子からメディアタイプへの固定テーブル（Table）の提供
//   - 拡張子によるメディアタイプの上書き（Override）
//   - Resolver インターフェースによる Content-Type 解決
//
// 仕様:
//   - テーブルは値として扱い、生成後に変更しない
//   - OS の MIME データベースには依存しない
//   - Default() の Resolver は ".js" に application/javascript を返す
//   - 未知の拡張子は application/octet-stream を返す
//   - 解決は失敗せず、副作用を持たない（並行呼び出し可）
package mimetypes
