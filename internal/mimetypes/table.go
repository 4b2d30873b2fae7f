package mimetypes

import (
	"path"
	"strings"
)

// 代表的なメディアタイプ
const (
	JavaScript  = "application/javascript"
	OctetStream = "application/octet-stream"
)

// Table は拡張子からメディアタイプへの不変の対応表
type Table struct {
	types    map[string]string
	fallback string
}

// NewTable は entries をコピーして新しい Table を作成する
// 拡張子は "." 始まりに正規化される
func NewTable(entries map[string]string, fallback string) Table {
	types := make(map[string]string, len(entries))
	for ext, typ := range entries {
		types[normalizeExt(ext)] = typ
	}
	if fallback == "" {
		fallback = OctetStream
	}
	return Table{types: types, fallback: fallback}
}

// DefaultTable は組み込みの既定テーブルを返す
func DefaultTable() Table {
	return NewTable(defaultTypes, OctetStream)
}

// With は ext の対応を typ に置き換えたコピーを返す
// 元の Table は変更されない
func (t Table) With(ext, typ string) Table {
	types := make(map[string]string, len(t.types)+1)
	for k, v := range t.types {
		types[k] = v
	}
	types[normalizeExt(ext)] = typ
	return Table{types: types, fallback: t.Fallback()}
}

// Lookup は拡張子に対応するメディアタイプを返す
// 完全一致を優先し、見つからなければ小文字化して再検索する
func (t Table) Lookup(ext string) (string, bool) {
	if ext == "" {
		return "", false
	}
	ext = normalizeExt(ext)
	if typ, ok := t.types[ext]; ok {
		return typ, true
	}
	typ, ok := t.types[strings.ToLower(ext)]
	return typ, ok
}

// Fallback は未知の拡張子に使うメディアタイプを返す
func (t Table) Fallback() string {
	if t.fallback == "" {
		return OctetStream
	}
	return t.fallback
}

// Len はテーブルの件数を返す
func (t Table) Len() int {
	return len(t.types)
}

// TypeByPath はパスの拡張子からメディアタイプを推定する
func (t Table) TypeByPath(p string) string {
	if typ, ok := t.Lookup(path.Ext(p)); ok {
		return typ
	}
	return t.Fallback()
}

// ContentType は Table を Resolver として使えるようにする
func (t Table) ContentType(p string) string {
	return t.TypeByPath(p)
}

func normalizeExt(ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}

// defaultTypes は組み込みの拡張子テーブル
// ".js" は一般的な既定値の text/javascript のままにしておき、上書きは Resolver 側で行う
var defaultTypes = map[string]string{
	// テキスト
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".csv":  "text/csv",
	".txt":  "text/plain",
	".text": "text/plain",
	".md":   "text/markdown",
	".xml":  "text/xml",
	".ics":  "text/calendar",
	".vtt":  "text/vtt",

	// スクリプト・データ
	".js":     "text/javascript",
	".mjs":    "text/javascript",
	".json":   "application/json",
	".map":    "application/json",
	".jsonld": "application/ld+json",
	".wasm":   "application/wasm",
	".xhtml":  "application/xhtml+xml",
	".rss":    "application/rss+xml",
	".atom":   "application/atom+xml",

	".webmanifest": "application/manifest+json",

	// 画像
	".png":  "image/png",
	".apng": "image/apng",
	".gif":  "image/gif",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".jpe":  "image/jpeg",
	".bmp":  "image/bmp",
	".ico":  "image/vnd.microsoft.icon",
	".svg":  "image/svg+xml",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",
	".avif": "image/avif",

	// 音声・動画
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".oga":  "audio/ogg",
	".ogg":  "audio/ogg",
	".opus": "audio/opus",
	".flac": "audio/flac",
	".aac":  "audio/aac",
	".weba": "audio/webm",
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".ogv":  "video/ogg",
	".webm": "video/webm",
	".mov":  "video/quicktime",

	// フォント
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".otf":   "font/otf",

	// アーカイブ・文書
	".pdf": "application/pdf",
	".zip": "application/zip",
	".gz":  "application/gzip",
	".tar": "application/x-tar",
	".7z":  "application/x-7z-compressed",
	".doc": "application/msword",
	".rtf": "application/rtf",
}
