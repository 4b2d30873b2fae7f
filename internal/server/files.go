package server

import (
	"errors"
	"io"
	"io/fs"
	"log"
	"net/http"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-git/go-billy/v5"

	"jsserve/internal/config"
	"jsserve/internal/mimetypes"
	"jsserve/internal/staticfs"
)

// FileHandler は配信ルート配下のファイルを返す http.Handler
type FileHandler struct {
	FS       billy.Filesystem
	Resolver mimetypes.Resolver

	// ディレクトリへのリクエストで探すファイル名
	Index []string
	// インデックスがない場合にディレクトリ一覧を返すか
	Listing bool
	// Resolver が Fallback を返したときに内容から判定するか
	Sniff bool
	// 内容による判定を行う対象のメディアタイプ
	Fallback string
}

// NewFileHandler は設定から FileHandler を作成する
func NewFileHandler(fsys billy.Filesystem, resolver mimetypes.Resolver, cfg config.StaticConfig) *FileHandler {
	return &FileHandler{
		FS:       fsys,
		Resolver: resolver,
		Index:    cfg.Index,
		Listing:  cfg.Listing,
		Sniff:    cfg.Sniff,
		Fallback: mimetypes.OctetStream,
	}
}

// ServeHTTP はリクエストパスに対応するファイルを返す
func (h *FileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Unsupported method", http.StatusMethodNotAllowed)
		return
	}

	name := staticfs.Name(r.URL.Path)

	info, err := h.FS.Stat(name)
	if err != nil {
		h.serveError(w, name, err)
		return
	}

	if !info.IsDir() {
		// ファイルに末尾スラッシュを付けたURLは存在しないものとして扱う
		if strings.HasSuffix(r.URL.Path, "/") {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		h.serveFile(w, r, name)
		return
	}

	// ディレクトリは末尾スラッシュ付きのURLに揃える
	if !strings.HasSuffix(r.URL.Path, "/") {
		target := "/"
		if name != "." {
			target = "/" + name + "/"
		}
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
		return
	}

	for _, index := range h.Index {
		indexName := path.Join(name, index)
		if st, err := h.FS.Stat(indexName); err == nil && !st.IsDir() {
			h.serveFile(w, r, indexName)
			return
		}
	}

	if !h.Listing {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	h.serveListing(w, name)
}

// serveFile はファイルの内容をContent-Type付きで返す
func (h *FileHandler) serveFile(w http.ResponseWriter, r *http.Request, name string) {
	f, err := h.FS.Open(name)
	if err != nil {
		h.serveError(w, name, err)
		return
	}
	defer f.Close()

	info, err := h.FS.Stat(name)
	if err != nil {
		h.serveError(w, name, err)
		return
	}

	ctype := h.contentType(name, f)
	w.Header().Set("Content-Type", ctype)

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// contentType はファイルのメディアタイプを決定する
func (h *FileHandler) contentType(name string, f io.ReadSeeker) string {
	ctype := mimetypes.OctetStream
	if h.Resolver != nil {
		ctype = h.Resolver.ContentType("/" + name)
	}

	if !h.Sniff || ctype != h.fallback() {
		return ctype
	}

	detected, err := mimetype.DetectReader(f)
	if _, serr := f.Seek(0, io.SeekStart); serr != nil {
		log.Printf("ファイルの先頭へのシークに失敗: %s: %v", name, serr)
		return ctype
	}
	if err != nil {
		log.Printf("内容によるメディアタイプの判定に失敗: %s: %v", name, err)
		return ctype
	}

	return detected.String()
}

func (h *FileHandler) fallback() string {
	if h.Fallback == "" {
		return mimetypes.OctetStream
	}
	return h.Fallback
}

// serveError はファイルシステムのエラーをステータスコードに変換する
func (h *FileHandler) serveError(w http.ResponseWriter, name string, err error) {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		http.Error(w, "File not found", http.StatusNotFound)
	case errors.Is(err, fs.ErrPermission):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		// ルート外を指すシンボリックリンクなどもここに来る
		log.Printf("ファイルを開けません: %s: %v", name, err)
		http.Error(w, "File not found", http.StatusNotFound)
	}
}
