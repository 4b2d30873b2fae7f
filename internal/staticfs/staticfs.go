// Package staticfs は配信ルートのファイルシステムを提供します。
package staticfs

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// New は root を配信ルートとする billy.Filesystem を作成する
// ルート外のパスはシンボリックリンク経由も含めて解決されない
func New(root string) (billy.Filesystem, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("ルートディレクトリの解決に失敗: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("ルートディレクトリを開けません: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("ルートがディレクトリではありません: %s", absRoot)
	}

	return osfs.New(absRoot, osfs.WithBoundOS()), nil
}

// Name は URL パスをルートからの相対名に変換する
// ".." はルートより上に遡らない
func Name(urlPath string) string {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		return "."
	}
	return name
}
