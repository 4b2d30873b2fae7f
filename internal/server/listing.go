package server

import (
	"fmt"
	"html"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
)

// serveListing はディレクトリの一覧をHTMLで返す
func (h *FileHandler) serveListing(w http.ResponseWriter, name string) {
	entries, err := h.FS.ReadDir(name)
	if err != nil {
		h.serveError(w, name, err)
		return
	}

	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	displayPath := "/"
	if name != "." {
		displayPath = "/" + name + "/"
	}
	title := html.EscapeString("Directory listing for " + displayPath)

	var b strings.Builder
	b.WriteString("<!DOCTYPE HTML>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n</head>\n<body>\n<h1>%s</h1>\n<hr>\n<ul>\n", title, title)
	for _, entry := range entries {
		fmt.Fprintf(&b, "<li><a href=\"%s\">%s</a></li>\n", entryHref(entry), html.EscapeString(entryLabel(entry)))
	}
	b.WriteString("</ul>\n<hr>\n</body>\n</html>\n")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(b.String()))
}

// entryLabel はディレクトリに "/" を、シンボリックリンクに "@" を付ける
func entryLabel(entry os.FileInfo) string {
	switch {
	case entry.IsDir():
		return entry.Name() + "/"
	case entry.Mode()&os.ModeSymlink != 0:
		return entry.Name() + "@"
	default:
		return entry.Name()
	}
}

func entryHref(entry os.FileInfo) string {
	name := entry.Name()
	if entry.IsDir() {
		name += "/"
	}
	// "a:b" のような名前がスキームと解釈されないよう url.URL を経由する
	u := url.URL{Path: name}
	return html.EscapeString(u.String())
}
