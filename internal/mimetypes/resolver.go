package mimetypes

import (
	"sort"
	"strings"
)

// Resolver はパスに対する Content-Type を決定する
type Resolver interface {
	ContentType(path string) string
}

// ResolverFunc は関数を Resolver として扱うためのアダプタ
type ResolverFunc func(path string) string

// ContentType は f(path) を返す
func (f ResolverFunc) ContentType(path string) string {
	return f(path)
}

// Override はパスの末尾が Suffix に一致したときに使うメディアタイプ
type Override struct {
	Suffix string
	Type   string
}

// JavaScriptOverride は ".js" を application/javascript に固定する上書き
var JavaScriptOverride = Override{Suffix: ".js", Type: JavaScript}

// OverrideResolver は上書き規則を Table より優先して適用する Resolver
type OverrideResolver struct {
	table     Table
	overrides []Override
}

// New は table に overrides を重ねた Resolver を作成する
//
// 上書きの判定は大文字小文字を区別する末尾一致で、長い Suffix が優先される。
// 同じ Suffix が複数指定された場合は後のものが使われる。
func New(table Table, overrides ...Override) *OverrideResolver {
	bySuffix := make(map[string]string, len(overrides))
	for _, o := range overrides {
		if o.Suffix == "" || o.Type == "" {
			continue
		}
		bySuffix[o.Suffix] = o.Type
	}

	list := make([]Override, 0, len(bySuffix))
	for suffix, typ := range bySuffix {
		list = append(list, Override{Suffix: suffix, Type: typ})
	}
	sort.Slice(list, func(i, j int) bool {
		if len(list[i].Suffix) != len(list[j].Suffix) {
			return len(list[i].Suffix) > len(list[j].Suffix)
		}
		return list[i].Suffix < list[j].Suffix
	})

	return &OverrideResolver{table: table, overrides: list}
}

// Default は既定テーブルに ".js" の上書きを重ねた Resolver を返す
func Default() *OverrideResolver {
	return New(DefaultTable(), JavaScriptOverride)
}

// ContentType はパスに対するメディアタイプを返す
// 上書きに一致しなければテーブルに委譲する
func (r *OverrideResolver) ContentType(path string) string {
	for _, o := range r.overrides {
		if strings.HasSuffix(path, o.Suffix) {
			return o.Type
		}
	}
	return r.table.TypeByPath(path)
}

// Table は委譲先のテーブルを返す
func (r *OverrideResolver) Table() Table {
	return r.table
}

// Overrides は適用順に並んだ上書き規則のコピーを返す
func (r *OverrideResolver) Overrides() []Override {
	out := make([]Override, len(r.overrides))
	copy(out, r.overrides)
	return out
}
