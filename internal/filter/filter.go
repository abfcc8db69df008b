// Package filter 提供只读的按标记筛选行功能
package filter

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/allanpk716/page_patcher/internal/domain"
)

// lineFilter 行过滤器实现
type lineFilter struct{}

// NewLineFilter 创建新的行过滤器
func NewLineFilter() domain.LineFilter {
	return &lineFilter{}
}

// Lines 惰性返回包含 marker 的每一行原文（不含换行符）
func (lf *lineFilter) Lines(content, marker string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range Numbered(content, marker) {
			if !yield(line) {
				return
			}
		}
	}
}

// Numbered 与 Lines 相同，但同时给出从 1 开始的行号
func Numbered(content, marker string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		n := 0
		for line := range SplitLines(content) {
			n++
			if strings.Contains(line, marker) && !yield(n, line) {
				return
			}
		}
	}
}

// SplitLines 按 \n、\r\n、\r 切分行，行尾换行符不计入行内容
// 末尾的换行不会产生额外的空行
func SplitLines(content string) iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := content
		for rest != "" {
			i := strings.IndexAny(rest, "\r\n")
			if i < 0 {
				yield(rest)
				return
			}
			line := rest[:i]
			next := i + 1
			if rest[i] == '\r' && next < len(rest) && rest[next] == '\n' {
				next++
			}
			if !yield(line) {
				return
			}
			rest = rest[next:]
		}
	}
}

// FilterDocument 从存储加载文档后返回匹配行序列
// 文档不存在时返回 domain.ErrDocumentNotFound
func FilterDocument(ctx context.Context, store domain.DocumentStore, path, marker string) (iter.Seq2[int, string], error) {
	doc, err := store.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("加载文档失败: %w", err)
	}
	return Numbered(doc.Content, marker), nil
}
