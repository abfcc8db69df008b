package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrPatternNotFound 期望的字面量块或标记不在文档中
	ErrPatternNotFound = errors.New("pattern not found")
	// ErrDocumentNotFound 目标文件不存在
	ErrDocumentNotFound = errors.New("document not found")
	// ErrInvalidEncoding 文件内容不是合法的 UTF-8
	ErrInvalidEncoding = errors.New("invalid utf-8 content")
	// ErrInvalidPlan 替换计划校验失败
	ErrInvalidPlan = errors.New("invalid plan")
	// ErrUnknownPreset 内置计划不存在
	ErrUnknownPreset = errors.New("unknown preset")
)

const previewLimit = 48

// PatternError 携带未找到的块的上下文，errors.Is(err, ErrPatternNotFound) 为 true
type PatternError struct {
	Operation string // 计划中的操作名
	Path      string
	Pattern   string
	Reason    string // 可选，例如 trailer 不匹配
}

func (e *PatternError) Error() string {
	msg := fmt.Sprintf("%s: %q in %s", ErrPatternNotFound, e.Operation, e.Path)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg + ": " + Preview(e.Pattern)
}

func (e *PatternError) Unwrap() error {
	return ErrPatternNotFound
}

// Preview 截取块的开头用于日志和错误信息
func Preview(s string) string {
	r := []rune(s)
	if len(r) > previewLimit {
		return fmt.Sprintf("%q...", string(r[:previewLimit]))
	}
	return fmt.Sprintf("%q", s)
}
