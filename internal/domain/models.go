package domain

import (
	"context"
	"iter"
	"os"
	"time"
)

// Document 一次运行中目标文件的完整内存文本
type Document struct {
	Path    string      // 存储位置（本地路径或 afs URL）
	Content string      // 完整文本，UTF-8
	Mode    os.FileMode // 加载时的文件权限，写回时沿用
	CRLF    bool        // 原文件统一使用 \r\n 换行，Content 中已转换为 \n，写回时还原
}

// DocumentStore 整文件读写接口
type DocumentStore interface {
	Load(ctx context.Context, path string) (*Document, error)
	Save(ctx context.Context, doc *Document) error
}

// BlockMatcher 字面量块匹配器接口
type BlockMatcher interface {
	// FindBlock 定位 block 的第一次出现，trailer 非空时要求其紧随 block 之后
	FindBlock(content, block, trailer string) (Match, bool)
	// ReplaceMatch 用 match.Replacement 替换 [StartPos, EndPos) 区间
	ReplaceMatch(content string, match Match) string
}

// LineFilter 行过滤器接口
type LineFilter interface {
	Lines(content, marker string) iter.Seq[string]
}

// Match 表示一个匹配项
type Match struct {
	Block       string // 原始块
	Replacement string // 替换值
	StartPos    int    // 开始位置
	EndPos      int    // 结束位置（包含 trailer）
}

// Len 返回被替换区间的字节长度
func (m Match) Len() int {
	return m.EndPos - m.StartPos
}

// Stage 替换流程所处的阶段
type Stage string

const (
	StageNotStarted Stage = "not_started"
	StageLoaded     Stage = "loaded"
	StageLocated    Stage = "located"
	StageMutated    Stage = "mutated"
	StagePersisted  Stage = "persisted"
	StageAborted    Stage = "aborted"
)

// Terminal 是否为终止状态
func (s Stage) Terminal() bool {
	return s == StagePersisted || s == StageAborted
}

// OperationKind 操作类型
type OperationKind string

const (
	OperationReplace OperationKind = "replace"
	OperationRemove  OperationKind = "remove"
)

// OperationResult 单个替换或删除操作的结果
type OperationResult struct {
	Name     string
	Kind     OperationKind
	Applied  bool
	StartPos int
	Removed  int // 删除的字节数
	Inserted int // 插入的字节数
}

// ProcessResult 处理结果
type ProcessResult struct {
	Path       string
	Stage      Stage
	Operations []OperationResult
	Original   string
	Updated    string
	BackupPath string
	DryRun     bool
}

// Applied 返回实际生效的操作数量
func (r *ProcessResult) Applied() int {
	n := 0
	for _, op := range r.Operations {
		if op.Applied {
			n++
		}
	}
	return n
}

// SizeDelta 返回写回内容相对原始内容的字节差
func (r *ProcessResult) SizeDelta() int {
	return len(r.Updated) - len(r.Original)
}

// Backupper 覆盖写回前能够复制原文件的存储
type Backupper interface {
	Backup(ctx context.Context, path string, now time.Time) (string, error)
}
