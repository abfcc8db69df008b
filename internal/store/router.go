package store

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"go.uber.org/zap"

	"github.com/allanpk716/page_patcher/internal/domain"
	"github.com/allanpk716/page_patcher/pkg/docx"
)

// Router 按文件类型选择文档存储
type Router struct {
	text   domain.DocumentStore
	docx   domain.DocumentStore
	fs     afs.Service
	logger *zap.Logger
}

// New 创建默认存储：.docx 走 DOCX 存储，其余按 UTF-8 文本处理
func New(logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		text:   NewTextStore(logger),
		docx:   docx.NewStore(logger),
		fs:     afs.New(),
		logger: logger,
	}
}

func (r *Router) pick(path string) domain.DocumentStore {
	if !isURL(path) && docx.IsDocx(path) {
		return r.docx
	}
	return r.text
}

// Load 读取文档
func (r *Router) Load(ctx context.Context, path string) (*domain.Document, error) {
	return r.pick(path).Load(ctx, path)
}

// Save 覆盖写回文档
func (r *Router) Save(ctx context.Context, doc *domain.Document) error {
	if doc == nil {
		return fmt.Errorf("文档不能为空")
	}
	return r.pick(doc.Path).Save(ctx, doc)
}

// Backup 原样复制原文件
func (r *Router) Backup(ctx context.Context, path string, now time.Time) (string, error) {
	backupPath, err := copyBackup(ctx, r.fs, path, now)
	if err != nil {
		return "", err
	}
	r.logger.Info("已创建备份", zap.String("path", path), zap.String("backup", backupPath))
	return backupPath, nil
}
