// Package store 负责文档的整文件读取与覆盖写回
package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/viant/afs"
	"go.uber.org/zap"

	"github.com/allanpk716/page_patcher/internal/domain"
)

const defaultFileMode os.FileMode = 0644

// textStore 基于 afs 的文本文档存储
type textStore struct {
	fs     afs.Service
	logger *zap.Logger
}

// NewTextStore 创建文本文档存储，logger 为 nil 时不输出日志
func NewTextStore(logger *zap.Logger) domain.DocumentStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &textStore{
		fs:     afs.New(),
		logger: logger,
	}
}

// Load 一次性读取完整文件
func (ts *textStore) Load(ctx context.Context, path string) (*domain.Document, error) {
	location, err := resolve(path)
	if err != nil {
		return nil, err
	}

	exists, err := ts.fs.Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("检查文件失败 %s: %w", path, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, path)
	}

	object, err := ts.fs.Object(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("读取文件信息失败 %s: %w", path, err)
	}
	if object.IsDir() {
		return nil, fmt.Errorf("目标是目录而不是文件: %s", path)
	}

	reader, err := ts.fs.OpenURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("打开文件失败 %s: %w", path, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("读取文件失败 %s: %w", path, err)
	}

	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidEncoding, path)
	}

	mode := object.Mode().Perm()
	if mode == 0 {
		mode = defaultFileMode
	}

	content, crlf := normalizeNewlines(string(data))

	ts.logger.Debug("文档已加载", zap.String("path", path), zap.Int("bytes", len(data)), zap.Bool("crlf", crlf))
	return &domain.Document{
		Path:    path,
		Content: content,
		Mode:    mode,
		CRLF:    crlf,
	}, nil
}

// Save 用文档内容整体覆盖原文件
func (ts *textStore) Save(ctx context.Context, doc *domain.Document) error {
	if doc == nil {
		return fmt.Errorf("文档不能为空")
	}

	location, err := resolve(doc.Path)
	if err != nil {
		return err
	}

	mode := doc.Mode
	if mode == 0 {
		mode = defaultFileMode
	}

	content := doc.Content
	if doc.CRLF {
		content = restoreCRLF(content)
	}

	if err := ts.fs.Upload(ctx, location, mode, strings.NewReader(content)); err != nil {
		return fmt.Errorf("写入文件失败 %s: %w", doc.Path, err)
	}

	ts.logger.Debug("文档已写回", zap.String("path", doc.Path), zap.Int("bytes", len(content)))
	return nil
}

// normalizeNewlines 文件中每个换行都是 \r\n 时转换为 \n，混合换行的文件原样保留
func normalizeNewlines(content string) (string, bool) {
	crlf := strings.Count(content, "\r\n")
	if crlf == 0 || crlf != strings.Count(content, "\n") {
		return content, false
	}
	return strings.ReplaceAll(content, "\r\n", "\n"), true
}

func restoreCRLF(content string) string {
	return strings.ReplaceAll(strings.ReplaceAll(content, "\r\n", "\n"), "\n", "\r\n")
}

func copyBackup(ctx context.Context, fs afs.Service, path string, now time.Time) (string, error) {
	source, err := resolve(path)
	if err != nil {
		return "", err
	}
	backupPath := BackupPath(path, now)
	dest, err := resolve(backupPath)
	if err != nil {
		return "", err
	}
	if err := fs.Copy(ctx, source, dest); err != nil {
		return "", fmt.Errorf("创建备份失败: %w", err)
	}
	return backupPath, nil
}

// BackupPath 生成备份文件名: <name>_backup_<YYYYMMDD_HHMMSS><ext>
func BackupPath(path string, now time.Time) string {
	dir, base := splitLocation(path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return dir + fmt.Sprintf("%s_backup_%s%s", name, now.Format("20060102_150405"), ext)
}

// resolve 将本地相对路径转换为绝对路径，带 scheme 的 URL 原样返回
func resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("文件路径不能为空")
	}
	if isURL(path) {
		return path, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("解析路径失败 %s: %w", path, err)
	}
	return abs, nil
}

func isURL(path string) bool {
	return strings.Contains(path, "://")
}

// splitLocation 拆分出目录部分（含结尾分隔符）和文件名
func splitLocation(path string) (string, string) {
	if isURL(path) {
		i := strings.LastIndex(path, "/")
		return path[:i+1], path[i+1:]
	}
	dir, base := filepath.Split(path)
	return dir, base
}
