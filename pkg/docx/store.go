package docx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/nguyenthenguyen/docx"
	"go.uber.org/zap"

	"github.com/allanpk716/page_patcher/internal/domain"
)

// Extension DOCX 文件扩展名
const Extension = ".docx"

// Store 以 word/document.xml 的文本作为 Document 的 DOCX 存储
type Store struct {
	logger *zap.Logger
}

// NewStore 创建 DOCX 存储
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{logger: logger}
}

// IsDocx 按扩展名判断是否为 DOCX 文件，排除 Word 临时文件 (~$xxx.docx)
func IsDocx(path string) bool {
	base := filepath.Base(path)
	return strings.EqualFold(filepath.Ext(base), Extension) && !strings.HasPrefix(base, "~$")
}

// Load 读取 document.xml 的完整内容
func (s *Store) Load(ctx context.Context, path string) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("读取文件信息失败 %s: %w", path, err)
	}

	reader, err := docx.ReadDocxFile(path)
	if err != nil {
		return nil, fmt.Errorf("打开DOCX文件失败: %w", err)
	}
	defer reader.Close()

	content := reader.Editable().GetContent()
	if !utf8.ValidString(content) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidEncoding, path)
	}

	s.logger.Debug("DOCX 文档已加载", zap.String("path", path), zap.Int("bytes", len(content)))
	return &domain.Document{
		Path:    path,
		Content: content,
		Mode:    info.Mode().Perm(),
	}, nil
}

// Save 将内容写回 document.xml，其余部件原样保留
// 先写入同目录临时文件再重命名，避免读写同一个 ZIP
func (s *Store) Save(ctx context.Context, doc *domain.Document) error {
	if doc == nil {
		return fmt.Errorf("文档不能为空")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	reader, err := docx.ReadDocxFile(doc.Path)
	if err != nil {
		return fmt.Errorf("打开DOCX文件失败: %w", err)
	}

	editable := reader.Editable()
	editable.SetContent(doc.Content)

	tmp, err := os.CreateTemp(filepath.Dir(doc.Path), ".page-patcher-*"+Extension)
	if err != nil {
		reader.Close()
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := editable.WriteToFile(tmpPath); err != nil {
		reader.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("写入DOCX文件失败: %w", err)
	}
	if err := reader.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("关闭DOCX文件失败: %w", err)
	}

	if doc.Mode != 0 {
		if err := os.Chmod(tmpPath, doc.Mode); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("设置文件权限失败: %w", err)
		}
	}
	if err := os.Rename(tmpPath, doc.Path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("替换原文件失败: %w", err)
	}

	s.logger.Debug("DOCX 文档已写回", zap.String("path", doc.Path), zap.Int("bytes", len(doc.Content)))
	return nil
}
