package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/allanpk716/page_patcher/internal/config"
	"github.com/allanpk716/page_patcher/internal/domain"
	"github.com/allanpk716/page_patcher/internal/matcher"
)

// Options 单次运行的选项
type Options struct {
	DryRun bool // 只在内存中修改，不写回
	Backup bool // 覆盖前复制原文件
}

// DocumentProcessor 按计划对单个文档执行块替换
// 流程: not_started → loaded → located | aborted → mutated → persisted
type DocumentProcessor struct {
	store   domain.DocumentStore
	matcher domain.BlockMatcher
	logger  *zap.Logger
	now     func() time.Time
}

// NewDocumentProcessor 创建新的文档处理器
func NewDocumentProcessor(store domain.DocumentStore, logger *zap.Logger) *DocumentProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentProcessor{
		store:   store,
		matcher: matcher.NewBlockMatcher(),
		logger:  logger,
		now:     time.Now,
	}
}

// ProcessDocument 加载文档、依次执行替换和删除，全部成功后一次性写回
// 任一必需的块缺失时返回 domain.ErrPatternNotFound，文件保持不变
func (dp *DocumentProcessor) ProcessDocument(ctx context.Context, path string, plan *config.Plan, opts Options) (*domain.ProcessResult, error) {
	result := &domain.ProcessResult{
		Path:   path,
		Stage:  domain.StageNotStarted,
		DryRun: opts.DryRun,
	}

	if dp.store == nil {
		return dp.abort(result, errors.New("文档存储未初始化"))
	}
	if plan == nil {
		return dp.abort(result, fmt.Errorf("%w: 计划不能为空", domain.ErrInvalidPlan))
	}
	if err := ctx.Err(); err != nil {
		return dp.abort(result, err)
	}

	log := dp.logger.With(zap.String("path", path), zap.String("project", plan.ProjectName))
	log.Info("开始处理文档")

	doc, err := dp.store.Load(ctx, path)
	if err != nil {
		return dp.abort(result, fmt.Errorf("加载文档失败: %w", err))
	}
	result.Stage = domain.StageLoaded
	result.Original = doc.Content
	content := doc.Content

	for _, r := range plan.Replacements {
		if err := ctx.Err(); err != nil {
			return dp.abort(result, err)
		}

		match, found := dp.matcher.FindBlock(content, r.Old, r.Trailer)
		if !found {
			return dp.abort(result, dp.notFound(r.Name, path, content, r.Old, r.Trailer))
		}
		if n := matcher.CountOccurrences(content, r.Old); n > 1 {
			log.Warn("块出现多次，只替换第一次", zap.String("name", r.Name), zap.Int("occurrences", n))
		}
		result.Stage = domain.StageLocated

		match.Replacement = r.New
		content = dp.matcher.ReplaceMatch(content, match)
		result.Operations = append(result.Operations, domain.OperationResult{
			Name:     r.Name,
			Kind:     domain.OperationReplace,
			Applied:  true,
			StartPos: match.StartPos,
			Removed:  match.Len(),
			Inserted: len(r.New),
		})
		log.Debug("替换完成", zap.String("name", r.Name), zap.Int("start", match.StartPos), zap.Int("removed", match.Len()), zap.Int("inserted", len(r.New)))
	}

	for _, r := range plan.Removals {
		if err := ctx.Err(); err != nil {
			return dp.abort(result, err)
		}

		match, found := dp.matcher.FindBlock(content, r.Block, "")
		if !found {
			if r.Required {
				return dp.abort(result, dp.notFound(r.Name, path, content, r.Block, ""))
			}
			log.Warn("未找到要删除的块，跳过", zap.String("name", r.Name))
			result.Operations = append(result.Operations, domain.OperationResult{
				Name:     r.Name,
				Kind:     domain.OperationRemove,
				StartPos: -1,
			})
			continue
		}

		content = dp.matcher.ReplaceMatch(content, match)
		result.Operations = append(result.Operations, domain.OperationResult{
			Name:     r.Name,
			Kind:     domain.OperationRemove,
			Applied:  true,
			StartPos: match.StartPos,
			Removed:  match.Len(),
		})
		log.Debug("删除完成", zap.String("name", r.Name), zap.Int("start", match.StartPos), zap.Int("removed", match.Len()))
	}

	result.Stage = domain.StageMutated
	result.Updated = content

	if opts.DryRun {
		log.Info("试运行，未写回文件", zap.Int("applied", result.Applied()), zap.Int("delta", result.SizeDelta()))
		return result, nil
	}

	if opts.Backup {
		backupper, ok := dp.store.(domain.Backupper)
		if !ok {
			return dp.abort(result, errors.New("当前存储不支持备份"))
		}
		backupPath, err := backupper.Backup(ctx, doc.Path, dp.now())
		if err != nil {
			return dp.abort(result, fmt.Errorf("备份失败: %w", err))
		}
		result.BackupPath = backupPath
	}

	doc.Content = content
	if err := dp.store.Save(ctx, doc); err != nil {
		return dp.abort(result, fmt.Errorf("写回文档失败: %w", err))
	}
	result.Stage = domain.StagePersisted

	log.Info("文档处理完成", zap.Int("applied", result.Applied()), zap.Int("delta", result.SizeDelta()))
	return result, nil
}

func (dp *DocumentProcessor) abort(result *domain.ProcessResult, err error) (*domain.ProcessResult, error) {
	result.Stage = domain.StageAborted
	dp.logger.Error("处理中止", zap.String("path", result.Path), zap.Error(err))
	return result, err
}

// notFound 构造未找到错误，区分块缺失与 trailer 不匹配
func (dp *DocumentProcessor) notFound(name, path, content, block, trailer string) error {
	perr := &domain.PatternError{
		Operation: name,
		Path:      path,
		Pattern:   block,
	}
	if trailer != "" {
		if found, followed := matcher.FollowedBy(content, block, trailer); found && !followed {
			perr.Reason = "trailer " + domain.Preview(trailer) + " does not follow the block"
		}
	}
	return perr
}
