package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/allanpk716/page_patcher/internal/config"
	"github.com/allanpk716/page_patcher/internal/domain"
	"github.com/allanpk716/page_patcher/internal/processor"
	"github.com/allanpk716/page_patcher/internal/store"
)

func newApplyCommand(a *app) *cobra.Command {
	var (
		configFile string
		preset     string
		file       string
		opts       processor.Options
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "按计划执行块替换并覆盖写回文件",
		Example: `  page-patcher apply --preset finance-installments
  page-patcher apply --config plan.yaml --file src/page.tsx --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlan(configFile, preset)
			if err != nil {
				return err
			}

			target, err := config.ResolveTarget(plan, file)
			if err != nil {
				return err
			}

			dp := processor.NewDocumentProcessor(store.New(a.logger), a.logger)
			result, err := dp.ProcessDocument(cmd.Context(), target, plan, opts)
			if err != nil {
				return err
			}

			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "计划文件路径 (.json/.yaml/.yml)")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "内置计划名称")
	cmd.Flags().StringVarP(&file, "file", "f", "", "目标文件路径，覆盖计划中的 target")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "只输出差异，不写回文件")
	cmd.Flags().BoolVar(&opts.Backup, "backup", false, "覆盖前创建带时间戳的备份")
	cmd.MarkFlagsMutuallyExclusive("config", "preset")
	cmd.MarkFlagsMutuallyExclusive("dry-run", "backup")
	return cmd
}

func loadPlan(configFile, preset string) (*config.Plan, error) {
	switch {
	case configFile != "":
		plan, err := config.NewConfigManager().LoadConfig(configFile)
		if err != nil {
			return nil, fmt.Errorf("加载计划失败: %w", err)
		}
		return plan, nil
	case preset != "":
		return config.LoadPreset(preset)
	default:
		return nil, errors.New("必须指定 --config 或 --preset")
	}
}

func printResult(w io.Writer, result *domain.ProcessResult) {
	for _, op := range result.Operations {
		if !op.Applied {
			fmt.Fprintf(w, "%-7s %s: 未找到，已跳过\n", op.Kind, op.Name)
			continue
		}
		fmt.Fprintf(w, "%-7s %s: 位置 %d, -%d +%d 字节\n", op.Kind, op.Name, op.StartPos, op.Removed, op.Inserted)
	}

	if result.DryRun {
		if diff := cmp.Diff(result.Original, result.Updated); diff != "" {
			fmt.Fprintf(w, "差异 (-原始 +修改后):\n%s", diff)
		}
		fmt.Fprintf(w, "试运行: %s 未被修改\n", result.Path)
		return
	}

	if result.BackupPath != "" {
		fmt.Fprintf(w, "备份: %s\n", result.BackupPath)
	}
	fmt.Fprintf(w, "已写回: %s (%+d 字节)\n", result.Path, result.SizeDelta())
}
