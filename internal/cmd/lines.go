package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/allanpk716/page_patcher/internal/filter"
	"github.com/allanpk716/page_patcher/internal/store"
)

func newLinesCommand(a *app) *cobra.Command {
	var (
		file    string
		marker  string
		numbers bool
	)

	cmd := &cobra.Command{
		Use:   "lines",
		Short: "列出包含标记的行（只读）",
		Long: `逐行扫描文件，输出包含标记子串的每一行。
输出为带引号的显示形式，转义字符原样保留。`,
		Example: `  page-patcher lines --file "app/productos/[id]/page.tsx" --marker cuotas`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file 不能为空")
			}
			if marker == "" {
				return errors.New("--marker 不能为空")
			}

			seq, err := filter.FilterDocument(cmd.Context(), store.New(a.logger), file, marker)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			count := 0
			for n, line := range seq {
				count++
				if numbers {
					fmt.Fprintf(out, "%d: %s\n", n, strconv.Quote(line))
					continue
				}
				fmt.Fprintln(out, strconv.Quote(line))
			}

			a.logger.Debug("行过滤完成", zap.String("path", file), zap.String("marker", marker), zap.Int("matches", count))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "目标文件路径")
	cmd.Flags().StringVarP(&marker, "marker", "m", "", "要查找的标记子串")
	cmd.Flags().BoolVarP(&numbers, "numbers", "n", false, "输出行号")
	return cmd
}
