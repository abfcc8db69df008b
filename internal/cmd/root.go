package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	AppName    = "page-patcher"
	AppVersion = "1.0.0"
)

// app 命令之间共享的运行状态
type app struct {
	verbose bool
	logger  *zap.Logger
}

// NewRootCommand 创建完整的命令树
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{})
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   AppName,
		Short: "对单个源文件执行一次性的字面量块替换",
		Long: `page-patcher 在文本文件中定位精确的字面量块并整体替换，
所有修改在内存中完成后才一次性覆盖写回原文件。

块必须逐字节匹配，找不到即中止，文件保持不变。
迁移不可重复执行：第二次运行会因为旧块已被替换而失败。`,
		Version:       AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger = newLogger(cmd.ErrOrStderr(), a.verbose)
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "详细输出")

	root.AddCommand(
		newLinesCommand(a),
		newApplyCommand(a),
		newPresetsCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute 运行命令并返回进程退出码
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{}
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	// 出错时同样刷新日志
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if err != nil {
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}

// newLogger 构建写往 w 的控制台日志，verbose 时输出 debug 级别并带调用位置
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		level.SetLevel(zapcore.DebugLevel)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	sink := zapcore.AddSync(w)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), sink, level)

	options := []zap.Option{zap.ErrorOutput(sink)}
	if verbose {
		options = append(options, zap.AddCaller())
	}
	return zap.New(core, options...)
}
