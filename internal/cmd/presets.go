package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/allanpk716/page_patcher/internal/config"
)

func newPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "列出内置计划",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range config.PresetNames() {
				plan, err := config.LoadPreset(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%s\t(%d 替换, %d 删除)\n", name, plan.Target, len(plan.Replacements), len(plan.Removals))
			}
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本信息",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s v%s\n", AppName, AppVersion)
		},
	}
}
