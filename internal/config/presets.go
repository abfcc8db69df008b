package config

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/allanpk716/page_patcher/internal/domain"
)

//go:embed presets/*.json
var presetFS embed.FS

// PresetNames 返回内置计划名称（按字母排序）
func PresetNames() []string {
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))
	}
	sort.Strings(names)
	return names
}

// LoadPreset 加载并校验内置计划
func LoadPreset(name string) (*Plan, error) {
	data, err := presetFS.ReadFile(path.Join("presets", name+".json"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s (可用: %s)", domain.ErrUnknownPreset, name, strings.Join(PresetNames(), ", "))
	}

	plan, err := NewConfigManager().ParseConfig(data, FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("内置计划 %s 无效: %w", name, err)
	}
	return plan, nil
}
