package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/allanpk716/page_patcher/internal/domain"
)

// Replacement 表示一个块替换项
type Replacement struct {
	Name    string `json:"name" yaml:"name"`
	Old     string `json:"old" yaml:"old"`
	New     string `json:"new" yaml:"new"`
	Trailer string `json:"trailer,omitempty" yaml:"trailer,omitempty"`
}

// Removal 表示一个块删除项
type Removal struct {
	Name     string `json:"name" yaml:"name"`
	Block    string `json:"block" yaml:"block"`
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// Plan 表示完整的替换计划
type Plan struct {
	ProjectName  string        `json:"project_name" yaml:"project_name"`
	Target       string        `json:"target,omitempty" yaml:"target,omitempty"`
	Replacements []Replacement `json:"replacements" yaml:"replacements"`
	Removals     []Removal     `json:"removals,omitempty" yaml:"removals,omitempty"`
}

// ConfigManager 配置管理接口
type ConfigManager interface {
	LoadConfig(filePath string) (*Plan, error)
	ParseConfig(data []byte, format string) (*Plan, error)
	ValidateConfig(plan *Plan) error
}

// configManager 配置管理器实现
type configManager struct{}

// NewConfigManager 创建新的配置管理器
func NewConfigManager() ConfigManager {
	return &configManager{}
}

// 支持的配置格式
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatOf 根据扩展名判断配置格式
func FormatOf(filePath string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("配置文件必须是 JSON 或 YAML 格式，当前文件: %s", ext)
	}
}

// LoadConfig 从文件加载计划
func (cm *configManager) LoadConfig(filePath string) (*Plan, error) {
	if filePath == "" {
		return nil, fmt.Errorf("配置文件路径不能为空")
	}

	// 检查文件是否存在
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("配置文件不存在: %s", filePath)
	}

	format, err := FormatOf(filePath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	return cm.ParseConfig(data, format)
}

// ParseConfig 解析并校验计划内容
func (cm *configManager) ParseConfig(data []byte, format string) (*Plan, error) {
	var plan Plan
	switch format {
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&plan); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&plan); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的配置格式: %s", format)
	}

	if err := cm.ValidateConfig(&plan); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return &plan, nil
}

// ValidateConfig 验证计划的有效性
func (cm *configManager) ValidateConfig(plan *Plan) error {
	if plan == nil {
		return fmt.Errorf("%w: 配置不能为空", domain.ErrInvalidPlan)
	}

	if plan.ProjectName == "" {
		return fmt.Errorf("%w: 项目名称不能为空", domain.ErrInvalidPlan)
	}

	if len(plan.Replacements) == 0 {
		return fmt.Errorf("%w: 替换列表不能为空", domain.ErrInvalidPlan)
	}

	// 检查名称重复
	names := make(map[string]bool)
	for i, r := range plan.Replacements {
		if r.Name == "" {
			return fmt.Errorf("%w: 第 %d 个替换项的 name 不能为空", domain.ErrInvalidPlan, i+1)
		}
		if r.Old == "" {
			return fmt.Errorf("%w: 替换项 %s 的 old 不能为空", domain.ErrInvalidPlan, r.Name)
		}
		if names[r.Name] {
			return fmt.Errorf("%w: 名称重复: %s", domain.ErrInvalidPlan, r.Name)
		}
		names[r.Name] = true
	}

	for i, r := range plan.Removals {
		if r.Name == "" {
			return fmt.Errorf("%w: 第 %d 个删除项的 name 不能为空", domain.ErrInvalidPlan, i+1)
		}
		if r.Block == "" {
			return fmt.Errorf("%w: 删除项 %s 的 block 不能为空", domain.ErrInvalidPlan, r.Name)
		}
		if names[r.Name] {
			return fmt.Errorf("%w: 名称重复: %s", domain.ErrInvalidPlan, r.Name)
		}
		names[r.Name] = true
	}

	return nil
}

// ResolveTarget 决定本次运行的目标文件，命令行参数优先
func ResolveTarget(plan *Plan, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if plan != nil && plan.Target != "" {
		return plan.Target, nil
	}
	return "", fmt.Errorf("未指定目标文件，请在计划中设置 target 或使用 --file")
}
