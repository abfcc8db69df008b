package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/allanpk716/page_patcher/internal/domain"
)

func TestConfigManager_LoadConfig(t *testing.T) {
	tests := []struct {
		name             string
		fileName         string
		configData       string
		wantErr          bool
		wantProject      string
		wantReplacements int
		wantRemovals     int
	}{
		{
			name:     "valid json",
			fileName: "plan.json",
			configData: `{
				"project_name": "Test Project",
				"target": "page.tsx",
				"replacements": [
					{"name": "finance", "old": "<old>", "new": "<new>", "trailer": "</div>\n"}
				],
				"removals": [
					{"name": "stock", "block": "{/* Stock */}\n", "required": true}
				]
			}`,
			wantProject:      "Test Project",
			wantReplacements: 1,
			wantRemovals:     1,
		},
		{
			name:     "valid yaml",
			fileName: "plan.yaml",
			configData: `project_name: Test Project
replacements:
  - name: finance
    old: "<p>💳 Hasta 12 cuotas</p>\n"
    new: |
      <p>Opciones de financiación</p>
  - name: title
    old: Producto
    new: Artículo
`,
			wantProject:      "Test Project",
			wantReplacements: 2,
		},
		{
			name:       "empty project name",
			fileName:   "plan.json",
			configData: `{"project_name": "", "replacements": [{"name": "a", "old": "x"}]}`,
			wantErr:    true,
		},
		{
			name:       "empty replacements",
			fileName:   "plan.json",
			configData: `{"project_name": "Test Project", "replacements": []}`,
			wantErr:    true,
		},
		{
			name:     "invalid json",
			fileName: "plan.json",
			configData: `{
				"project_name": "Test Project",
				"replacements": [
			}`,
			wantErr: true,
		},
		{
			name:       "unknown field",
			fileName:   "plan.json",
			configData: `{"project_name": "P", "keywords": [], "replacements": [{"name": "a", "old": "x"}]}`,
			wantErr:    true,
		},
		{
			name:       "unknown yaml field",
			fileName:   "plan.yml",
			configData: "project_name: P\nreplacements:\n  - name: a\n    old: x\n    olds: y\n",
			wantErr:    true,
		},
		{
			name:       "unsupported extension",
			fileName:   "plan.toml",
			configData: `project_name = "P"`,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 创建临时配置文件
			path := filepath.Join(t.TempDir(), tt.fileName)
			if err := os.WriteFile(path, []byte(tt.configData), 0644); err != nil {
				t.Fatalf("写入临时文件失败: %v", err)
			}

			manager := NewConfigManager()
			plan, err := manager.LoadConfig(path)

			if tt.wantErr {
				if err == nil {
					t.Errorf("期望出现错误，但没有错误")
				}
				return
			}

			if err != nil {
				t.Fatalf("不期望出现错误，但出现了错误: %v", err)
			}

			if plan.ProjectName != tt.wantProject {
				t.Errorf("项目名称 = %v, 期望 %v", plan.ProjectName, tt.wantProject)
			}
			if len(plan.Replacements) != tt.wantReplacements {
				t.Errorf("替换项数量 = %v, 期望 %v", len(plan.Replacements), tt.wantReplacements)
			}
			if len(plan.Removals) != tt.wantRemovals {
				t.Errorf("删除项数量 = %v, 期望 %v", len(plan.Removals), tt.wantRemovals)
			}
		})
	}
}

func TestConfigManager_LoadConfig_PreservesBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	data := "project_name: P\nreplacements:\n  - name: finance\n    old: \"  <p>a</p>\\n\"\n    new: \"  <p>b</p>\\n\"\n    trailer: \"  </div>\\n\\n\"\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("写入临时文件失败: %v", err)
	}

	plan, err := NewConfigManager().LoadConfig(path)
	if err != nil {
		t.Fatalf("加载失败: %v", err)
	}

	r := plan.Replacements[0]
	if r.Old != "  <p>a</p>\n" || r.New != "  <p>b</p>\n" || r.Trailer != "  </div>\n\n" {
		t.Errorf("块内容被改变: %+v", r)
	}
}

func TestConfigManager_LoadConfig_FileNotFound(t *testing.T) {
	manager := NewConfigManager()
	_, err := manager.LoadConfig("nonexistent.json")
	if err == nil {
		t.Errorf("期望文件不存在错误，但没有错误")
	}
}

func TestConfigManager_LoadConfig_InvalidPath(t *testing.T) {
	manager := NewConfigManager()
	_, err := manager.LoadConfig("")
	if err == nil {
		t.Errorf("期望路径无效错误，但没有错误")
	}
}

func TestConfigManager_ParseConfig_InvalidPlanKind(t *testing.T) {
	_, err := NewConfigManager().ParseConfig([]byte(`{"project_name": "P", "replacements": []}`), FormatJSON)
	if !errors.Is(err, domain.ErrInvalidPlan) {
		t.Errorf("期望 ErrInvalidPlan，实际: %v", err)
	}
}

func TestResolveTarget(t *testing.T) {
	plan := &Plan{Target: "app/page.tsx"}

	if got, _ := ResolveTarget(plan, "other.tsx"); got != "other.tsx" {
		t.Errorf("命令行参数应优先, got %s", got)
	}
	if got, _ := ResolveTarget(plan, ""); got != "app/page.tsx" {
		t.Errorf("应使用计划中的 target, got %s", got)
	}
	if _, err := ResolveTarget(&Plan{}, ""); err == nil {
		t.Error("未指定目标时应返回错误")
	}
}
