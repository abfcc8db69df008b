package matcher

import (
	"strings"

	"github.com/allanpk716/page_patcher/internal/domain"
)

// blockMatcher 字面量块匹配器实现
type blockMatcher struct{}

// NewBlockMatcher 创建新的块匹配器
func NewBlockMatcher() domain.BlockMatcher {
	return &blockMatcher{}
}

// FindBlock 查找 block 的第一次出现
// trailer 非空时必须紧跟在 block 之后，匹配区间一并覆盖 trailer
func (bm *blockMatcher) FindBlock(content, block, trailer string) (domain.Match, bool) {
	if block == "" {
		return domain.Match{}, false
	}

	start := strings.Index(content, block)
	if start < 0 {
		return domain.Match{}, false
	}

	end := start + len(block)
	if trailer != "" {
		if !strings.HasPrefix(content[end:], trailer) {
			return domain.Match{}, false
		}
		end += len(trailer)
	}

	return domain.Match{
		Block:    block,
		StartPos: start,
		EndPos:   end,
	}, true
}

// ReplaceMatch 根据匹配结果替换内容
func (bm *blockMatcher) ReplaceMatch(content string, match domain.Match) string {
	if match.StartPos < 0 || match.EndPos > len(content) || match.StartPos > match.EndPos {
		return content
	}

	var b strings.Builder
	b.Grow(len(content) - match.Len() + len(match.Replacement))
	b.WriteString(content[:match.StartPos])
	b.WriteString(match.Replacement)
	b.WriteString(content[match.EndPos:])
	return b.String()
}

// CountOccurrences 统计 block 在内容中不重叠出现的次数
func CountOccurrences(content, block string) int {
	if block == "" {
		return 0
	}
	return strings.Count(content, block)
}

// FollowedBy 判断 block 第一次出现之后的内容是否以 trailer 开头
// 用于区分"块不存在"和"块存在但 trailer 不匹配"
func FollowedBy(content, block, trailer string) (found, followed bool) {
	start := strings.Index(content, block)
	if block == "" || start < 0 {
		return false, false
	}
	return true, strings.HasPrefix(content[start+len(block):], trailer)
}
