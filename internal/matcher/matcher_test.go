package matcher

import (
	"strings"
	"testing"

	"github.com/allanpk716/page_patcher/internal/domain"
)

func TestNewBlockMatcher(t *testing.T) {
	matcher := NewBlockMatcher()
	if matcher == nil {
		t.Fatal("Expected non-nil matcher")
	}
}

func TestBlockMatcher_FindBlock(t *testing.T) {
	matcher := NewBlockMatcher()

	tests := []struct {
		name      string
		content   string
		block     string
		trailer   string
		wantFound bool
		wantStart int
		wantEnd   int
	}{
		{
			name:      "single match",
			content:   "X<old>Y",
			block:     "<old>",
			wantFound: true,
			wantStart: 1,
			wantEnd:   6,
		},
		{
			name:      "first of duplicates",
			content:   "<old>-<old>",
			block:     "<old>",
			wantFound: true,
			wantStart: 0,
			wantEnd:   5,
		},
		{
			name:      "no match",
			content:   "nothing here",
			block:     "<old>",
			wantFound: false,
		},
		{
			name:      "partial match is not a match",
			content:   "X<ol",
			block:     "<old>",
			wantFound: false,
		},
		{
			name:      "trailer consumed",
			content:   "a<p>x</p>\n  </div>\n\nb",
			block:     "<p>x</p>\n",
			trailer:   "  </div>\n\n",
			wantFound: true,
			wantStart: 1,
			wantEnd:   20,
		},
		{
			name:      "trailer missing",
			content:   "a<p>x</p>\n</section>b",
			block:     "<p>x</p>\n",
			trailer:   "  </div>\n\n",
			wantFound: false,
		},
		{
			name:      "empty block",
			content:   "abc",
			block:     "",
			wantFound: false,
		},
		{
			name:      "multibyte content",
			content:   "💳 Hasta 12 cuotas",
			block:     "12 cuotas",
			wantFound: true,
			wantStart: len("💳 Hasta "),
			wantEnd:   len("💳 Hasta 12 cuotas"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, found := matcher.FindBlock(tt.content, tt.block, tt.trailer)
			if found != tt.wantFound {
				t.Fatalf("FindBlock() found = %v, expected %v", found, tt.wantFound)
			}
			if !found {
				return
			}
			if match.StartPos != tt.wantStart || match.EndPos != tt.wantEnd {
				t.Errorf("FindBlock() span = [%d,%d), expected [%d,%d)", match.StartPos, match.EndPos, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestBlockMatcher_ReplaceMatch(t *testing.T) {
	matcher := NewBlockMatcher()

	tests := []struct {
		name        string
		content     string
		block       string
		trailer     string
		replacement string
		expected    string
	}{
		{
			name:        "single replacement",
			content:     "X<old>Y",
			block:       "<old>",
			replacement: "<new>",
			expected:    "X<new>Y",
		},
		{
			name:        "only first occurrence",
			content:     "<old><old>",
			block:       "<old>",
			replacement: "<new>",
			expected:    "<new><old>",
		},
		{
			name:        "removal",
			content:     "head\n{/* Stock */}\nbody\n\ntail",
			block:       "{/* Stock */}\nbody\n\n",
			replacement: "",
			expected:    "head\ntail",
		},
		{
			name:        "replacement swallows trailer",
			content:     "<p>a</p>\n</div>\n\n<p>b</p>",
			block:       "<p>a</p>\n",
			trailer:     "</div>\n\n",
			replacement: "<p>c</p>\n",
			expected:    "<p>c</p>\n<p>b</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, found := matcher.FindBlock(tt.content, tt.block, tt.trailer)
			if !found {
				t.Fatalf("FindBlock() did not find %q", tt.block)
			}
			match.Replacement = tt.replacement
			result := matcher.ReplaceMatch(tt.content, match)
			if result != tt.expected {
				t.Errorf("ReplaceMatch() = %q, expected %q", result, tt.expected)
			}
		})
	}
}

func TestBlockMatcher_ReplaceMatch_OutOfRange(t *testing.T) {
	matcher := NewBlockMatcher()
	content := "short"
	result := matcher.ReplaceMatch(content, domain.Match{StartPos: 2, EndPos: 99, Replacement: "x"})
	if result != content {
		t.Errorf("ReplaceMatch() = %q, expected content unchanged", result)
	}
}

func TestCountOccurrences(t *testing.T) {
	if got := CountOccurrences("aXbXc", "X"); got != 2 {
		t.Errorf("CountOccurrences() = %d, expected 2", got)
	}
	if got := CountOccurrences("abc", ""); got != 0 {
		t.Errorf("CountOccurrences() with empty block = %d, expected 0", got)
	}
}

func TestFollowedBy(t *testing.T) {
	found, followed := FollowedBy("a<b>c", "<b>", "c")
	if !found || !followed {
		t.Errorf("FollowedBy() = %v,%v, expected true,true", found, followed)
	}
	found, followed = FollowedBy("a<b>d", "<b>", "c")
	if !found || followed {
		t.Errorf("FollowedBy() = %v,%v, expected true,false", found, followed)
	}
	found, _ = FollowedBy("abc", "<b>", "c")
	if found {
		t.Error("FollowedBy() found a block that is absent")
	}
}

// Benchmark tests
func BenchmarkBlockMatcher_FindBlock(b *testing.B) {
	matcher := NewBlockMatcher()
	content := strings.Repeat("<div className=\"x\">filler</div>\n", 500) + "<old>\n</div>\n\n"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		matcher.FindBlock(content, "<old>\n", "</div>\n\n")
	}
}

func BenchmarkBlockMatcher_ReplaceMatch(b *testing.B) {
	matcher := NewBlockMatcher()
	content := strings.Repeat("<div className=\"x\">filler</div>\n", 500) + "<old>\n</div>\n\n"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		match, _ := matcher.FindBlock(content, "<old>\n", "</div>\n\n")
		match.Replacement = "<new>\n"
		matcher.ReplaceMatch(content, match)
	}
}
