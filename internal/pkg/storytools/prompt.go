package storytools

import (
	"fmt"
	"strings"
)

// PromptParams 叙事提示词参数
type PromptParams struct {
	Tone        string // formal 或 poetic
	Perspective string // first 或 third
	LineCount   int
	Description string // DescribeImages 的输出
	Context     string // 用户补充的自由文本，可为空
}

// BuildNarrativePrompt 构建叙事生成提示词
// 固定结构: 语气/视角指令、精确行数指令、图片描述块、
// 可选上下文块（仅在去除首尾空白后非空时输出）、规则块
func BuildNarrativePrompt(p PromptParams) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Write a story using a **%s** tone and **%s** perspective.\n", p.Tone, p.Perspective))
	sb.WriteString(fmt.Sprintf("Make it exactly **%d lines**.\n", p.LineCount))

	sb.WriteString("\nImage descriptions:\n")
	sb.WriteString(p.Description)
	sb.WriteString("\n")

	if ctx := strings.TrimSpace(p.Context); ctx != "" {
		sb.WriteString("\nAdditional context from the author:\n")
		sb.WriteString(ctx)
		sb.WriteString("\n")
	}

	sb.WriteString("\nRules:\n")
	sb.WriteString(fmt.Sprintf("- The story must be exactly %d lines.\n", p.LineCount))
	sb.WriteString("- Each line must be a complete sentence.\n")
	sb.WriteString("- Weave all images together into one cohesive narrative.\n")

	return sb.String()
}
