package utils

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	policy = bluemonday.UGCPolicy()
)

func init() {
	policy.AllowImages()
	// 容器类元素允许受限的 class/id，供代码高亮和表格样式使用
	policy.AllowAttrs("class", "id").OnElements("div", "span", "code", "pre", "table")
	policy.AllowURLSchemes("http", "https", "mailto", "tel")
	// Force links to open in new tab
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	// Add noopener or noreferrer and follow security best practices
	policy.RequireNoReferrerOnLinks(true)
}

// RenderMarkdown 将用户输入的 Markdown 渲染为可直接嵌入页面的安全 HTML。
// 两段式：先渲染（渲染器可能透传原始 HTML），再按白名单清洗渲染结果。
// 清洗必须作用于渲染后的 HTML 而不是 Markdown 源文本。
func RenderMarkdown(source string) string {
	if source == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		// 渲染失败时退回纯文本清洗，绝不返回未清洗内容
		return policy.Sanitize(source)
	}

	// Sanitize HTML
	sanitized := policy.SanitizeBytes(buf.Bytes())

	// Enhance Image Attributes
	return EnhanceHTMLContent(string(sanitized))
}
