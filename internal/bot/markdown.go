package bot

import "strings"

var markdownEscaper = strings.NewReplacer(
	"_", `\_`,
	"*", `\*`,
	"`", "\\`",
	"[", `\[`,
)

// escapeMarkdown makes channel names, model ids and error texts safe to embed
// in legacy Markdown messages.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
