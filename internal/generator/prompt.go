package generator

import "fmt"

const articleInstructions = `Write an engaging article about the topic below for a Telegram channel.
Format it with Telegram Markdown only:
- *bold* for headings and key phrases
- _italic_ for emphasis
- ` + "`code`" + ` for technical terms
- [text](url) for links
- emoji where they help the reader
Do not use "---" separators, do not use double asterisks, do not use tables.

Topic: %s`

const imageInstructions = `Describe, in one short paragraph of plain text, a single picture that would illustrate the article below.
Mention the subject, the setting and the visual style. No Markdown, no quotes, no preamble.

Article:
%s`

// ArticlePrompt wraps topic with the formatting rules for channel posts.
func ArticlePrompt(topic string) string {
	return fmt.Sprintf(articleInstructions, topic)
}

// ImagePrompt asks the model to condense article into an image description.
func ImagePrompt(article string) string {
	return fmt.Sprintf(imageInstructions, article)
}
