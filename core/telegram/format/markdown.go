package format

import (
	"fmt"
	"regexp"
)

const (
	// MarkdownV1 denotes Telegram markdown version 1.
	MarkdownV1 = 1
	// MarkdownV2 denotes Telegram markdown version 2.
	MarkdownV2 = 2
)

// mdV2Specials lacks "-", which is appended escaped so it cannot form a range.
const mdV2Specials = "_*[]()~`>#+=|{}.!\\"

var (
	mdV1Rx = regexp.MustCompile("([_*`\\[])")
	mdV2Rx = regexp.MustCompile("([" + regexp.QuoteMeta(mdV2Specials) + `\-` + "])")
)

// EscapeMarkdown escapes special characters for MarkdownV1 or V2.
func EscapeMarkdown(text string, version int) (string, error) {
	switch version {
	case MarkdownV1:
		return mdV1Rx.ReplaceAllString(text, `\$1`), nil
	case MarkdownV2:
		return mdV2Rx.ReplaceAllString(text, `\$1`), nil
	}
	return "", fmt.Errorf("unsupported markdown version: %d", version)
}

// MD escapes text for MarkdownV1, the parse mode used for bot replies.
func MD(text string) string {
	return mdV1Rx.ReplaceAllString(text, `\$1`)
}
