package collect

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/url"

	"codeberg.org/readeck/go-readability"
)

// DescriptionExtractor pulls the main text out of an event's landing page.
type DescriptionExtractor struct{}

func NewDescriptionExtractor() *DescriptionExtractor {
	return &DescriptionExtractor{}
}

func (e *DescriptionExtractor) Run(data []byte, pageURL string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	var base *url.URL
	if pageURL != "" {
		parsed, err := url.Parse(pageURL)
		if err != nil {
			return "", fmt.Errorf("invalid page URL %q: %w", pageURL, err)
		}
		base = parsed
	}

	article, err := readability.FromReader(bytes.NewReader(data), base)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	text := PlainText(article.Content)
	if text == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	slog.Debug("Description extracted successfully",
		"title", article.Title,
		"content_length", len(text))

	return text, nil
}
