package parser

import (
	"bufio"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// blockSelector lists the tags whose text is kept, in document order.
const blockSelector = "h1,h2,h3,h4,h5,h6,p,li,th,td,pre,blockquote"

type Parser struct{}

// ExtractText uses go-readability to find the main article content of a page
// and returns its readable text, one block per line. When readability finds
// nothing usable the whole document body is used instead.
func (p *Parser) ExtractText(rawURL, html string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %w", err)
	}

	readabilityParser := readability.NewParser()
	article, err := readabilityParser.Parse(strings.NewReader(html), parsedURL)
	if err == nil && strings.TrimSpace(article.Content) != "" {
		text, err := blocksText(article.Content)
		if err != nil {
			return "", err
		}
		if title := normalizeText(article.Title); title != "" && !strings.HasPrefix(text, title) {
			text = title + "\n" + text
		}
		if text != "" {
			return text, nil
		}
	}

	return bodyText(html)
}

// blocksText joins the text of every content block in the fragment.
func blocksText(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var lines []string
	doc.Find(blockSelector).Each(func(i int, s *goquery.Selection) {
		// Nested blocks (li > p) would otherwise be counted twice.
		if s.ParentsFiltered(blockSelector).Length() > 0 {
			return
		}
		if text := normalizeText(s.Text()); text != "" {
			lines = append(lines, text)
		}
	})

	return strings.Join(lines, "\n"), nil
}

// bodyText returns all visible body text, without scripts or styles.
func bodyText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script,style,noscript,template").Remove()
	return normalizeText(doc.Find("body").Text()), nil
}

// normalizeText cleans up a string by trimming space and removing excess newlines.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}
