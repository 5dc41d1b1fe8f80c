// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package content derives display text from the HTML of feed entries.

Entry HTML is sanitised by the backend before it is stored; nothing here
makes markup safe to render.
*/
package content

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// DefaultExcerptLength is the number of characters kept by Excerpt callers
// that have no preference.
const DefaultExcerptLength = 200

// PlainText returns the text of an HTML fragment, such as an entry title,
// with entities decoded and whitespace collapsed.
func PlainText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))

	var b strings.Builder

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF, or malformed input: keep what was read
			return collapseSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); blockElements[string(name)] {
				b.WriteByte(' ')
			}
		}
	}
}

// Excerpt returns at most maxLen characters of the text of body. Cut text
// ends with an ellipsis.
func Excerpt(body string, maxLen int) string {
	doc, err := parse(body)
	if err != nil {
		return ""
	}

	doc.Find("script, style").Remove()

	var b strings.Builder
	for _, n := range doc.Nodes {
		writeText(&b, n)
	}

	return truncate(collapseSpace(b.String()), maxLen)
}

// FirstImage returns the src of the first image in body, or "".
func FirstImage(body string) string {
	doc, err := parse(body)
	if err != nil {
		return ""
	}

	src, _ := doc.Find("img[src]").First().Attr("src")

	return strings.TrimSpace(src)
}

// blockElements separate the words around them.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "br": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true, "figure": true,
	"footer": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "ol": true, "p": true, "pre": true,
	"section": true, "table": true, "td": true, "th": true, "tr": true, "ul": true,
}

func writeText(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)

		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}

	if n.Type == html.ElementNode && blockElements[n.Data] {
		b.WriteByte(' ')
	}
}

func parse(body string) (*goquery.Document, error) {
	node, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	return goquery.NewDocumentFromNode(node), nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}

	runes := []rune(s)
	cut := strings.TrimRightFunc(string(runes[:maxLen]), func(r rune) bool { return r == ' ' })

	return cut + "…"
}
