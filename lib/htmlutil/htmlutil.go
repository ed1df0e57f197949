package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// non-printable runes become spaces so words separated only by a
// newline or tab don't fuse together
func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		} else {
			newStr.WriteRune(' ')
		}
	}
	return newStr.String()
}

func cleanChunk(s string) string {
	s = removeNonPrintable(s)
	s = strings.Trim(s, " \t\n")
	s = innerWhitespace.ReplaceAllString(s, " ")
	return s
}

// TextChunks returns every non-empty text node under the selection,
// cleaned and in document order. Splitting text on element boundaries
// like this keeps loosely formatted markup (a title followed by a
// location line, etc...) addressable line by line.
func TextChunks(sel *goquery.Selection) []string {
	var chunks []string
	for _, n := range sel.Nodes {
		textChunksRecursive(n, &chunks)
	}
	return chunks
}

func textChunksRecursive(node *html.Node, chunks *[]string) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		c := cleanChunk(node.Data)
		if c != "" {
			*chunks = append(*chunks, c)
		}
		return
	}
	child := node.FirstChild
	for child != nil {
		textChunksRecursive(child, chunks)
		child = child.NextSibling
	}
}

// JoinedText is TextChunks joined with a separator, the equivalent of
// reading the selection's visible text with an explicit delimiter
// between nodes.
func JoinedText(sel *goquery.Selection, sep string) string {
	return strings.Join(TextChunks(sel), sep)
}

type Anchor struct {
	Name string
	Href string
}

// FirstAnchor returns the first <a href> under the selection.
func FirstAnchor(sel *goquery.Selection) (Anchor, bool) {
	a := sel.Find("a[href]").First()
	if a.Length() == 0 {
		return Anchor{}, false
	}
	return Anchor{
		Name: cleanChunk(a.Text()),
		Href: strings.TrimSpace(a.AttrOr("href", "")),
	}, true
}
