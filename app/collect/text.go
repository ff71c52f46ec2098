package collect

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Tr: true, atom.Section: true,
	atom.Article: true, atom.Blockquote: true,
}

// PlainText renders an HTML fragment as a single line of text. Script and
// style contents are dropped. Input without markup comes back trimmed.
func PlainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}

	var sb strings.Builder
	for _, n := range nodes {
		writeText(&sb, n)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func writeText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(sb, c)
	}

	if n.Type == html.ElementNode && blockElements[n.DataAtom] {
		sb.WriteByte(' ')
	}
}
