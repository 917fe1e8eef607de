package dom

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNilReader is returned when Parse receives no input.
var ErrNilReader = errors.New("dom: reader is nil")

// Parse reads an HTML document and snapshots its forms and input-like
// elements. Elements are attached to the form they descend from; the HTML5
// `form` attribute is not consulted.
func Parse(r io.Reader) (*Document, error) {
	if r == nil {
		return nil, ErrNilReader
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse html: %w", err)
	}
	doc := NewDocument()
	walk(doc, root, nil)
	return doc, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// ParseFile parses the HTML document stored at path.
func ParseFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dom: open %s: %w", path, err)
	}
	defer file.Close()

	doc, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("dom: %s: %w", path, err)
	}
	return doc, nil
}

func walk(doc *Document, n *html.Node, current *Form) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Form:
			// Nested forms are dropped by the HTML parser, but guard anyway.
			if current == nil {
				current = doc.AddForm(attr(n, "id"))
				current.Name = attr(n, "name")
				current.Action = attr(n, "action")
				current.Method = strings.ToLower(attr(n, "method"))
			}
		case atom.Input, atom.Textarea:
			add(doc, current, elementFrom(n))
			return
		case atom.Select:
			el := elementFrom(n)
			el.Options = collectOptions(n)
			add(doc, current, el)
			return
		case atom.Template:
			return
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walk(doc, child, current)
	}
}

func add(doc *Document, form *Form, el *Element) {
	if form != nil {
		form.Add(el)
		return
	}
	doc.Add(el)
}

func elementFrom(n *html.Node) *Element {
	name, hasName := lookup(n, "name")
	typ, hasType := lookup(n, "type")
	_, checked := lookup(n, "checked")
	_, multiple := lookup(n, "multiple")
	_, disabled := lookup(n, "disabled")
	return &Element{
		Tag:      n.Data,
		Type:     strings.ToLower(strings.TrimSpace(typ)),
		HasType:  hasType,
		Name:     name,
		HasName:  hasName,
		Checked:  checked,
		Multiple: multiple,
		Disabled: disabled,
	}
}

func collectOptions(n *html.Node) []Option {
	var out []Option
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.ElementNode {
				continue
			}
			switch child.DataAtom {
			case atom.Optgroup:
				visit(child)
			case atom.Option:
				text := collapseSpace(textContent(child))
				value, ok := lookup(child, "value")
				if !ok {
					value = text
				}
				label, ok := lookup(child, "label")
				if !ok {
					label = text
				}
				_, selected := lookup(child, "selected")
				out = append(out, Option{Value: value, Label: label, Selected: selected})
			}
		}
	}
	visit(n)
	return out
}

func lookup(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func attr(n *html.Node, key string) string {
	val, _ := lookup(n, key)
	return strings.TrimSpace(val)
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(n)
	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
