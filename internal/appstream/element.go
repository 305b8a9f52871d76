package appstream

import (
	"encoding/xml"
	"strings"
)

// Element is a generic XML node. A component entry is decoded into this tree
// once at parse time and kept intact so it can be rewritten and serialized
// back without losing metadata the mapper does not model.
type Element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []*Element `xml:",any"`
}

// Attr returns the value of the named attribute, or "" if absent.
func (e *Element) Attr(name string) string {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// SetAttr replaces the named attribute or appends it if absent.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.Attrs {
		if a.Name.Local == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

// Child returns the first direct child with the given element name.
func (e *Element) Child(name string) *Element {
	for _, c := range e.Children {
		if c.XMLName.Local == name {
			return c
		}
	}
	return nil
}

// ChildText returns the trimmed text of the first direct child with the given
// name, or "" if the child is absent.
func (e *Element) ChildText(name string) string {
	if c := e.Child(name); c != nil {
		return strings.TrimSpace(c.Text)
	}
	return ""
}

// ChildrenNamed returns all direct children with the given element name, in
// document order.
func (e *Element) ChildrenNamed(name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.XMLName.Local == name {
			out = append(out, c)
		}
	}
	return out
}

// FindAll returns all descendants with the given element name, in document
// order.
func (e *Element) FindAll(name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.XMLName.Local == name {
			out = append(out, c)
		}
		out = append(out, c.FindAll(name)...)
	}
	return out
}

// AddChild appends a new empty child element and returns it.
func (e *Element) AddChild(name string) *Element {
	c := &Element{XMLName: xml.Name{Local: name}}
	e.Children = append(e.Children, c)
	return c
}

// AllText concatenates the text of this element and all descendants.
func (e *Element) AllText() string {
	var b strings.Builder
	e.appendText(&b)
	return b.String()
}

func (e *Element) appendText(b *strings.Builder) {
	b.WriteString(e.Text)
	for _, c := range e.Children {
		c.appendText(b)
	}
}

// Clone returns a deep copy so a rewrite never mutates the parsed original.
func (e *Element) Clone() *Element {
	out := &Element{
		XMLName: e.XMLName,
		Text:    e.Text,
	}
	if len(e.Attrs) > 0 {
		out.Attrs = make([]xml.Attr, len(e.Attrs))
		copy(out.Attrs, e.Attrs)
	}
	for _, c := range e.Children {
		out.Children = append(out.Children, c.Clone())
	}
	return out
}

// compactWhitespace drops indentation-only character data from container
// elements so re-serialized documents do not accumulate stray whitespace.
func (e *Element) compactWhitespace() {
	if len(e.Children) > 0 && strings.TrimSpace(e.Text) == "" {
		e.Text = ""
	}
	for _, c := range e.Children {
		c.compactWhitespace()
	}
}
