package dmlrt

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const textKey = "#text"

// XMLReader reads the repeating RecordElement elements of a document, or the
// children of the root when RecordElement is empty. Attributes become
// "@name" keys, repeated children become lists and leaf elements strings.
type XMLReader struct {
	RecordElement string
	Namespace     string
}

type xmlNode struct {
	name     xml.Name
	attrs    []xml.Attr
	children []*xmlNode
	text     strings.Builder
}

func (x XMLReader) Read(_ context.Context, location string) ([]*Record, error) {
	f, err := os.Open(location)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %v", location)
	}
	defer f.Close()

	root, err := decodeXML(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %v", location)
	}

	var nodes []*xmlNode
	if x.RecordElement == "" {
		nodes = root.children
	} else {
		nodes = x.find(root, nil)
	}

	records := make([]*Record, 0, len(nodes))
	for _, n := range nodes {
		records = append(records, nodeRecord(n))
	}

	return records, nil
}

// find collects matching elements in document order without descending into
// a match.
func (x XMLReader) find(n *xmlNode, acc []*xmlNode) []*xmlNode {
	for _, child := range n.children {
		if child.name.Local == x.RecordElement && (x.Namespace == "" || child.name.Space == x.Namespace) {
			acc = append(acc, child)
			continue
		}

		acc = x.find(child, acc)
	}

	return acc
}

func decodeXML(r io.Reader) (*xmlNode, error) {
	dec := xml.NewDecoder(r)

	var (
		root  *xmlNode
		stack []*xmlNode
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &xmlNode{name: t.Name, attrs: t.Attr}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			} else if root == nil {
				root = n
			}

			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, errors.New("document has no root element")
	}

	return root, nil
}

func nodeRecord(n *xmlNode) *Record {
	rec := NewRecord()

	for _, a := range n.attrs {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}

		rec.Set("@"+a.Name.Local, a.Value)
	}

	for _, child := range n.children {
		v := nodeValue(child)

		existing, ok := rec.Get(child.name.Local)
		if !ok {
			rec.Set(child.name.Local, v)
			continue
		}

		if list, isList := existing.([]any); isList {
			rec.Set(child.name.Local, append(list, v))
		} else {
			rec.Set(child.name.Local, []any{existing, v})
		}
	}

	if text := strings.TrimSpace(n.text.String()); text != "" {
		rec.Set(textKey, text)
	}

	return rec
}

func nodeValue(n *xmlNode) any {
	if len(n.attrs) == 0 && len(n.children) == 0 {
		return strings.TrimSpace(n.text.String())
	}

	return nodeRecord(n)
}

// XMLWriter writes RootElement wrapping one RecordElement per record.
type XMLWriter struct {
	RootElement   string
	RecordElement string
	Namespace     string
}

func (x XMLWriter) Write(_ context.Context, location string, records []*Record) error {
	var buf bytes.Buffer

	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	root := xml.StartElement{Name: xml.Name{Local: orDefault(x.RootElement, "Root")}}
	if x.Namespace != "" {
		root.Attr = append(root.Attr, xml.Attr{Name: xml.Name{Local: "xmlns"}, Value: x.Namespace})
	}

	if err := enc.EncodeToken(root); err != nil {
		return errors.Wrap(err, "failed to encode xml")
	}

	item := orDefault(x.RecordElement, "Item")
	for _, rec := range records {
		if err := encodeXMLValue(enc, item, rec); err != nil {
			return errors.Wrap(err, "failed to encode xml")
		}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return errors.Wrap(err, "failed to encode xml")
	}

	if err := enc.Flush(); err != nil {
		return errors.Wrap(err, "failed to encode xml")
	}

	buf.WriteByte('\n')

	return writeFile(location, buf.Bytes())
}

func encodeXMLValue(enc *xml.Encoder, name string, v any) error {
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if err := encodeXMLValue(enc, name, item); err != nil {
				return err
			}
		}

		return nil
	case *Record:
		return encodeXMLRecord(enc, name, val)
	}

	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	if v != nil {
		if err := enc.EncodeToken(xml.CharData(FormatValue(v))); err != nil {
			return err
		}
	}

	return enc.EncodeToken(start.End())
}

func encodeXMLRecord(enc *xml.Encoder, name string, rec *Record) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}

	for _, k := range rec.Keys() {
		if attr, ok := strings.CutPrefix(k, "@"); ok {
			v, _ := rec.Get(k)
			start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: attr}, Value: FormatValue(v)})
		}
	}

	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	for _, k := range rec.Keys() {
		v, _ := rec.Get(k)

		switch {
		case strings.HasPrefix(k, "@"):
			continue
		case k == textKey:
			if err := enc.EncodeToken(xml.CharData(FormatValue(v))); err != nil {
				return err
			}
		default:
			if err := encodeXMLValue(enc, k, v); err != nil {
				return err
			}
		}
	}

	return enc.EncodeToken(start.End())
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}

	return s
}
