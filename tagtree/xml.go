package tagtree

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// kindElement maps a Kind to the intermediate XML element name the
// external nbt-to-xml/nbt-from-xml helper uses.
func kindElement(k Kind) string {
	switch k {
	case KindByte:
		return "byte"
	case KindShort:
		return "short"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindByteArray:
		return "byteArray"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindCompound:
		return "compound"
	default:
		return ""
	}
}

func elementKind(name string) (Kind, bool) {
	switch name {
	case "byte":
		return KindByte, true
	case "short":
		return KindShort, true
	case "int":
		return KindInt, true
	case "long":
		return KindLong, true
	case "float":
		return KindFloat, true
	case "double":
		return KindDouble, true
	case "byteArray":
		return KindByteArray, true
	case "string":
		return KindString, true
	case "list":
		return KindList, true
	case "compound":
		return KindCompound, true
	default:
		return 0, false
	}
}

// WriteXML serializes root as the intermediate XML this engine exchanges
// with the external nbt-from-xml helper.
func WriteXML(w io.Writer, root *Tag) error {
	enc := xml.NewEncoder(w)
	if err := writeTag(enc, root); err != nil {
		return err
	}
	return enc.Flush()
}

func writeTag(enc *xml.Encoder, t *Tag) error {
	name := kindElement(t.Kind)
	if name == "" {
		return &StructuralError{Msg: fmt.Sprintf("cannot serialize tag kind %d", t.Kind)}
	}
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if t.Kind == KindList {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Local: "subtype"},
			Value: strconv.Itoa(int(t.ElemKind)),
		})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	switch t.Kind {
	case KindByte:
		if err := enc.EncodeToken(xml.CharData(strconv.FormatInt(int64(t.Byte), 10))); err != nil {
			return err
		}
	case KindShort:
		if err := enc.EncodeToken(xml.CharData(strconv.FormatInt(int64(t.Short), 10))); err != nil {
			return err
		}
	case KindInt:
		if err := enc.EncodeToken(xml.CharData(strconv.FormatInt(int64(t.Int), 10))); err != nil {
			return err
		}
	case KindLong:
		if err := enc.EncodeToken(xml.CharData(strconv.FormatInt(t.Long, 10))); err != nil {
			return err
		}
	case KindFloat:
		if err := enc.EncodeToken(xml.CharData(strconv.FormatFloat(float64(t.Float32), 'g', -1, 32))); err != nil {
			return err
		}
	case KindDouble:
		if err := enc.EncodeToken(xml.CharData(strconv.FormatFloat(t.Float64, 'g', -1, 64))); err != nil {
			return err
		}
	case KindString:
		if err := enc.EncodeToken(xml.CharData(t.Str)); err != nil {
			return err
		}
	case KindByteArray:
		if err := enc.EncodeToken(xml.CharData(strings.ToUpper(hexEncode(t.Bytes)))); err != nil {
			return err
		}
	case KindList:
		for _, item := range t.Items {
			if err := writeTag(enc, item); err != nil {
				return err
			}
		}
	case KindCompound:
		for _, slot := range t.Slots {
			namedStart := xml.StartElement{
				Name: xml.Name{Local: "named"},
				Attr: []xml.Attr{{Name: xml.Name{Local: "name"}, Value: slot.Name}},
			}
			if err := enc.EncodeToken(namedStart); err != nil {
				return err
			}
			if err := writeTag(enc, slot.Value); err != nil {
				return err
			}
			if err := enc.EncodeToken(xml.EndElement{Name: namedStart.Name}); err != nil {
				return err
			}
		}
	}

	return enc.EncodeToken(xml.EndElement{Name: start.Name})
}

// ReadXML parses the intermediate XML produced by the external
// nbt-to-xml helper into a Tag tree.
func ReadXML(r io.Reader) (*Tag, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return readTag(dec, start)
		}
	}
}

func readTag(dec *xml.Decoder, start xml.StartElement) (*Tag, error) {
	kind, ok := elementKind(start.Name.Local)
	if !ok {
		return nil, &StructuralError{Msg: fmt.Sprintf("unknown tag element %q", start.Name.Local)}
	}

	t := &Tag{Kind: kind}
	if kind == KindList {
		for _, a := range start.Attr {
			if a.Name.Local == "subtype" {
				n, err := strconv.Atoi(a.Value)
				if err != nil {
					return nil, err
				}
				t.ElemKind = Kind(n)
			}
		}
	}

	var text strings.Builder
	var pendingName string

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch tt := tok.(type) {
		case xml.CharData:
			text.Write(tt)
		case xml.StartElement:
			switch kind {
			case KindList:
				child, err := readTag(dec, tt)
				if err != nil {
					return nil, err
				}
				t.Items = append(t.Items, child)
			case KindCompound:
				if tt.Name.Local != "named" {
					return nil, &StructuralError{Msg: fmt.Sprintf("expected named wrapper inside compound, got %q", tt.Name.Local)}
				}
				pendingName = ""
				for _, a := range tt.Attr {
					if a.Name.Local == "name" {
						pendingName = a.Value
					}
				}
				// Consume the single child element inside <named>.
				var child *Tag
				for {
					inner, err := dec.Token()
					if err != nil {
						return nil, err
					}
					if innerStart, ok := inner.(xml.StartElement); ok {
						child, err = readTag(dec, innerStart)
						if err != nil {
							return nil, err
						}
						continue
					}
					if end, ok := inner.(xml.EndElement); ok && end.Name.Local == "named" {
						break
					}
				}
				t.Slots = append(t.Slots, NamedSlot{Name: pendingName, Value: child})
			default:
				return nil, &StructuralError{Msg: fmt.Sprintf("unexpected child element inside scalar tag %q", start.Name.Local)}
			}
		case xml.EndElement:
			if tt.Name.Local == start.Name.Local {
				if err := finishScalar(t, text.String()); err != nil {
					return nil, err
				}
				return t, nil
			}
		}
	}
}

func finishScalar(t *Tag, raw string) error {
	switch t.Kind {
	case KindByte:
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 8)
		if err != nil {
			return err
		}
		t.Byte = int8(v)
	case KindShort:
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 16)
		if err != nil {
			return err
		}
		t.Short = int16(v)
	case KindInt:
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
		if err != nil {
			return err
		}
		t.Int = int32(v)
	case KindLong:
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return err
		}
		t.Long = v
	case KindFloat:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 32)
		if err != nil {
			return err
		}
		t.Float32 = float32(v)
	case KindDouble:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return err
		}
		t.Float64 = v
	case KindString:
		t.Str = raw
	case KindByteArray:
		b, err := hexDecode(stripWhitespace(raw))
		if err != nil {
			return err
		}
		t.Bytes = b
	}
	return nil
}

func stripWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const hexDigits = "0123456789ABCDEF"

func hexEncode(b []byte) string {
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hexDigits[v>>4]
		out[i*2+1] = hexDigits[v&0x0F]
	}
	return string(out)
}

func hexDecode(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, &StructuralError{Msg: "byteArray hex text has odd length"}
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		hi, err := hexNibble(s[i*2])
		if err != nil {
			return nil, err
		}
		lo, err := hexNibble(s[i*2+1])
		if err != nil {
			return nil, err
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexNibble(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	default:
		return 0, &StructuralError{Msg: fmt.Sprintf("invalid hex digit %q", c)}
	}
}
