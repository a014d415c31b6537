package xml

import "bytes"

var (
	commentOpen = []byte("<!--")
	cdataOpen   = []byte("<![CDATA[")
)

// normalizeAttrValues replaces literal tab, newline and carriage return
// characters inside attribute values with a space, as an XML processor does
// when it normalizes attribute values. A CR LF pair becomes one space.
// Character references such as &#xA; are left alone and keep their value.
//
// The scan works on bytes, which is sound for every ASCII-compatible
// encoding the decoder accepts.
func normalizeAttrValues(data []byte) []byte {
	if bytes.IndexAny(data, "\t\n\r") < 0 {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); {
		if data[i] != '<' {
			out = append(out, data[i])
			i++
			continue
		}

		rest := data[i:]
		var n int
		switch {
		case bytes.HasPrefix(rest, commentOpen):
			n = skipPast(rest, len(commentOpen), "-->")
		case bytes.HasPrefix(rest, cdataOpen):
			n = skipPast(rest, len(cdataOpen), "]]>")
		case bytes.HasPrefix(rest, []byte("<?")):
			n = skipPast(rest, 2, "?>")
		case bytes.HasPrefix(rest, []byte("<!")):
			n = skipDirective(rest)
		case bytes.HasPrefix(rest, []byte("</")):
			n = skipPast(rest, 2, ">")
		default:
			out, n = appendStartTag(out, rest)
			i += n
			continue
		}
		out = append(out, rest[:n]...)
		i += n
	}
	return out
}

// skipPast returns the length of src up to and including the first marker
// found at or after offset, or len(src) if there is none.
func skipPast(src []byte, offset int, marker string) int {
	if offset > len(src) {
		return len(src)
	}
	at := bytes.Index(src[offset:], []byte(marker))
	if at < 0 {
		return len(src)
	}
	return offset + at + len(marker)
}

// skipDirective returns the length of a <!...> directive, stepping over
// quoted strings and a bracketed internal subset.
func skipDirective(src []byte) int {
	var quote byte
	depth := 0
	for i := 2; i < len(src); i++ {
		c := src[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[':
			depth++
		case c == ']':
			depth--
		case c == '>' && depth <= 0:
			return i + 1
		}
	}
	return len(src)
}

// appendStartTag copies one start tag from src to dst with the attribute
// values normalized and returns the number of bytes consumed.
func appendStartTag(dst, src []byte) ([]byte, int) {
	var quote byte
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case quote == 0 && c == '>':
			return append(dst, c), i + 1
		case quote == 0 && (c == '"' || c == '\''):
			quote = c
		case quote != 0 && c == quote:
			quote = 0
		case quote != 0 && c == '\r':
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
			}
			c = ' '
		case quote != 0 && (c == '\t' || c == '\n'):
			c = ' '
		}
		dst = append(dst, c)
	}
	return dst, len(src)
}
