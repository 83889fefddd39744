package asm

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexError struct {
	msg string
}

func (e *lexError) Error() string { return e.msg }

// splitFields splits a line into words. Single quotes are literal, double
// quotes interpret escapes, and a backslash outside quotes escapes the next
// character.
func splitFields(line string) ([]string, error) {
	var (
		fields  []string
		cur     strings.Builder
		inField bool
	)

	flush := func() {
		if inField {
			fields = append(fields, cur.String())
			cur.Reset()
			inField = false
		}
	}

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == ' ' || c == '\t':
			flush()

		case c == '\'':
			inField = true
			end := strings.IndexByte(line[i+1:], '\'')
			if end < 0 {
				return nil, &lexError{"unterminated single quote"}
			}
			cur.WriteString(line[i+1 : i+1+end])
			i += end + 1

		case c == '"':
			inField = true
			n, err := readDoubleQuoted(line[i+1:], &cur)
			if err != nil {
				return nil, err
			}
			i += n + 1

		case c == '\\':
			inField = true
			if i+1 >= len(line) {
				return nil, &lexError{"trailing backslash"}
			}
			i++
			cur.WriteByte(line[i])

		default:
			inField = true
			cur.WriteByte(c)
		}
	}
	flush()
	return fields, nil
}

// readDoubleQuoted consumes s up to and including the closing quote and
// returns the number of bytes consumed.
func readDoubleQuoted(s string, out *strings.Builder) (int, error) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' {
			return i + 1, nil
		}
		if c != '\\' {
			out.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			break
		}
		i++
		switch s[i] {
		case 'n':
			out.WriteByte('\n')
		case 'r':
			out.WriteByte('\r')
		case 't':
			out.WriteByte('\t')
		case '0':
			out.WriteByte(0)
		case '\\', '"':
			out.WriteByte(s[i])
		case 'x':
			if i+2 >= len(s) {
				return 0, &lexError{"short \\x escape"}
			}
			v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return 0, &lexError{"invalid \\x escape " + strconv.Quote(s[i-1:i+3])}
			}
			out.WriteByte(byte(v))
			i += 2
		default:
			return 0, &lexError{"unknown escape \\" + string(s[i])}
		}
	}
	return 0, &lexError{"unterminated double quote"}
}

// quote renders b as a double-quoted string that readDoubleQuoted turns
// back into exactly b.
func quote(b []byte) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == '"' || c == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c >= 0x20 && c < 0x7f:
			sb.WriteByte(c)
		case c >= 0x80:
			if r, size := decodePrintable(b[i:]); size > 0 {
				sb.WriteRune(r)
				i += size
				continue
			}
			sb.WriteString(`\x`)
			sb.WriteString(hexByte(c))
		default:
			sb.WriteString(`\x`)
			sb.WriteString(hexByte(c))
		}
		i++
	}
	sb.WriteByte('"')
	return sb.String()
}

func hexByte(c byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[c>>4], digits[c&0x0f]})
}

func decodePrintable(b []byte) (rune, int) {
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError || !unicode.IsPrint(r) {
		return 0, 0
	}
	return r, size
}
