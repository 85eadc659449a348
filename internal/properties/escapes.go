package properties

import (
	"errors"
	"strings"
	"unicode/utf16"
)

// ErrMalformedEncoding is returned by Unescape for a broken \uXXXX sequence.
var ErrMalformedEncoding = errors.New("malformed encoding for properties file")

const hexDigits = "0123456789ABCDEF"

// Escape converts s to the form used in .properties files. Whitespace
// control characters, backslashes and characters outside printable ASCII are
// escaped.
func Escape(s string) string {
	var sb strings.Builder

	for _, r := range s {
		switch r {
		case '\t':
			sb.WriteString(`\t`)
		case '\n':
			sb.WriteString(`\n`)
		case '\f':
			sb.WriteString(`\f`)
		case '\r':
			sb.WriteString(`\r`)
		case '\\':
			sb.WriteString(`\\`)
		default:
			if r < 0x20 || (r > 0x7e && r <= 0xa0) || r > 0xff {
				for _, unit := range utf16.Encode([]rune{r}) {
					writeUnicodeEscape(&sb, unit)
				}

				continue
			}

			sb.WriteRune(r)
		}
	}

	return sb.String()
}

func writeUnicodeEscape(sb *strings.Builder, unit uint16) {
	sb.WriteString(`\u`)

	for shift := 12; shift >= 0; shift -= 4 {
		sb.WriteByte(hexDigits[(unit>>shift)&0xF])
	}
}

// Unescape decodes the escapes of a .properties key or value. A trailing
// lone backslash is dropped and unknown escapes stand for the escaped
// character itself.
func Unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}

	var (
		sb    strings.Builder
		units []uint16
	)

	flush := func() {
		if len(units) > 0 {
			sb.WriteString(string(utf16.Decode(units)))
			units = units[:0]
		}
	}

	for i := 0; i < len(s); {
		c := s[i]
		i++

		if c != '\\' {
			flush()
			sb.WriteByte(c)

			continue
		}

		if i >= len(s) {
			break
		}

		c = s[i]
		i++

		if c != 'u' {
			flush()

			switch c {
			case 't':
				sb.WriteByte('\t')
			case 'n':
				sb.WriteByte('\n')
			case 'f':
				sb.WriteByte('\f')
			case 'r':
				sb.WriteByte('\r')
			default:
				sb.WriteByte(c)
			}

			continue
		}

		if i+4 > len(s) {
			return "", ErrMalformedEncoding
		}

		value, ok := hexValue(s[i : i+4])
		if !ok {
			return "", ErrMalformedEncoding
		}

		units = append(units, value)
		i += 4
	}

	flush()

	return sb.String(), nil
}

func hexValue(s string) (uint16, bool) {
	var value uint16

	for i := 0; i < len(s); i++ {
		d := strings.IndexByte(hexDigits, upper(s[i]))
		if d < 0 {
			return 0, false
		}

		value = value<<4 | uint16(d)
	}

	return value, true
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}

	return c
}
