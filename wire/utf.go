package wire

import (
	"fmt"
	"unicode/utf16"
)

// Modified UTF-8 as written by Java's DataOutput.writeUTF: text is handled as
// UTF-16 code units, NUL takes two bytes and supplementary characters are
// written as two three-byte surrogates.

func forEachUnit(s string, fn func(u uint16)) {
	for _, r := range s {
		if r > 0xFFFF {
			r1, r2 := utf16.EncodeRune(r)
			fn(uint16(r1))
			fn(uint16(r2))
			continue
		}
		fn(uint16(r))
	}
}

func unitLength(u uint16) int {
	switch {
	case u >= 0x0001 && u <= 0x007F:
		return 1
	case u <= 0x07FF:
		return 2
	default:
		return 3
	}
}

// UTFLength returns the encoded length of s in modified UTF-8.
func UTFLength(s string) int {
	n := 0
	forEachUnit(s, func(u uint16) { n += unitLength(u) })
	return n
}

// IsASCII reports whether every byte of s is in 0x01..0x7F, i.e. whether the
// modified UTF-8 form equals the raw bytes.
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 || s[i] > 0x7F {
			return false
		}
	}
	return true
}

func AppendModifiedUTF8(dst []byte, s string) []byte {
	forEachUnit(s, func(u uint16) {
		switch unitLength(u) {
		case 1:
			dst = append(dst, byte(u))
		case 2:
			dst = append(dst, 0xC0|byte(u>>6&0x1F), 0x80|byte(u&0x3F))
		default:
			dst = append(dst, 0xE0|byte(u>>12&0x0F), 0x80|byte(u>>6&0x3F), 0x80|byte(u&0x3F))
		}
	})
	return dst
}

func DecodeModifiedUTF8(p []byte) (string, error) {
	units := make([]uint16, 0, len(p))
	for i := 0; i < len(p); {
		c := p[i]
		switch c >> 4 {
		case 0, 1, 2, 3, 4, 5, 6, 7:
			units = append(units, uint16(c))
			i++
		case 12, 13:
			if i+2 > len(p) || p[i+1]&0xC0 != 0x80 {
				return "", fmt.Errorf("%w: bad modified UTF-8 at offset %d", ErrMalformed, i)
			}
			units = append(units, uint16(c&0x1F)<<6|uint16(p[i+1]&0x3F))
			i += 2
		case 14:
			if i+3 > len(p) || p[i+1]&0xC0 != 0x80 || p[i+2]&0xC0 != 0x80 {
				return "", fmt.Errorf("%w: bad modified UTF-8 at offset %d", ErrMalformed, i)
			}
			units = append(units, uint16(c&0x0F)<<12|uint16(p[i+1]&0x3F)<<6|uint16(p[i+2]&0x3F))
			i += 3
		default:
			return "", fmt.Errorf("%w: bad modified UTF-8 at offset %d", ErrMalformed, i)
		}
	}
	return string(utf16.Decode(units)), nil
}
