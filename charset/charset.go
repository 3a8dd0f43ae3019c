// Package charset maintains the set of characters accepted for writing
// samples: the GB2312 level-1 han characters plus the usual CJK
// punctuation.
package charset

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
)

// Punctuation is accepted in addition to the han characters so works
// can be fully rendered from samples.
var Punctuation = []rune{
	'，', '。', '、', '；', '：', '？', '！', '“', '”', '‘', '’',
	'（', '）', '【', '】', '《', '》', '—', '…', '·',
}

var allowed = buildAllowed()

// buildAllowed decodes the GB2312 level-1 block: high bytes 0xB0-0xD7,
// low bytes 0xA1-0xFE, minus the five undefined codes D7FA-D7FE. GB2312
// is a strict subset of GBK, so the GBK decoder covers it.
func buildAllowed() map[rune]struct{} {
	set := make(map[rune]struct{}, 4096)
	for _, r := range Punctuation {
		set[r] = struct{}{}
	}

	decoder := simplifiedchinese.GBK.NewDecoder()
	for high := 0xB0; high <= 0xD7; high++ {
		for low := 0xA1; low <= 0xFE; low++ {
			if high == 0xD7 && low > 0xF9 {
				continue
			}

			decoded, err := decoder.Bytes([]byte{byte(high), byte(low)})
			if err != nil {
				continue
			}

			r, size := utf8.DecodeRune(decoded)
			if r == utf8.RuneError || size != len(decoded) {
				continue
			}
			set[r] = struct{}{}
		}
	}

	return set
}

// Allowed reports whether char is a single grapheme from the allowed
// writing set.
func Allowed(char string) bool {
	r, size := utf8.DecodeRuneInString(char)
	if r == utf8.RuneError || size != len(char) {
		return false
	}

	_, ok := allowed[r]
	return ok
}

// Size returns the number of characters in the allowed set.
func Size() int {
	return len(allowed)
}

// All returns every allowed character. The order is unspecified.
func All() []string {
	chars := make([]string, 0, len(allowed))
	for r := range allowed {
		chars = append(chars, string(r))
	}
	return chars
}
