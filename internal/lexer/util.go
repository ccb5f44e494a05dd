package lexer

import (
	"unicode"
)

func isIdentStart(r rune) bool {
	if r < 0x80 {
		return r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
	}
	return unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	if r < 0x80 {
		return isIdentStart(r) || isDec(r)
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\v' || r == '\f'
}

func isDec(r rune) bool { return r >= '0' && r <= '9' }

func isHex(r rune) bool {
	return isDec(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isOct(r rune) bool { return r >= '0' && r <= '7' }

func isBin(r rune) bool { return r == '0' || r == '1' }
