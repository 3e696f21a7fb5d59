package utils

import "strings"

// 数学字母数字符号区段的起点
// http://www.fileformat.info/info/unicode/block/mathematical_alphanumeric_symbols/list.htm
const (
	boldDigitZero   = 0x1D7CE
	boldUpperA      = 0x1D400
	boldLowerA      = 0x1D41A
	italicUpperA    = 0x1D434
	italicLowerA    = 0x1D44E
	italicLowerHAlt = 0x1D629 // U+1D455 为保留码位
)

func boldRune(r rune) rune {
	switch {
	case r >= '0' && r <= '9':
		return boldDigitZero + (r - '0')
	case r >= 'A' && r <= 'Z':
		return boldUpperA + (r - 'A')
	case r >= 'a' && r <= 'z':
		return boldLowerA + (r - 'a')
	}
	return r
}

func italicRune(r rune) rune {
	switch {
	case r == 'h':
		return italicLowerHAlt
	case r >= 'A' && r <= 'Z':
		return italicUpperA + (r - 'A')
	case r >= 'a' && r <= 'z':
		return italicLowerA + (r - 'a')
	}
	return r
}

// Bold 将 ASCII 数字和拉丁字母替换为粗体字形，其他字符保持不变
func Bold(s string) string {
	return strings.Map(boldRune, s)
}

// Italic 将拉丁字母替换为斜体字形，数字、标点和非拉丁文字保持不变
func Italic(s string) string {
	return strings.Map(italicRune, s)
}
