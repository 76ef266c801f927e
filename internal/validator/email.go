package validator

import (
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail は前後空白を落として小文字にする。
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// 簡易メール形式をチェック
func IsEmail(s string) bool {
	return len(s) <= 255 && emailRe.MatchString(s)
}
