package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// LocaleEnUS 英文
	LocaleEnUS = "en-US"
	// LocaleZhCN 简体中文
	LocaleZhCN = "zh-CN"
	// DefaultLocale 默认语言
	DefaultLocale = LocaleEnUS
)

// SupportedLocales 支持的语言列表
func SupportedLocales() []string {
	return []string{LocaleEnUS, LocaleZhCN}
}

// ResolveLocale 解析请求语言：query lang > X-Locale > Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	candidates := []string{
		c.Query("lang"),
		c.GetHeader("X-Locale"),
	}
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		tag := strings.TrimSpace(part)
		if idx := strings.Index(tag, ";"); idx >= 0 {
			tag = tag[:idx]
		}
		candidates = append(candidates, tag)
	}
	for _, candidate := range candidates {
		if locale, ok := NormalizeLocale(candidate); ok {
			return locale
		}
	}
	return DefaultLocale
}

// NormalizeLocale 归一化语言标识
func NormalizeLocale(raw string) (string, bool) {
	value := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), "_", "-"))
	switch {
	case value == "":
		return "", false
	case value == "zh" || strings.HasPrefix(value, "zh-cn") || strings.HasPrefix(value, "zh-hans"):
		return LocaleZhCN, true
	case value == "en" || strings.HasPrefix(value, "en-"):
		return LocaleEnUS, true
	}
	return "", false
}

// T 翻译文案，缺失时回退默认语言，仍缺失时返回 key
func T(locale, key string) string {
	if table, ok := messages[locale]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译带参数的文案
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
