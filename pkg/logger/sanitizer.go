package logger

import (
	"regexp"
	"strings"
)

// Sensitive field patterns to filter from logs
var (
	tokenPattern   = regexp.MustCompile(`(?i)(access_token|refresh_token|token|jwt|bearer)([\s:=]+)[^\s&;,]+`)
	cookiePattern  = regexp.MustCompile(`(?i)(cookie)([\s:=]+)[^\n]+`)
	apiKeyPattern  = regexp.MustCompile(`(?i)(api[_-]?key|apikey)([\s:=]+)[^\s&;,]+`)
	secretPattern  = regexp.MustCompile(`(?i)(secret|password|private[_-]?key)([\s:=]+)[^\s&;,]+`)
	redisURLSecret = regexp.MustCompile(`(redis|rediss|postgres|postgresql)://([^:/@]*):[^@]+@`)
)

const redactedPlaceholder = "[REDACTED]"

var sensitiveKeys = []string{
	"password", "passwd", "pwd",
	"token", "jwt", "bearer", "cookie", "authorization",
	"api_key", "apikey", "api-key",
	"secret", "private_key", "private-key",
}

// SanitizeLogMessage removes sensitive information from log messages
func SanitizeLogMessage(message string) string {
	message = tokenPattern.ReplaceAllString(message, "${1}${2}"+redactedPlaceholder)
	message = cookiePattern.ReplaceAllString(message, "${1}${2}"+redactedPlaceholder)
	message = apiKeyPattern.ReplaceAllString(message, "${1}${2}"+redactedPlaceholder)
	message = secretPattern.ReplaceAllString(message, "${1}${2}"+redactedPlaceholder)
	message = redisURLSecret.ReplaceAllString(message, "${1}://${2}:"+redactedPlaceholder+"@")
	return message
}

// SanitizeMap removes sensitive keys from a map
func SanitizeMap(data map[string]any) map[string]any {
	sanitized := make(map[string]any, len(data))
	for k, v := range data {
		if isSensitiveKey(k) {
			sanitized[k] = redactedPlaceholder
			continue
		}
		if s, ok := v.(string); ok {
			sanitized[k] = SanitizeLogMessage(s)
			continue
		}
		sanitized[k] = v
	}
	return sanitized
}

func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitiveKey := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitiveKey) {
			return true
		}
	}
	return false
}
