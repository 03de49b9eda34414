package config

import "fmt"

const (
	errRequiredEnvNotSetFmt = "required environment variable %s is not set"
	errRequiredForSourceFmt = "%s must be set when %s=%s"
	errTrustedOriginFmt     = "%s entry %q must be an http(s) origin such as https://portal.example.com"
)

type messageBuilders struct {
	requiredEnvNotSet    func(key string) string
	requiredForSource    func(keys, source string) string
	invalidTrustedOrigin func(origin string) string
}

func newMessageBuilders() messageBuilders {
	return messageBuilders{
		requiredEnvNotSet: func(key string) string {
			return fmt.Sprintf(errRequiredEnvNotSetFmt, key)
		},
		requiredForSource: func(keys, source string) string {
			return fmt.Sprintf(errRequiredForSourceFmt, keys, envGrantsSource, source)
		},
		invalidTrustedOrigin: func(origin string) string {
			return fmt.Sprintf(errTrustedOriginFmt, envTrustedOrigins, origin)
		},
	}
}

var messages = newMessageBuilders()
