package media

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

var dataURLRegex = regexp.MustCompile(`^data:([^;]+);base64,`)

// EncodeDataURL wraps raw bytes into a base64 data URL.
func EncodeDataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// StripDataURLPrefix removes a leading data:<mime>;base64, prefix, returning
// the bare base64 payload. Plain base64 input passes through unchanged.
func StripDataURLPrefix(value string) string {
	if idx := strings.IndexByte(value, ','); idx >= 0 && dataURLRegex.MatchString(value) {
		return value[idx+1:]
	}
	return value
}

// ParseDataURL splits a data URL into its MIME type and decoded bytes.
// fallbackMime is used when the input is bare base64 without a prefix.
func ParseDataURL(value, fallbackMime string) (string, []byte, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil, fmt.Errorf("empty data URL")
	}

	mime := fallbackMime
	if matches := dataURLRegex.FindStringSubmatch(value); len(matches) == 2 {
		mime = matches[1]
	}

	raw, err := base64.StdEncoding.DecodeString(StripDataURLPrefix(value))
	if err != nil {
		return "", nil, fmt.Errorf("decode base64: %w", err)
	}
	return mime, raw, nil
}
