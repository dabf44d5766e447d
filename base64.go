package pcmwav

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeBase64 decodes standard-alphabet base64. Trailing padding is optional,
// but when present it has to be complete and correct.
func DecodeBase64(s string) ([]byte, error) {
	enc := base64.RawStdEncoding
	if strings.HasSuffix(strings.TrimRight(s, "\r\n"), "=") {
		enc = base64.StdEncoding
	}

	b, err := enc.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return b, nil
}
