package randutil

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// TokenURLSafe 生成 nBytes 字节随机数的 base64url（无填充）字符串
func TokenURLSafe(nBytes int) (string, error) {
	if nBytes <= 0 {
		return "", fmt.Errorf("token length must be positive, got %d", nBytes)
	}
	buf := make([]byte, nBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
