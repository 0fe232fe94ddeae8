package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

const logTokenPrefix = "log"

// EncodeToken creates a base64 encoded token pointing after the given log number.
// Log pages are ordered by log number, newest first.
func EncodeToken(logNumber int64) string {
	tokenStr := fmt.Sprintf("%s|%d", logTokenPrefix, logNumber)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses the base64 encoded token back into a log number.
func DecodeToken(token string) (int64, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[0] != logTokenPrefix {
		return 0, fmt.Errorf("invalid pagination token format (split)")
	}

	logNumber, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid pagination token format (log number parse): %w", err)
	}
	if logNumber <= 0 {
		return 0, fmt.Errorf("invalid pagination token format (log number %d)", logNumber)
	}
	return logNumber, nil
}
