package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// retryMillis tells the browser how long to wait before reconnecting
const retryMillis = 15000

// FormatSSE renders one Server-Sent Events message carrying data as JSON.
func FormatSSE(eventType string, data any) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		return "", err
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("event: %s\n", eventType))
	sb.WriteString(fmt.Sprintf("retry: %d\n", retryMillis))
	sb.WriteString(fmt.Sprintf("data: %s\n\n", strings.TrimRight(buf.String(), "\n")))

	return sb.String(), nil
}
