package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/vova616/xxhash"
)

// formatRequest builds a compact request log line.  Query parameters are
// hashed rather than logged, so tokens or IDs in them never reach the log.
func formatRequest(method, requestURL string, status int, duration time.Duration) string {
	urlsplit := strings.SplitN(requestURL, "?", 2)

	line := fmt.Sprintf("%s %s", method, urlsplit[0])
	if len(urlsplit) > 1 {
		line += fmt.Sprintf("?%#x", xxhash.Checksum32([]byte(urlsplit[1])))
	}
	line += fmt.Sprintf(" %03d in %.2fms", status, duration.Seconds()*1000)
	return line
}
