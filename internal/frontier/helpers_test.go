package frontier

import (
	"fmt"

	"github.com/banshee-data/frontier.explorer/internal/monitoring"
)

// captureLogs redirects monitoring.Logf into dst and returns a restore func.
func captureLogs(dst *[]string) func() {
	orig := monitoring.Logf
	monitoring.SetLogger(func(format string, v ...interface{}) {
		*dst = append(*dst, fmt.Sprintf(format, v...))
	})
	return func() { monitoring.Logf = orig }
}
