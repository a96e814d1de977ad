package debug

import (
	"log"
	"sync"
)

var (
	enableOnce sync.Once
	hub        *WebSocketHub
)

// Enable starts the dashboard hub. It is called once at startup when
// DEBUG_DASHBOARD is set; later calls are no-ops.
func Enable() {
	enableOnce.Do(func() {
		hub = newHub()
		go hub.run()
		log.Println("[debug] dashboard enabled on /ws/debug")
	})
}

// IsEnabled reports whether Enable has been called.
func IsEnabled() bool {
	return hub != nil
}

// LogInfo sends an info line to the dashboard.
func LogInfo(message string, metadata map[string]interface{}) {
	SendLog("backend", "info", message, metadata)
}

// LogWarn sends a warn line to the dashboard.
func LogWarn(message string, metadata map[string]interface{}) {
	SendLog("backend", "warn", message, metadata)
}

// LogError sends an error line to the dashboard.
func LogError(message string, metadata map[string]interface{}) {
	SendLog("backend", "error", message, metadata)
}

// LevelForStatus maps an HTTP status to a dashboard level.
func LevelForStatus(status int) string {
	switch {
	case status >= 500:
		return "error"
	case status >= 400:
		return "warn"
	default:
		return "info"
	}
}
