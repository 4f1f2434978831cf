// Package notify shows desktop notifications for extraction results.
// It uses github.com/gen2brain/beeep for cross-platform notification support.
package notify

import (
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/booru-prompt/booru-prompt/internal/logging"
)

// AppName is the notification title.
const AppName = "booru-prompt"

const maxMessageLen = 120

// Notifier sends desktop notifications when enabled.
type Notifier struct {
	logger  *logging.Logger
	enabled bool
	mu      sync.RWMutex

	// notify and alert default to beeep.Notify and beeep.Alert.
	notify func(title, message, icon string) error
	alert  func(title, message, icon string) error
}

// NewNotifier creates a notifier. A nil logger uses the default CLI logger.
func NewNotifier(enabled bool, logger *logging.Logger) *Notifier {
	if logger == nil {
		logger = logging.NewDefaultCLILogger()
	}
	return &Notifier{
		logger:  logger,
		enabled: enabled,
		notify:  beeep.Notify,
		alert:   beeep.Alert,
	}
}

// SetEnabled enables or disables notifications.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.enabled
}

// Status shows a status line. Errors use the more prominent alert style.
func (n *Notifier) Status(message string, isError bool) {
	if !n.IsEnabled() {
		return
	}

	message = truncate(message, maxMessageLen)
	if isError {
		if err := n.alert(AppName, message, ""); err != nil {
			// Fall back to regular notify
			if err := n.notify(AppName, message, ""); err != nil {
				n.logger.Warn().Err(err).Str("message", message).Msg("Failed to send error notification")
			}
		}
		return
	}

	if err := n.notify(AppName, message, ""); err != nil {
		n.logger.Warn().Err(err).Str("message", message).Msg("Failed to send notification")
	}
}

// truncate shortens s to maxLen bytes, ending in "..." when cut.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
