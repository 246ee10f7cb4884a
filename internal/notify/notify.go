package notify

import (
	"os"

	"github.com/rs/zerolog"
)

type Severity string

const (
	SeverityInfo        Severity = "info"
	SeverityDestructive Severity = "destructive"
)

// Notifier is the fire-and-forget sink for user-visible messages.
type Notifier interface {
	Notify(title, description string, severity Severity)
}

// LogNotifier writes notifications to the structured log; the front end
// renders them as toasts.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{
		log: zerolog.New(os.Stdout).With().Timestamp().Str("component", "notify").Logger(),
	}
}

func (n *LogNotifier) Notify(title, description string, severity Severity) {
	event := n.log.Info()
	if severity == SeverityDestructive {
		event = n.log.Error()
	}
	event.Str("title", title).Str("severity", string(severity)).Msg(description)
}
