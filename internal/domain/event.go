package domain

import "time"

// Outcome is how a prompt's lifecycle ended
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeExpired   Outcome = "expired"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeDiscarded Outcome = "discarded"
)

// PromptEvent is one finished prompt in the history log
type PromptEvent struct {
	ID        int64
	ChannelID string
	MessageID string
	UserID    string
	Kind      string
	Outcome   Outcome
	Timeout   time.Duration
	CreatedAt time.Time
}

// DateString returns the event date in YYYYMMDD format
func (e PromptEvent) DateString() string {
	return e.CreatedAt.Format("20060102")
}

// DisplayString returns a user-friendly one-line summary
func (e PromptEvent) DisplayString(now time.Time) string {
	return displayDate(e.CreatedAt, now) + " " + e.CreatedAt.Format("15:04") +
		" - " + e.Kind + " " + string(e.Outcome)
}

func displayDate(date, now time.Time) string {
	// Check if today
	if sameDay(date, now) {
		return "Today"
	}

	// Check if yesterday
	if sameDay(date, now.AddDate(0, 0, -1)) {
		return "Yesterday"
	}

	return date.Format("2 Jan 2006")
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
