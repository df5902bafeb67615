package network

// Log keeps the most recent events up to its window.
type Log struct {
	window int
	events []Event
}

func NewLog(window int) *Log {
	if window < 1 {
		window = DefaultWindow
	}

	return &Log{window: window}
}

func (l *Log) Append(events ...Event) {
	l.events = append(l.events, events...)
	if extra := len(l.events) - l.window; extra > 0 {
		trimmed := make([]Event, l.window)
		copy(trimmed, l.events[extra:])
		l.events = trimmed
	}
}

// Events returns a copy, oldest first.
func (l *Log) Events() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)

	return out
}

func (l *Log) Len() int {
	return len(l.events)
}
