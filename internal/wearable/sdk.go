package wearable

// Mode selects how an SDK presents its interactive search UI.
type Mode int

const (
	// ModeAlwaysShow always presents the interactive search.
	ModeAlwaysShow Mode = iota
	// ModeConnectToLast silently tries the most recent device first and only
	// presents the search if that fails.
	ModeConnectToLast
)

func (m Mode) String() string {
	if m == ModeConnectToLast {
		return "connect_to_last"
	}
	return "always_show"
}

// Completion receives the single terminal outcome of a connection task.
type Completion func(Result[Session])
