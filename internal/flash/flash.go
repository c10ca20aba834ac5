package flash

// One-shot feedback messages carried inside the session across a redirect.
// A message set before a redirect is visible on the next rendered page and
// never again (the session middleware drains it exactly once).

const (
	// Success is the category for confirmations ("Todo added").
	Success = "success_msg"
	// Error is the category for user-visible operation failures.
	Error = "error_msg"
	// Generic is the category used by the login gate and auth flow.
	Generic = "error"
)

// Messages maps a category to the messages queued under it.
type Messages map[string][]string

// Add queues a message under the given category.
func (m Messages) Add(category, message string) {
	m[category] = append(m[category], message)
}

// Empty reports whether no messages are queued.
func (m Messages) Empty() bool {
	return len(m) == 0
}
