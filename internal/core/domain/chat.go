package domain

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// HistoryLimit caps session history; the oldest turns are dropped first.
const HistoryLimit = 10

type ChatTurn struct {
	Role    ChatRole `json:"role"`
	Message string   `json:"message"`
}
