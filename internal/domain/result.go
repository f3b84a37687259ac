package domain

// PromptStatus is the outcome of one dispatch attempt
type PromptStatus int

const (
	StatusSuccess PromptStatus = iota
	StatusException
	StatusInvalidUser
	StatusUnregisteredMessage
	StatusUnsupportedComponent
)

func (s PromptStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusException:
		return "exception"
	case StatusInvalidUser:
		return "invalid_user"
	case StatusUnregisteredMessage:
		return "unregistered_message"
	case StatusUnsupportedComponent:
		return "unsupported_component"
	default:
		return "unknown"
	}
}

// PromptResult describes what happened to an interaction
type PromptResult struct {
	Status  PromptStatus
	Message string
	Err     error
	// Unregister tells the registry the prompt's lifecycle is complete
	Unregister bool
}
