package scaffold

type (
	// Sent when the template copy has completed.
	EventCopied struct {
		Path string
		Err  error
	}

	// Sent when the storage container has been created or reused.
	EventContainer struct {
		Err     error
		Path    string
		Created bool
	}

	// Sent when the scaffold has completed.
	EventDone struct {
		Err error
	}
)
