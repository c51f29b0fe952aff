package bundle

type (
	// Sent to update the total layer count.
	EventSetLayerTotal int

	// Sent when a layer clip has started.
	EventClippingLayer string

	// Sent when a layer has been clipped, or when clipping it failed.
	EventClippedLayer struct {
		Err    error
		Layer  string
		Output string
		Rows   int
	}

	// Sent when all work has completed.
	EventDone struct {
		Err error
	}
)
