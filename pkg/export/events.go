package export

type (
	// Sent to update the total layer count.
	EventSetLayerTotal int

	// Sent when a layer export has started.
	EventExportingLayer string

	// Sent when a layer has been written, or when reading it failed.
	EventExportedLayer struct {
		Err   error
		Layer string
		Rows  int
	}

	// Sent when the workbook has been written.
	EventDone struct {
		Err error
	}
)
