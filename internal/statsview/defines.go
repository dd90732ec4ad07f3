// Package statsview serves live runtime charts of the emulator process.
// The server is only built in with the statsview build tag.
package statsview

const (
	DEFAULT_ADDRESS = "localhost:12600"
	CHART_PATH      = "/debug/statsview"
)
