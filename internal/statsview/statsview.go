//go:build statsview

package statsview

import (
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Launch serves the charts on addr, or DEFAULT_ADDRESS if addr is empty.
// The server runs until the process exits.
func Launch(addr string) (link string, err error) {
	if len(addr) == 0 {
		addr = DEFAULT_ADDRESS
	}

	viewer.SetConfiguration(viewer.WithAddr(addr))
	mgr := statsview.New()
	go mgr.Start()

	link = "http://" + addr + CHART_PATH
	return
}
