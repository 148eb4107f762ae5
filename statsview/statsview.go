// Package statsview serves live runtime graphs (heap, goroutines, GC) and
// the pprof endpoints for the emulator process while it runs.
package statsview

import (
	"fmt"
	"net/http"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// DefaultAddr is where the command serves statistics.
const DefaultAddr = "localhost:12600"

// Server is a statsview HTTP server running in the background.
type Server struct {
	mgr *statsview.ViewManager

	// URL of the graphs page. pprof is under /debug/pprof/ on the same host.
	URL string
}

// Start serves statistics on addr. Serve errors are logged, not returned.
func Start(addr string) *Server {
	viewer.SetConfiguration(viewer.WithAddr(addr))

	s := &Server{
		mgr: statsview.New(),
		URL: fmt.Sprintf("http://%s/debug/statsview", addr),
	}

	go func() {
		if err := s.mgr.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			glog.Errorf("statsview: %v", err)
		}
	}()

	return s
}

// Stop shuts the server down.
func (s *Server) Stop() {
	s.mgr.Stop()
}
