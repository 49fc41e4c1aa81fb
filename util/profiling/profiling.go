// Package profiling serves the runtime profiles of the process over HTTP.
package profiling

import (
	"net"
	"net/http"
	"net/http/pprof"

	"github.com/kaspanet/chaingen/infrastructure/logger"
	"github.com/kaspanet/chaingen/util/panics"
)

// Handler returns an http.Handler serving the pprof endpoints under
// /debug/pprof/ and redirecting every other path there.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/", http.RedirectHandler("/debug/pprof/", http.StatusSeeOther))
	return mux
}

// Start starts the profiling server on port in its own goroutine
func Start(port string, log *logger.Logger) {
	spawn := panics.GoroutineWrapperFunc(log)
	spawn("profiling.Start", func() {
		listenAddr := net.JoinHostPort("", port)
		log.Infof("Profile server listening on %s", listenAddr)
		log.Error(http.ListenAndServe(listenAddr, Handler()))
	})
}
