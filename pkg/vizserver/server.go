// Package vizserver serves an interactive web visualization of the
// structures recognized in the debuggee. Each request takes a fresh
// single-shot walk of the memory image; there is no push channel.
package vizserver

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"github.com/XtremeXSPC/dsviz/pkg/logflags"
	"github.com/XtremeXSPC/dsviz/pkg/pretty"
	"github.com/XtremeXSPC/dsviz/pkg/target"
)

// Config holds the server dependencies.
type Config struct {
	Target   *target.Target
	Registry *pretty.Registry
	Options  *pretty.Options
}

// Server is the visualization web server.
type Server struct {
	config   *Config
	listener net.Listener
	httpsrv  *http.Server
}

// New creates a visualization server listening on addr.
func New(config *Config, addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("could not listen on %s: %w", addr, err)
	}
	s := &Server{config: config, listener: listener}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/vars", s.handleVars)
	mux.HandleFunc("/api/structure", s.handleStructure)
	s.httpsrv = &http.Server{Handler: mux}
	return s, nil
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Run serves until Stop is called.
func (s *Server) Run() error {
	logflags.VizLogger().Debugf("serving visualizations on %s", s.Addr())
	err := s.httpsrv.Serve(s.listener)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop shuts the server down.
func (s *Server) Stop() error {
	return s.httpsrv.Close()
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type apiError struct {
	Error string `json:"error"`
}

func (s *Server) handleIndex(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path != "/" {
		http.NotFound(w, req)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexPage))
}

type varInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Summary string `json:"summary"`
}

func (s *Server) handleVars(w http.ResponseWriter, req *http.Request) {
	roots := s.config.Target.Roots()
	out := make([]varInfo, 0, len(roots))
	plain := *s.config.Options
	plain.Style = pretty.Plain
	for _, v := range roots {
		out = append(out, varInfo{
			Name:    v.Name,
			Type:    v.TypeName(),
			Summary: s.config.Registry.Summary(v, &plain),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStructure(w http.ResponseWriter, req *http.Request) {
	expr := req.URL.Query().Get("expr")
	if expr == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "missing expr parameter"})
		return
	}
	v, ok := s.config.Target.Root(expr)
	if !ok {
		writeJSON(w, http.StatusNotFound, apiError{Error: fmt.Sprintf("no variable named %q", expr)})
		return
	}
	outline, err := pretty.BuildOutline(s.config.Registry, v, s.config.Options)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, apiError{Error: err.Error()})
		return
	}
	logflags.VizLogger().Debugf("structure %s: %d nodes, %d edges", expr, len(outline.Nodes), len(outline.Edges))
	writeJSON(w, http.StatusOK, outline)
}
