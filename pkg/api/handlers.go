package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ssargent/gsbgrid/pkg/grid"
	"github.com/ssargent/gsbgrid/pkg/metrics"
)

// Server holds the API server state
type Server struct {
	grid    *grid.GridFile
	config  ServerConfig
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewServer creates a new API server over an already decoded grid
func NewServer(g *grid.GridFile, config ServerConfig, m *metrics.Metrics, logger *slog.Logger) *Server {
	if m == nil {
		m = metrics.NewMetrics(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		grid:    g,
		config:  config,
		metrics: m,
		logger:  logger,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, HealthResponse{
		Status:   "healthy",
		Source:   s.config.Source,
		SubGrids: len(s.grid.SubGrids),
		Shifts:   s.grid.ShiftCount(),
	})
}

func (s *Server) handleHeader(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, s.grid.Header)
}

func (s *Server) handleListSubGrids(w http.ResponseWriter, r *http.Request) {
	infos := make([]SubGridInfo, 0, len(s.grid.SubGrids))
	for _, sg := range s.grid.SubGrids {
		infos = append(infos, SubGridInfo{
			Name:    sg.Name(),
			Parent:  sg.Parent(),
			Count:   sg.Count(),
			Decoded: len(sg.Shifts),
		})
	}
	sendSuccess(w, infos)
}

func (s *Server) handleGetSubGrid(w http.ResponseWriter, r *http.Request) {
	sg, ok := s.lookupSubGrid(w, r)
	if !ok {
		return
	}
	sendSuccess(w, sg)
}

func (s *Server) handleGetShift(w http.ResponseWriter, r *http.Request) {
	sg, ok := s.lookupSubGrid(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		sendError(w, "Shift index must be an integer", http.StatusBadRequest)
		return
	}
	if index < 0 || index >= len(sg.Shifts) {
		sendError(w, fmt.Sprintf("Shift index %d out of range [0, %d)", index, len(sg.Shifts)), http.StatusNotFound)
		return
	}

	shift := sg.Shifts[index]
	sendSuccess(w, ShiftResponse{
		SubGrid:     sg.Name(),
		Index:       index,
		LatShift:    finite(shift.LatShift),
		LonShift:    finite(shift.LonShift),
		LatAccuracy: finite(shift.LatAccuracy),
		LonAccuracy: finite(shift.LonAccuracy),
	})
}

// lookupSubGrid resolves the {name} parameter, writing the error response
// when it does not match a sub-grid
func (s *Server) lookupSubGrid(w http.ResponseWriter, r *http.Request) (*grid.SubGrid, bool) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		sendError(w, "Invalid sub-grid name encoding", http.StatusBadRequest)
		return nil, false
	}
	sg, ok := s.grid.SubGrid(name)
	if !ok {
		sendError(w, fmt.Sprintf("Sub-grid %q not found", name), http.StatusNotFound)
		return nil, false
	}
	return sg, true
}
