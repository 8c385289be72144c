package http

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/couchcryptid/hotspot-map-service/internal/domain"
	"github.com/couchcryptid/hotspot-map-service/internal/mapview"
	"github.com/go-chi/chi/v5"
)

const noResultsMessage = "No hotspots found"

// hotspotResponse adds display fields to a hotspot.
type hotspotResponse struct {
	domain.Hotspot
	LastUpdated string `json:"lastUpdated"`
	Color       string `json:"color"`
}

type hotspotListResponse struct {
	Hotspots []hotspotResponse `json:"hotspots"`
	Count    int               `json:"count"`
	Total    int               `json:"total"`
	Empty    bool              `json:"empty"`
	Message  string            `json:"message,omitempty"`
}

func newHotspotResponse(h domain.Hotspot) hotspotResponse {
	return hotspotResponse{
		Hotspot:     h,
		LastUpdated: h.LastUpdated(domain.Now()),
		Color:       h.Severity.Color(),
	}
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Stats.Current())
}

func (s *Server) handleListHotspots(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	all, err := s.deps.Hotspots.Hotspots(r.Context())
	if err != nil {
		s.logger.Error("list hotspots failed", "error", err)
		writeInternalError(w, "failed to load hotspots")
		return
	}

	visible := mapview.Visible(all, filter)
	resp := hotspotListResponse{
		Hotspots: make([]hotspotResponse, 0, len(visible)),
		Count:    len(visible),
		Total:    len(all),
		Empty:    len(visible) == 0,
	}
	for _, h := range visible {
		resp.Hotspots = append(resp.Hotspots, newHotspotResponse(h))
	}
	if resp.Empty {
		resp.Message = noResultsMessage
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetHotspot(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeBadRequest(w, "hotspot id must be a positive integer")
		return
	}

	h, err := domain.FindHotspot(r.Context(), s.deps.Hotspots, id)
	if errors.Is(err, domain.ErrNotFound) {
		writeNotFound(w, fmt.Sprintf("hotspot %d not found", id))
		return
	}
	if err != nil {
		s.logger.Error("get hotspot failed", "id", id, "error", err)
		writeInternalError(w, "failed to load hotspot")
		return
	}
	writeJSON(w, http.StatusOK, newHotspotResponse(h))
}

// handleMapSVG renders one view of the map from query parameters:
// q, severity, zoom, panX, panY and selected.
func (s *Server) handleMapSVG(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := parseFilter(q)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	zoom, err := floatParam(q, "zoom", mapview.DefaultZoom)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	panX, err := floatParam(q, "panX", 0)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	panY, err := floatParam(q, "panY", 0)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	hotspots, err := s.deps.Hotspots.Hotspots(r.Context())
	if err != nil {
		s.logger.Error("render map failed", "error", err)
		writeInternalError(w, "failed to load hotspots")
		return
	}

	surface := mapview.NewSVGSurface(s.projection())
	ctrl := mapview.NewController(surface, hotspots, s.mapOptions())
	ctrl.SetSeverity(filter.Severity)
	ctrl.SetQuery(filter.Query)
	if raw := q.Get("selected"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			writeBadRequest(w, "selected must be an integer")
			return
		}
		if err := ctrl.Select(id); err != nil {
			writeNotFound(w, err.Error())
			return
		}
	}
	// Applied last so a recenter-on-select option cannot override an
	// explicit pan.
	ctrl.SetViewport(zoom, mapview.Point{X: panX, Y: panY})

	var buf bytes.Buffer
	if err := surface.Render(&buf); err != nil {
		writeInternalError(w, "failed to render map")
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) projection() mapview.Projection {
	if p := s.deps.MapOptions.Projection; p != (mapview.Projection{}) {
		return p
	}
	return mapview.DefaultProjection
}

func (s *Server) mapOptions() mapview.Options {
	opts := s.deps.MapOptions
	opts.Projection = s.projection()
	return opts
}

func parseFilter(q url.Values) (mapview.Filter, error) {
	sev, err := domain.ParseSeverityFilter(q.Get("severity"))
	if err != nil {
		return mapview.Filter{}, err
	}
	return mapview.Filter{Query: q.Get("q"), Severity: sev}, nil
}

func floatParam(q url.Values, name string, def float64) (float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%s must be a finite number", name)
	}
	return v, nil
}
