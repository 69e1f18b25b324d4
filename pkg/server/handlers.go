package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/getmockd/fireflow/pkg/collection"
	"github.com/getmockd/fireflow/pkg/httputil"
	"github.com/getmockd/fireflow/pkg/userui"
)

// SubmitResponse is the body of POST /api/submit.
type SubmitResponse struct {
	Record collection.Record `json:"record"`
	View   userui.View       `json:"view"`
}

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	Uptime     string                      `json:"uptime"`
	WSClients  int64                       `json:"wsClients"`
	Records    int                         `json:"records"`
	Collection *collection.MetricsSnapshot `json:"collection,omitempty"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, healthResponse{Status: "ok", Version: s.version})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, s.ctrl.Snapshot())
}

func (s *Server) handleSetForm(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := httputil.ReadJSON(r, &body); err != nil {
		httputil.WriteBadRequest(w, "invalid_json", err.Error())
		return
	}
	if err := validateForm(s.formSchema, body); err != nil {
		s.writeError(w, err)
		return
	}

	name, hasName := body[collection.FieldName].(string)
	age, hasAge := body[collection.FieldAge].(string)

	var err error
	switch {
	case hasName && hasAge:
		err = s.ctrl.SetInput(name, age)
	case hasName:
		err = s.ctrl.SetName(name)
	case hasAge:
		err = s.ctrl.SetAge(age)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteOK(w, s.ctrl.Snapshot())
}

func (s *Server) handleCancelEdit(w http.ResponseWriter, _ *http.Request) {
	if err := s.ctrl.CancelEdit(); err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteOK(w, s.ctrl.Snapshot())
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	record, err := s.ctrl.Submit(r.Context())
	if err != nil && !isRefreshError(err) {
		s.writeError(w, err)
		return
	}
	httputil.WriteOK(w, SubmitResponse{Record: record, View: s.ctrl.Snapshot()})
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.EditByID(r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteOK(w, s.ctrl.Snapshot())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	err := s.ctrl.Remove(r.Context(), r.PathValue("id"))
	if err != nil && !isRefreshError(err) {
		s.writeError(w, err)
		return
	}
	httputil.WriteOK(w, s.ctrl.Snapshot())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.Refresh(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteOK(w, s.ctrl.Snapshot())
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	resp := StatsResponse{
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		WSClients: s.wsClients.Load(),
		Records:   len(s.ctrl.Records()),
	}
	if s.metrics != nil {
		snap := s.metrics.Snapshot()
		resp.Collection = &snap
	}
	httputil.WriteOK(w, resp)
}

// writeError maps controller and collection errors to HTTP responses.
// Failures reaching the collection are reported as 502 since the server
// itself is healthy.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, userui.ErrBusy) {
		httputil.WriteErrorBody(w, http.StatusConflict, httputil.ErrorBody{
			Error:   "busy",
			Message: err.Error(),
			Hint:    "Wait for the pending submit or delete to finish.",
		})
		return
	}

	var ve *collection.ValidationError
	if errors.As(err, &ve) {
		httputil.WriteErrorBody(w, http.StatusBadRequest, httputil.ErrorBody{
			Error:   "validation_error",
			Message: err.Error(),
			Hint:    ve.Hint(),
			Field:   ve.Field,
		})
		return
	}

	var nf *collection.NotFoundError
	if errors.As(err, &nf) {
		httputil.WriteErrorBody(w, http.StatusNotFound, httputil.ErrorBody{
			Error:   "not_found",
			Message: err.Error(),
			Hint:    nf.Hint(),
		})
		return
	}

	s.log.Warn("collection request failed", "error", err)
	httputil.WriteErrorBody(w, http.StatusBadGateway, httputil.ErrorBody{
		Error:   "collection_error",
		Message: err.Error(),
	})
}

func isRefreshError(err error) bool {
	var re *userui.RefreshError
	return errors.As(err, &re)
}
