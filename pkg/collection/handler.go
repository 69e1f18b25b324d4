package collection

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/getmockd/fireflow/pkg/logging"
)

// MaxBodySize is the largest create/update body the Handler accepts.
const MaxBodySize = 1 << 20

// Handler serves a Collection as a REST resource:
//
//	GET    /       list every document ({"data": [...], "meta": {...}})
//	POST   /       create a document (201)
//	GET    /{id}   get one document
//	PUT    /{id}   update name/age (200)
//	DELETE /{id}   delete (204)
//
// Mount it under a base path with http.StripPrefix.
type Handler struct {
	name string
	coll Collection
	log  *slog.Logger
	mux  *http.ServeMux
}

// NewHandler creates a REST handler for coll.
func NewHandler(name string, coll Collection, log *slog.Logger) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	h := &Handler{name: name, coll: coll, log: log, mux: http.NewServeMux()}

	h.mux.HandleFunc("GET /{$}", h.handleList)
	h.mux.HandleFunc("POST /{$}", h.handleCreate)
	h.mux.HandleFunc("GET /{id}", h.handleGet)
	h.mux.HandleFunc("PUT /{id}", h.handleUpdate)
	h.mux.HandleFunc("DELETE /{id}", h.handleDelete)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "" {
		r.URL.Path = "/"
	}
	h.mux.ServeHTTP(w, r)
}

// handleList returns every document.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	docs, err := h.coll.FetchAll(r.Context())
	if err != nil {
		h.writeError(w, err, "")
		return
	}

	data := make([]map[string]any, len(docs))
	for i := range docs {
		data[i] = docs[i].ToJSON()
	}
	h.writeJSON(w, http.StatusOK, ListResponse{
		Data: data,
		Meta: ListMeta{Total: len(data), Count: len(data)},
	})
}

// handleGet retrieves a single document by id.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	docID := r.PathValue("id")
	docs, err := h.coll.FetchAll(r.Context())
	if err != nil {
		h.writeError(w, err, docID)
		return
	}
	for i := range docs {
		if docs[i].ID == docID {
			h.writeJSON(w, http.StatusOK, docs[i].ToJSON())
			return
		}
	}
	h.writeError(w, &NotFoundError{Resource: h.name, ID: docID}, docID)
}

// handleCreate creates a new document.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(r)
	if err != nil {
		h.writeError(w, err, "")
		return
	}

	docID, err := h.coll.Insert(r.Context(), fields)
	if err != nil {
		h.writeError(w, err, "")
		return
	}

	doc := Document{ID: docID, Data: fields.Map()}
	h.writeJSON(w, http.StatusCreated, doc.ToJSON())
}

// handleUpdate updates an existing document.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	docID := r.PathValue("id")
	fields, err := readFields(r)
	if err != nil {
		h.writeError(w, err, docID)
		return
	}

	if err := h.coll.UpdateByID(r.Context(), docID, fields); err != nil {
		h.writeError(w, err, docID)
		return
	}

	doc := Document{ID: docID, Data: fields.Map()}
	h.writeJSON(w, http.StatusOK, doc.ToJSON())
}

// handleDelete removes a document.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	docID := r.PathValue("id")
	if err := h.coll.DeleteByID(r.Context(), docID); err != nil {
		h.writeError(w, err, docID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// readFields decodes a name/age body. Absent keys decode as "".
func readFields(r *http.Request) (Fields, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodySize+1))
	if err != nil {
		return Fields{}, &ValidationError{Message: "failed to read request body"}
	}
	if len(body) > MaxBodySize {
		return Fields{}, &ValidationError{Message: "request body too large"}
	}

	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return Fields{}, &ValidationError{Message: "invalid request body: " + err.Error()}
	}

	var fields Fields
	for key, dst := range map[string]*string{FieldName: &fields.Name, FieldAge: &fields.Age} {
		v, ok := data[key]
		if !ok || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return Fields{}, &ValidationError{Field: key, Message: "must be a string"}
		}
		*dst = s
	}
	return fields, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("failed to encode collection response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error, docID string) {
	resp := ToErrorResponse(err)
	if resp.Resource == "" {
		resp.Resource = h.name
	}
	if resp.ID == "" {
		resp.ID = docID
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		h.log.Error("collection request failed", "resource", h.name, "id", docID, "error", err)
	}
	h.writeJSON(w, resp.StatusCode, resp)
}
