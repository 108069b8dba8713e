package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/Dan9191/exercise-tracker/internal/service"
)

// Request bodies larger than this are rejected.
const maxBodyBytes = 1 << 20

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service error kinds onto status codes. Client errors are
// logged at debug; anything else is a server failure.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		h.log.Debugf("Rejected request: %v", err)
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		h.log.Debugf("Lookup failed: %v", err)
		writeJSON(w, http.StatusNotFound, apiError{Error: err.Error()})
	default:
		h.log.Errorf("Request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "internal server error"})
	}
}

// readFields collects flat string fields from a JSON, urlencoded or multipart body.
// JSON numbers and booleans are kept in their literal form.
func readFields(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	fields := make(map[string]string)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var raw map[string]any
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, &service.ValidationError{Field: "body", Reason: "must be a JSON object"}
		}
		for key, value := range raw {
			switch v := value.(type) {
			case nil:
			case string:
				fields[key] = v
			case json.Number:
				fields[key] = v.String()
			case bool:
				fields[key] = fmt.Sprint(v)
			default:
				return nil, &service.ValidationError{Field: key, Reason: "must be a string or number"}
			}
		}
		return fields, nil
	}

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, &service.ValidationError{Field: "body", Reason: "must be valid form data"}
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, &service.ValidationError{Field: "body", Reason: "must be valid form data"}
	}
	for key := range r.PostForm {
		fields[key] = r.PostForm.Get(key)
	}
	return fields, nil
}

// wantsXML reports whether the client asked for XML, either with format=xml
// or with XML as its first Accept choice.
func wantsXML(r *http.Request) bool {
	if format := r.URL.Query().Get("format"); format != "" {
		return strings.EqualFold(format, "xml")
	}
	first, _, _ := strings.Cut(r.Header.Get("Accept"), ",")
	mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(first))
	if err != nil {
		return false
	}
	return mediaType == "application/xml" || mediaType == "text/xml"
}
