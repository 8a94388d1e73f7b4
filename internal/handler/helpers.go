package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/hlog"
	"github.com/vilain-Petit-Canard/API-Films/internal/errs"
	"github.com/vilain-Petit-Canard/API-Films/internal/models"
)

const maxBodyBytes = 1_048_576

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends err to the client. Anything that is not an
// *errs.HTTPError is logged and replaced by a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		httpErr = errs.NewInternalServerError("")
	}
	writeJSON(w, httpErr.Status, httpErr)
}

// serverError logs cause and answers 500 with message. An empty message
// gives the generic one.
func serverError(w http.ResponseWriter, r *http.Request, cause error, message string) {
	hlog.FromRequest(r).Error().Err(cause).Msg("store operation failed")
	writeError(w, r, errs.NewInternalServerError(message))
}

// readJSON decodes exactly one JSON value from the body into dst. Numbers
// decoded into interfaces stay json.Number so large integers are kept exact.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case errors.As(err, &maxErr):
			return fmt.Errorf("body must not be larger than %d bytes", maxErr.Limit)
		default:
			return errors.New("body contains malformed JSON")
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

// readDocument reads a JSON object body.
func readDocument(w http.ResponseWriter, r *http.Request) (models.Document, error) {
	var raw any
	if err := readJSON(w, r, &raw); err != nil {
		return nil, err
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.New("body must be a JSON object")
	}
	return models.Document(obj), nil
}

func readString(qs url.Values, key, def string) string {
	if key == "" {
		return def
	}
	if s := qs.Get(key); s != "" {
		return s
	}
	return def
}

// readInt falls back to def when the value is absent, unparsable or zero.
func readInt(qs url.Values, key string, def int) int {
	if key == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(qs.Get(key)))
	if err != nil || n == 0 {
		return def
	}
	return n
}
