package handler

import (
	"net/http"

	"github.com/vilain-Petit-Canard/API-Films/internal/errs"
)

// NotFound answers every request no route matched, echoing its URI.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, errs.NewNotFoundError("not found").WithPath(r.URL.RequestURI()))
}
