package handler

import (
	"net/url"

	"github.com/vilain-Petit-Canard/API-Films/internal/repository"
	"github.com/vilain-Petit-Canard/API-Films/internal/service"
)

// QuerySpec names a resource's list parameters and their defaults. An empty
// SortParam pins the sort field to DefaultSort.
type QuerySpec struct {
	SortParam      string
	DirectionParam string
	LimitParam     string
	DefaultSort    string
	DefaultLimit   int
}

// ResolveQuery turns a list request's query string into store parameters.
//
// The sort field is passed to the store verbatim. Only "desc" sorts
// descending. A limit that does not parse, or parses to zero, becomes the
// default; negative limits are deliberately let through.
func ResolveQuery(qs url.Values, spec QuerySpec) service.ListParams {
	dir := repository.Asc
	if readString(qs, spec.DirectionParam, "") == string(repository.Desc) {
		dir = repository.Desc
	}

	return service.ListParams{
		SortField: readString(qs, spec.SortParam, spec.DefaultSort),
		Direction: dir,
		Limit:     readInt(qs, spec.LimitParam, spec.DefaultLimit),
	}
}
