package handler

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vilain-Petit-Canard/API-Films/internal/repository"
	"github.com/vilain-Petit-Canard/API-Films/internal/service"
)

func TestResolveQueryFilms(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  service.ListParams
	}{
		{"defaults", "", service.ListParams{SortField: "titre", Direction: repository.Asc, Limit: 3}},
		{"all set", "tri=annee&ordre=desc&limite=10", service.ListParams{SortField: "annee", Direction: repository.Desc, Limit: 10}},
		{"empty sort falls back", "tri=&ordre=asc", service.ListParams{SortField: "titre", Direction: repository.Asc, Limit: 3}},
		{"unknown direction is asc", "ordre=sideways", service.ListParams{SortField: "titre", Direction: repository.Asc, Limit: 3}},
		{"direction is case sensitive", "ordre=DESC", service.ListParams{SortField: "titre", Direction: repository.Asc, Limit: 3}},
		{"non numeric limit", "limite=abc", service.ListParams{SortField: "titre", Direction: repository.Asc, Limit: 3}},
		{"zero limit", "limite=0", service.ListParams{SortField: "titre", Direction: repository.Asc, Limit: 3}},
		{"fractional limit", "limite=2.5", service.ListParams{SortField: "titre", Direction: repository.Asc, Limit: 3}},
		{"negative limit passes through", "limite=-2", service.ListParams{SortField: "titre", Direction: repository.Asc, Limit: -2}},
		{"padded limit", "limite=%205%20", service.ListParams{SortField: "titre", Direction: repository.Asc, Limit: 5}},
		{"unknown sort field verbatim", "tri=does.not.exist", service.ListParams{SortField: "does.not.exist", Direction: repository.Asc, Limit: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ResolveQuery(qs, Films.Query))
		})
	}
}

func TestResolveQueryDonneesIgnoresSortParam(t *testing.T) {
	qs, _ := url.ParseQuery("tri=titre&order-direction=desc&limit=7")
	got := ResolveQuery(qs, Donnees.Query)

	assert.Equal(t, "user", got.SortField)
	assert.Equal(t, repository.Desc, got.Direction)
	assert.Equal(t, 7, got.Limit)

	got = ResolveQuery(url.Values{}, Donnees.Query)
	assert.Equal(t, 50, got.Limit)
}
