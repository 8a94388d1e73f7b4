package validation

import (
	"strings"

	"github.com/vilain-Petit-Canard/API-Films/internal/models"
)

// Credentials validates a registration payload and returns it with the email
// trimmed and normalized. The returned error carries no field detail meant
// for clients.
func Credentials(in models.Credentials) (models.Credentials, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := Struct(in); err != nil {
		return in, err
	}
	in.Email = NormalizeEmail(in.Email)
	return in, nil
}
