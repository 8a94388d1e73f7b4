package models

// Account field names as stored in the utilisateurs collection and exposed
// on the wire.
const (
	UsersCollection = "utilisateurs"
	FieldEmail      = "courriel"
	FieldPassword   = "mdp"
)

// Credentials is the registration and login request body.
type Credentials struct {
	Email    string `json:"courriel" validate:"required,email"`
	Password string `json:"mdp" validate:"required,min=8,max=20,strongpassword"`
}

// Account is what the API returns for a user: the stored fields with the
// password removed.
type Account = Document

// PublicAccount strips the password from a stored account document.
func PublicAccount(doc Document) Account {
	return doc.Without(FieldPassword)
}
