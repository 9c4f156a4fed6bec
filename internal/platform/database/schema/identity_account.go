// Package schema centralizes table and column names so SQL in the stores
// never drifts from the migrations.
package schema

// IdentityAccountTable represents the 'identity.account' table
type IdentityAccountTable struct {
	Table           string
	ID              string
	Email           string
	Password        string
	Activated       string
	ActivationToken string
	CreatedAt       string
	UpdatedAt       string
}

// IdentityAccount is the schema definition for identity.account
var IdentityAccount = IdentityAccountTable{
	Table:           "identity.account",
	ID:              "id",
	Email:           "email",
	Password:        "passwordhash",
	Activated:       "activated",
	ActivationToken: "activationtoken",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}

// Columns returns all standard column names
func (t IdentityAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Password, t.Activated,
		t.ActivationToken, t.CreatedAt, t.UpdatedAt,
	}
}
