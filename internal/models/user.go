package models

// User represents a registered account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the user's email address, unique across all users.
	Email string `json:"email"`

	// Password is the stored credential. It is opaque to the store and is
	// compared by the authenticator.
	Password string `json:"password"`

	// Avatar is a reference (path) to the user's profile picture.
	Avatar string `json:"avatar,omitempty"`

	// CompanyDetails is the user's own company, printed on issued invoices.
	CompanyDetails *CompanyDetails `json:"companyDetails,omitempty"`
}

func (u User) RecordID() string { return u.ID }

// OwnerID of a user is the user itself.
func (u User) OwnerID() string { return u.ID }

func (u User) WithID(id string) User {
	u.ID = id
	return u
}

// Public returns a copy of u without its credential.
func (u User) Public() User {
	u.Password = ""
	return u
}

// Clone returns a copy of u that does not share its company details.
func (u User) Clone() User {
	if u.CompanyDetails != nil {
		details := *u.CompanyDetails
		u.CompanyDetails = &details
	}
	return u
}
