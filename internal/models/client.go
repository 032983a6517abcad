package models

// Client represents a customer of a user.
type Client struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	// Email is unique among the clients of one user.
	Email string `json:"email"`
	Name  string `json:"name"`

	// CompanyDetails VAT and registration numbers are unique among the
	// clients of one user.
	CompanyDetails CompanyDetails `json:"companyDetails"`

	CreatedAt int64 `json:"createdAt"`
}

func (c Client) RecordID() string { return c.ID }
func (c Client) OwnerID() string  { return c.UserID }

func (c Client) WithID(id string) Client {
	c.ID = id
	return c
}

// ClientName pairs a client with its company name for lightweight listings.
type ClientName struct {
	ID          string `json:"id"`
	CompanyName string `json:"companyName"`
}
