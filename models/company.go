package models

import "time"

// Company embeds owner and member user records as copies, not references.
type Company struct {
	CompanyID string       `json:"companyid" bson:"companyid"`
	Name      string       `json:"name" bson:"name"`
	Email     string       `json:"email" bson:"email"`
	Owner     PublicUser   `json:"owner" bson:"owner"`
	Members   []PublicUser `json:"members" bson:"members"`
	Deleted   bool         `json:"deleted" bson:"deleted"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
}
