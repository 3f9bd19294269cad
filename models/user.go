package models

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	StatusPending = "pending"
	StatusActive  = "active"
)

// User is the authoritative identity record. Role lives only here; the JWT
// role claim is derived from this document at login and never written back.
type User struct {
	UserID        string    `json:"userid" bson:"userid"`
	Username      string    `json:"username" bson:"username"`
	Email         string    `json:"email" bson:"email"`
	Password      string    `json:"-" bson:"password"`
	Name          string    `json:"name,omitempty" bson:"name,omitempty"`
	FirstName     string    `json:"first_name,omitempty" bson:"first_name,omitempty"`
	LastName      string    `json:"last_name,omitempty" bson:"last_name,omitempty"`
	Role          string    `json:"role" bson:"role"`
	Status        string    `json:"status" bson:"status"`
	FirstLogin    bool      `json:"first_login" bson:"first_login"`
	Deleted       bool      `json:"deleted" bson:"deleted"`
	CompanyID     string    `json:"companyid,omitempty" bson:"companyid,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	LastLogin     time.Time `json:"last_login" bson:"last_login"`
	RefreshToken  string    `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time `json:"-" bson:"refresh_expiry,omitempty"`
}

// PublicUser is the shape returned to the dashboard, without credential fields.
type PublicUser struct {
	UserID     string    `json:"userid" bson:"userid"`
	Username   string    `json:"username" bson:"username"`
	Email      string    `json:"email" bson:"email"`
	Name       string    `json:"name,omitempty" bson:"name,omitempty"`
	FirstName  string    `json:"first_name,omitempty" bson:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty" bson:"last_name,omitempty"`
	Role       string    `json:"role" bson:"role"`
	Status     string    `json:"status" bson:"status"`
	FirstLogin bool      `json:"first_login" bson:"first_login"`
	CompanyID  string    `json:"companyid,omitempty" bson:"companyid,omitempty"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		UserID:     u.UserID,
		Username:   u.Username,
		Email:      u.Email,
		Name:       u.Name,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       u.Role,
		Status:     u.Status,
		FirstLogin: u.FirstLogin,
		CompanyID:  u.CompanyID,
		CreatedAt:  u.CreatedAt,
	}
}
