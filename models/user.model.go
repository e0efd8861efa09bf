package models

import "time"

// User represents a customer or administrator. WaiverSigned is a
// denormalized flag kept in sync with the waivers collection: it is set
// in the same storage call that records the waiver.
type User struct {
	ID               string    `bson:"_id" json:"id"`
	Email            string    `bson:"email" json:"email"`
	Password         string    `bson:"password" json:"-"`
	FirstName        string    `bson:"first_name" json:"firstName"`
	LastName         string    `bson:"last_name" json:"lastName"`
	WaiverSigned     bool      `bson:"waiver_signed" json:"waiverSigned"`
	IsAdmin          bool      `bson:"is_admin" json:"isAdmin"`
	ResetToken       string    `bson:"reset_token,omitempty" json:"-"`
	ResetTokenExpiry time.Time `bson:"reset_token_expiry,omitempty" json:"-"`
	CreatedAt        time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updatedAt"`
}
