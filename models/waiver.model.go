package models

import "time"

// Waiver is a signed liability acknowledgment, at most one per user.
// The exact text shown at signing is stored for audit purposes and the
// record is immutable afterwards.
type Waiver struct {
	ID            string    `bson:"_id" json:"id"`
	UserID        string    `bson:"user_id" json:"userId"`
	IPAddress     string    `bson:"ip_address" json:"ipAddress"`
	SignedAt      time.Time `bson:"signed_at" json:"signedAt"`
	WaiverContent string    `bson:"waiver_content" json:"waiverContent"`
}
