package entity

import "time"

// Vendor is the identity that authenticates with an emailed OTP. Email is the
// natural key and is compared exactly as stored.
type Vendor struct {
	ID          int64
	Email       string
	DisplayName string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
