package model

import "time"

type OTPRecord struct {
	Mobile    string    `firestore:"mobile,omitempty"`
	CodeHash  string    `firestore:"codeHash,omitempty"`
	Reference string    `firestore:"reference,omitempty"`
	IsUsed    bool      `firestore:"isUsed"`
	Attempts  int       `firestore:"attempts"`
	CreatedAt time.Time `firestore:"createdAt,omitempty"`
	ExpiresAt time.Time `firestore:"expiresAt,omitempty"`
}

// MobileBlock temporarily locks a mobile number out of OTP requests.
type MobileBlock struct {
	Mobile    string    `firestore:"mobile,omitempty"`
	CreatedAt time.Time `firestore:"createdAt,omitempty"`
	ExpiresAt time.Time `firestore:"expiresAt,omitempty"`
}
