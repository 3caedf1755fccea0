package model

import "github.com/golang-jwt/jwt/v5"

type AccessClaims struct {
	UserID   string `json:"userId"`
	UserType string `json:"userType"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// RefreshTokenRecord is the server-side half of a session, stored per user.
type RefreshTokenRecord struct {
	UserID       string `firestore:"userId,omitempty"`
	RefreshToken string `firestore:"refreshToken,omitempty"` // sha256+bcrypt hash, never the raw token
	CreatedAt    int64  `firestore:"createdAt"`
	Revoked      bool   `firestore:"revoked"`
	ExpiresIn    int64  `firestore:"expiresIn"`
}
