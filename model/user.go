package model

import "time"

const (
	UserTypeWorker       = "worker"
	UserTypeProfessional = "professional"
	UserTypeCustomer     = "customer"
)

type User struct {
	UserID        string    `firestore:"userId,omitempty" json:"id"`
	FullName      string    `firestore:"fullName,omitempty" json:"fullName"`
	Mobile        string    `firestore:"mobile,omitempty" json:"mobile"`
	UserType      string    `firestore:"userType,omitempty" json:"userType"` // "worker", "professional" or "customer"
	IsActive      bool      `firestore:"isActive" json:"isActive"`
	IsVerified    bool      `firestore:"isVerified" json:"isVerified"`
	Rating        float64   `firestore:"rating" json:"rating"` // 0-5
	JobsCompleted int       `firestore:"jobsCompleted" json:"jobsCompleted"`
	ProfileViews  int       `firestore:"profileViews" json:"profileViews"`
	Profession    string    `firestore:"profession,omitempty" json:"profession,omitempty"`
	Experience    string    `firestore:"experience,omitempty" json:"experience,omitempty"`
	DailyRate     int       `firestore:"dailyRate,omitempty" json:"dailyRate,omitempty"`
	Age           int       `firestore:"age,omitempty" json:"age,omitempty"`
	Skills        string    `firestore:"skills,omitempty" json:"skills,omitempty"`
	Address       string    `firestore:"address,omitempty" json:"address,omitempty"`
	Area          string    `firestore:"area,omitempty" json:"area,omitempty"`
	Pincode       string    `firestore:"pincode,omitempty" json:"pincode,omitempty"`
	ProfileURL    string    `firestore:"profileUrl,omitempty" json:"profileUrl,omitempty"`
	WorkersCount  int       `firestore:"workersCount" json:"workersCount"`
	CreatedAt     time.Time `firestore:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt,omitempty" json:"updatedAt"`
}

func IsValidUserType(t string) bool {
	switch t {
	case UserTypeWorker, UserTypeProfessional, UserTypeCustomer:
		return true
	}
	return false
}
