package model

import "time"

// Worker is a laborer added by a professional, distinct from a
// self-registered worker User. Deletion is a soft isActive flip.
type Worker struct {
	WorkerID      string    `firestore:"workerId,omitempty" json:"id"`
	FullName      string    `firestore:"fullName,omitempty" json:"fullName"`
	Mobile        string    `firestore:"mobile,omitempty" json:"mobile"`
	Profession    string    `firestore:"profession,omitempty" json:"profession,omitempty"`
	Experience    string    `firestore:"experience,omitempty" json:"experience,omitempty"`
	DailyRate     int       `firestore:"dailyRate,omitempty" json:"dailyRate,omitempty"`
	Skills        string    `firestore:"skills,omitempty" json:"skills,omitempty"`
	Area          string    `firestore:"area,omitempty" json:"area,omitempty"`
	AddedBy       string    `firestore:"addedBy,omitempty" json:"addedBy"`
	AddedAt       time.Time `firestore:"addedAt,omitempty" json:"addedAt"`
	IsActive      bool      `firestore:"isActive" json:"isActive"`
	IsVerified    bool      `firestore:"isVerified" json:"isVerified"`
	Rating        float64   `firestore:"rating" json:"rating"`
	JobsCompleted int       `firestore:"jobsCompleted" json:"jobsCompleted"`
	UpdatedAt     time.Time `firestore:"updatedAt,omitempty" json:"updatedAt"`
}
