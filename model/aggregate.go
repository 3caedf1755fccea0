package model

import "time"

// Area and Profession are denormalized running counters, merge-written on
// every registration. Counts only ever go up.

type Area struct {
	Slug        string    `firestore:"slug,omitempty" json:"slug"`
	Name        string    `firestore:"name,omitempty" json:"name"`
	WorkerCount int       `firestore:"workerCount" json:"workerCount"`
	UpdatedAt   time.Time `firestore:"updatedAt,omitempty" json:"updatedAt"`
}

type Profession struct {
	Code        string    `firestore:"code,omitempty" json:"code"`
	Name        string    `firestore:"name,omitempty" json:"name"`
	WorkerCount int       `firestore:"workerCount" json:"workerCount"`
	UpdatedAt   time.Time `firestore:"updatedAt,omitempty" json:"updatedAt"`
}

var professionNames = map[string]string{
	"mason":       "Mason (Mistri)",
	"electrician": "Electrician",
	"plumber":     "Plumber",
	"painter":     "Painter",
	"carpenter":   "Carpenter",
	"welder":      "Welder",
	"driver":      "Driver",
	"helper":      "Helper",
	"cleaner":     "Cleaner",
	"other":       "Other",
}

// ProfessionDisplayName maps a profession code to its display name.
// Unknown codes pass through unchanged.
func ProfessionDisplayName(code string) string {
	if name, ok := professionNames[code]; ok {
		return name
	}
	return code
}

func IsValidProfession(code string) bool {
	_, ok := professionNames[code]
	return ok
}

var experienceBrackets = map[string]bool{
	"0-1":  true,
	"1-3":  true,
	"3-5":  true,
	"5-10": true,
	"10+":  true,
}

func IsValidExperience(bracket string) bool {
	return experienceBrackets[bracket]
}
