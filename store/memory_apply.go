package store

import (
	"sort"

	"labourconnect/model"
)

// Field names here mirror the document field tags, so memory and Firestore
// callers pass the same update maps.

func applyUserUpdates(user *model.User, updates map[string]interface{}) {
	for field, value := range updates {
		switch field {
		case "fullName":
			user.FullName = value.(string)
		case "userType":
			user.UserType = value.(string)
		case "isActive":
			user.IsActive = value.(bool)
		case "isVerified":
			user.IsVerified = value.(bool)
		case "rating":
			user.Rating = toFloat(value)
		case "jobsCompleted":
			user.JobsCompleted = toInt(value)
		case "profileViews":
			user.ProfileViews = toInt(value)
		case "profession":
			user.Profession = value.(string)
		case "experience":
			user.Experience = value.(string)
		case "dailyRate":
			user.DailyRate = toInt(value)
		case "age":
			user.Age = toInt(value)
		case "skills":
			user.Skills = value.(string)
		case "address":
			user.Address = value.(string)
		case "area":
			user.Area = value.(string)
		case "pincode":
			user.Pincode = value.(string)
		case "profileUrl":
			user.ProfileURL = value.(string)
		case "workersCount":
			user.WorkersCount = toInt(value)
		}
	}
}

func applyWorkerUpdates(worker *model.Worker, updates map[string]interface{}) {
	for field, value := range updates {
		switch field {
		case "fullName":
			worker.FullName = value.(string)
		case "mobile":
			worker.Mobile = value.(string)
		case "profession":
			worker.Profession = value.(string)
		case "experience":
			worker.Experience = value.(string)
		case "dailyRate":
			worker.DailyRate = toInt(value)
		case "skills":
			worker.Skills = value.(string)
		case "area":
			worker.Area = value.(string)
		case "isActive":
			worker.IsActive = value.(bool)
		case "isVerified":
			worker.IsVerified = value.(bool)
		case "rating":
			worker.Rating = toFloat(value)
		case "jobsCompleted":
			worker.JobsCompleted = toInt(value)
		}
	}
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// sortByCountDesc orders aggregates by worker count, highest first, with
// the key as a stable tiebreak.
func sortByCountDesc[T any](items []T, key func(T) (int, string)) {
	sort.Slice(items, func(i, j int) bool {
		ci, ki := key(items[i])
		cj, kj := key(items[j])
		if ci != cj {
			return ci > cj
		}
		return ki < kj
	})
}
