package dto

type AddWorkerRequest struct {
	FullName   string `json:"fullName" binding:"required"`
	Mobile     string `json:"mobile" binding:"required"`
	Profession string `json:"profession" binding:"required"`
	Experience string `json:"experience"`
	DailyRate  int    `json:"dailyRate"`
	Skills     string `json:"skills"`
	Area       string `json:"area"`
}

type UpdateWorkerRequest struct {
	FullName   string `json:"fullName"`
	Profession string `json:"profession"`
	Experience string `json:"experience"`
	DailyRate  int    `json:"dailyRate"`
	Skills     string `json:"skills"`
	Area       string `json:"area"`
}
