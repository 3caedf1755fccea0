package dto

type UpdateProfileRequest struct {
	FullName   string `json:"fullName"`
	Profession string `json:"profession"`
	Experience string `json:"experience"`
	DailyRate  int    `json:"dailyRate"`
	Age        int    `json:"age"`
	Skills     string `json:"skills"`
	Address    string `json:"address"`
	Area       string `json:"area"`
	Pincode    string `json:"pincode"`
}
