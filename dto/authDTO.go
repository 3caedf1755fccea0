package dto

type SendOTPRequest struct {
	Mobile       string `json:"mobile" binding:"required"`
	CaptchaToken string `json:"captchaToken"`
}

type VerifyOTPRequest struct {
	Mobile    string `json:"mobile" binding:"required"`
	Reference string `json:"ref" binding:"required"`
	OTP       string `json:"otp" binding:"required"`
}

type RegisterRequest struct {
	FullName   string `json:"fullName" binding:"required"`
	Mobile     string `json:"mobile" binding:"required"`
	UserType   string `json:"userType" binding:"required"`
	Profession string `json:"profession"`
	Experience string `json:"experience"`
	DailyRate  int    `json:"dailyRate"`
	Age        int    `json:"age"`
	Skills     string `json:"skills"`
	Address    string `json:"address"`
	Area       string `json:"area"`
	Pincode    string `json:"pincode"`
}

type CaptchaRequest struct {
	Token  string `json:"token" binding:"required"`
	Action string `json:"action"`
}

type AssessmentResult struct {
	Score   float32
	Action  string
	Reasons []string
}
