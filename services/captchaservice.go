package services

import (
	"context"
	"fmt"
	"os"

	recaptcha "cloud.google.com/go/recaptchaenterprise/v2/apiv1"
	"cloud.google.com/go/recaptchaenterprise/v2/apiv1/recaptchaenterprisepb"
	"google.golang.org/api/option"

	"labourconnect/dto"
)

// CaptchaVerifier validates a client captcha token before an OTP is sent.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, action, ip, userAgent string) (*dto.AssessmentResult, error)
}

// RecaptchaVerifier scores tokens through reCAPTCHA Enterprise. A nil
// result with a nil error means the token was rejected.
type RecaptchaVerifier struct{}

func (RecaptchaVerifier) Verify(ctx context.Context, token, action, ip, userAgent string) (*dto.AssessmentResult, error) {
	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT_ID")
	recaptchaKey := os.Getenv("RECAPTCHA_SITE_KEY")
	credentialsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")

	client, err := recaptcha.NewClient(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("create recaptcha client: %w", err)
	}
	defer client.Close()

	req := &recaptchaenterprisepb.CreateAssessmentRequest{
		Parent: fmt.Sprintf("projects/%s", projectID),
		Assessment: &recaptchaenterprisepb.Assessment{
			Event: &recaptchaenterprisepb.Event{
				Token:         token,
				SiteKey:       recaptchaKey,
				UserIpAddress: ip,
				UserAgent:     userAgent,
			},
		},
	}

	response, err := client.CreateAssessment(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}

	if response.TokenProperties == nil || !response.TokenProperties.Valid {
		return nil, nil
	}
	if action != "" && response.TokenProperties.Action != action {
		return nil, nil
	}

	result := &dto.AssessmentResult{
		Action: response.TokenProperties.Action,
	}
	if response.RiskAnalysis != nil {
		result.Score = response.RiskAnalysis.Score
		if len(response.RiskAnalysis.Reasons) > 0 {
			reasons := make([]string, len(response.RiskAnalysis.Reasons))
			for i, reason := range response.RiskAnalysis.Reasons {
				reasons[i] = reason.String()
			}
			result.Reasons = reasons
		}
	}
	return result, nil
}

// AllowAllVerifier accepts every token. Used in demo mode and tests.
type AllowAllVerifier struct{}

func (AllowAllVerifier) Verify(ctx context.Context, token, action, ip, userAgent string) (*dto.AssessmentResult, error) {
	return &dto.AssessmentResult{Score: 1, Action: action}, nil
}
