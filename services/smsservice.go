package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// SMSSender delivers a text message to a mobile number.
type SMSSender interface {
	Send(ctx context.Context, mobile, message string) error
}

// GatewaySender posts to an HTTP SMS gateway. The gateway URL and API key
// come from SMS_GATEWAY_URL and SMS_GATEWAY_KEY.
type GatewaySender struct {
	client *http.Client
}

func NewGatewaySender() *GatewaySender {
	return &GatewaySender{client: &http.Client{Timeout: 10 * time.Second}}
}

func (g *GatewaySender) Send(ctx context.Context, mobile, message string) error {
	gatewayURL := os.Getenv("SMS_GATEWAY_URL")
	apiKey := os.Getenv("SMS_GATEWAY_KEY")
	if gatewayURL == "" || apiKey == "" {
		return fmt.Errorf("missing required SMS gateway environment variables")
	}

	form := url.Values{}
	form.Set("to", mobile)
	form.Set("message", message)
	form.Set("apiKey", apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gatewayURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("SMS gateway error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("SMS gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// LogSender writes the message to the log instead of sending it. Used in
// demo mode and tests.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, mobile, message string) error {
	log.Printf("SMS to %s: %s", mobile, message)
	return nil
}
