package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	mrand "math/rand"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"labourconnect/model"
	"labourconnect/store"
)

const (
	otpLength      = 6
	refLength      = 10
	otpTTL         = 5 * time.Minute
	otpMaxAttempts = 5
	otpMaxLive     = 3
	blockDuration  = 10 * time.Minute
)

var (
	ErrNoPendingRequest = errors.New("no pending otp request for this mobile")
	ErrOTPExpired       = errors.New("otp has expired")
	ErrOTPInvalid       = errors.New("otp does not match")
	ErrOTPUsed          = errors.New("otp has already been used")
	ErrTooManyRequests  = errors.New("too many otp requests for this mobile")
)

var indianMobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// ValidateIndianMobile accepts a ten digit number starting 6-9, with or
// without the +91 prefix.
func ValidateIndianMobile(mobile string) bool {
	return indianMobilePattern.MatchString(strings.TrimPrefix(mobile, "+91"))
}

// FormatPhone normalizes a mobile to E.164 with the +91 country code.
func FormatPhone(mobile string) string {
	mobile = strings.TrimSpace(mobile)
	if strings.HasPrefix(mobile, "+91") {
		return mobile
	}
	return "+91" + mobile
}

func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be greater than 0")
	}

	var otp strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		otp.WriteByte(byte('0' + n.Int64()))
	}
	return otp.String(), nil
}

func GenerateREF(length int) string {
	const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	var ref strings.Builder
	for i := 0; i < length; i++ {
		ref.WriteByte(characters[mrand.Intn(len(characters))])
	}
	return ref.String()
}

// SendOTP issues a fresh code for the mobile and hands it to the sender.
// The mobile must be in +91 form already. Only the bcrypt hash of the code
// is persisted; if three unexpired codes are already pending the mobile is
// blocked for ten minutes.
func SendOTP(ctx context.Context, s store.Store, sender SMSSender, mobile string) (string, error) {
	blocked, err := s.IsMobileBlocked(ctx, mobile)
	if err != nil {
		return "", err
	}
	if blocked {
		return "", ErrTooManyRequests
	}

	live, err := s.CountLiveOTPRecords(ctx, mobile)
	if err != nil {
		return "", err
	}
	if live >= otpMaxLive {
		if err := s.BlockMobile(ctx, mobile, time.Now().Add(blockDuration)); err != nil {
			return "", err
		}
		return "", ErrTooManyRequests
	}

	otp, err := GenerateOTP(otpLength)
	if err != nil {
		return "", err
	}
	ref := GenerateREF(refLength)

	codeHash, err := bcrypt.GenerateFromPassword([]byte(otp), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	now := time.Now()
	rec := model.OTPRecord{
		Mobile:    mobile,
		CodeHash:  string(codeHash),
		Reference: ref,
		IsUsed:    false,
		Attempts:  0,
		CreatedAt: now,
		ExpiresAt: now.Add(otpTTL),
	}
	if err := s.SaveOTPRecord(ctx, rec); err != nil {
		return "", err
	}

	message := fmt.Sprintf("Your LabourConnect verification code is %s (ref %s). Valid for 5 minutes.", otp, ref)
	if err := sender.Send(ctx, mobile, message); err != nil {
		return "", err
	}
	return ref, nil
}

// VerifyOTP checks a submitted code against the stored record. Every
// wrong guess burns an attempt; hitting the cap marks the code used.
func VerifyOTP(ctx context.Context, s store.Store, mobile, reference, otp string) error {
	rec, err := s.GetOTPRecord(ctx, mobile, reference)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNoPendingRequest
	}
	if err != nil {
		return err
	}

	if rec.IsUsed {
		return ErrOTPUsed
	}
	if time.Now().After(rec.ExpiresAt) {
		return ErrOTPExpired
	}
	if rec.Attempts >= otpMaxAttempts {
		return ErrOTPUsed
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rec.CodeHash), []byte(otp)); err != nil {
		attempts := rec.Attempts + 1
		updates := map[string]interface{}{"attempts": attempts}
		if attempts >= otpMaxAttempts {
			updates["isUsed"] = true
		}
		if uerr := s.UpdateOTPRecord(ctx, mobile, reference, updates); uerr != nil {
			return uerr
		}
		return ErrOTPInvalid
	}

	return s.UpdateOTPRecord(ctx, mobile, reference, map[string]interface{}{"isUsed": true})
}
