package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"labourconnect/services"
	"labourconnect/store"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET_KEY", "test-secret")
	os.Setenv("JWT_REFRESH_SECRET_KEY", "test-refresh-secret")
	os.Exit(m.Run())
}

type captureSender struct {
	mu       sync.Mutex
	messages []string
}

func (c *captureSender) Send(ctx context.Context, mobile, message string) error {
	c.mu.Lock()
	c.messages = append(c.messages, message)
	c.mu.Unlock()
	return nil
}

func (c *captureSender) lastCode(t *testing.T) string {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) == 0 {
		t.Fatal("no SMS sent")
	}
	msg := c.messages[len(c.messages)-1]
	const marker = "code is "
	idx := strings.Index(msg, marker)
	if idx == -1 {
		t.Fatalf("unexpected SMS format: %q", msg)
	}
	return msg[idx+len(marker) : idx+len(marker)+6]
}

func newAuthRouter(s store.Store, sender services.SMSSender) *gin.Engine {
	router := gin.New()
	OTPController(router, s, sender, services.AllowAllVerifier{})
	RegisterController(router, s)
	SessionController(router, s)
	CaptchaController(router, services.AllowAllVerifier{})
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func TestRegisterWorker(t *testing.T) {
	s := store.NewMemoryStore()
	router := newAuthRouter(s, &captureSender{})

	w := postJSON(t, router, "/auth/register", map[string]interface{}{
		"fullName":   "Ramesh Yadav",
		"mobile":     "9876501234",
		"userType":   "worker",
		"profession": "electrician",
		"experience": "3-5",
		"dailyRate":  900,
		"area":       "Pune",
	}, nil)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["accessToken"] == nil || body["refreshToken"] == nil {
		t.Error("registration should auto-login with a token pair")
	}

	user := body["user"].(map[string]interface{})
	if user["mobile"] != "+919876501234" {
		t.Errorf("mobile = %v, want normalized +91 form", user["mobile"])
	}
	if user["isActive"] != true || user["isVerified"] != false {
		t.Errorf("flags = active %v verified %v, want true/false", user["isActive"], user["isVerified"])
	}
	if user["rating"].(float64) != 0 {
		t.Errorf("rating = %v, want 0", user["rating"])
	}

	// Registration feeds the area and profession counters.
	areas, err := s.ListAreas(context.Background())
	if err != nil || len(areas) != 1 || areas[0].Slug != "pune" {
		t.Errorf("areas = %v (err %v), want one entry pune", areas, err)
	}
	professions, err := s.ListProfessions(context.Background())
	if err != nil || len(professions) != 1 || professions[0].Code != "electrician" {
		t.Errorf("professions = %v (err %v), want one entry electrician", professions, err)
	}
}

func TestRegisterProfessionalFeedsAggregates(t *testing.T) {
	s := store.NewMemoryStore()
	router := newAuthRouter(s, &captureSender{})

	w := postJSON(t, router, "/auth/register", map[string]interface{}{
		"fullName":   "Hyderabad Builders",
		"mobile":     "9876501242",
		"userType":   "professional",
		"profession": "mason",
		"area":       "Hyderabad",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	areas, err := s.ListAreas(context.Background())
	if err != nil || len(areas) != 1 || areas[0].Slug != "hyderabad" {
		t.Errorf("areas = %v (err %v), want hyderabad counted for professional registration", areas, err)
	}
	professions, err := s.ListProfessions(context.Background())
	if err != nil || len(professions) != 1 || professions[0].Code != "mason" {
		t.Errorf("professions = %v (err %v), want mason counted for professional registration", professions, err)
	}
}

func TestRegisterDuplicateMobile(t *testing.T) {
	s := store.NewMemoryStore()
	router := newAuthRouter(s, &captureSender{})

	payload := map[string]interface{}{
		"fullName": "First",
		"mobile":   "9876501235",
		"userType": "customer",
	}
	if w := postJSON(t, router, "/auth/register", payload, nil); w.Code != http.StatusCreated {
		t.Fatalf("first register status = %d", w.Code)
	}

	payload["fullName"] = "Second"
	w := postJSON(t, router, "/auth/register", payload, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409", w.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	router := newAuthRouter(store.NewMemoryStore(), &captureSender{})

	cases := []map[string]interface{}{
		{"fullName": "X", "mobile": "12345", "userType": "worker", "profession": "mason"}, // bad mobile
		{"fullName": "X", "mobile": "9876501236", "userType": "alien"},                    // bad type
		{"fullName": "X", "mobile": "9876501236", "userType": "worker"},                   // worker without profession
		{"fullName": "X", "mobile": "9876501236", "userType": "professional"},             // professional without profession
		{"mobile": "9876501236", "userType": "customer"},                                  // missing name
	}
	for i, payload := range cases {
		if w := postJSON(t, router, "/auth/register", payload, nil); w.Code != http.StatusBadRequest {
			t.Errorf("case %d: status = %d, want 400", i, w.Code)
		}
	}
}

func TestOTPLoginFlow(t *testing.T) {
	s := store.NewMemoryStore()
	sender := &captureSender{}
	router := newAuthRouter(s, sender)

	// Unknown mobile: code verifies but no account exists yet.
	w := postJSON(t, router, "/auth/otp/send", map[string]interface{}{"mobile": "9876501237"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("send status = %d, body %s", w.Code, w.Body.String())
	}
	ref := decodeBody(t, w)["ref"].(string)

	w = postJSON(t, router, "/auth/otp/verify", map[string]interface{}{
		"mobile": "9876501237",
		"ref":    ref,
		"otp":    sender.lastCode(t),
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("verify status = %d, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["registered"] != false {
		t.Errorf("registered = %v, want false for unknown mobile", body["registered"])
	}

	// Register, then the same flow logs in.
	if w := postJSON(t, router, "/auth/register", map[string]interface{}{
		"fullName": "Sita Devi",
		"mobile":   "9876501237",
		"userType": "customer",
	}, nil); w.Code != http.StatusCreated {
		t.Fatalf("register status = %d", w.Code)
	}

	w = postJSON(t, router, "/auth/otp/send", map[string]interface{}{"mobile": "9876501237"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("second send status = %d", w.Code)
	}
	ref = decodeBody(t, w)["ref"].(string)

	w = postJSON(t, router, "/auth/otp/verify", map[string]interface{}{
		"mobile": "9876501237",
		"ref":    ref,
		"otp":    sender.lastCode(t),
	}, nil)
	body = decodeBody(t, w)
	if body["registered"] != true || body["accessToken"] == nil {
		t.Errorf("login verify = %v, want registered true with tokens", body)
	}
}

func TestOTPSendRejectsBadMobile(t *testing.T) {
	router := newAuthRouter(store.NewMemoryStore(), &captureSender{})
	w := postJSON(t, router, "/auth/otp/send", map[string]interface{}{"mobile": "5551234"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 before any send", w.Code)
	}
}

func TestVerifyOTPWrongCode(t *testing.T) {
	s := store.NewMemoryStore()
	sender := &captureSender{}
	router := newAuthRouter(s, sender)

	w := postJSON(t, router, "/auth/otp/send", map[string]interface{}{"mobile": "9876501238"}, nil)
	ref := decodeBody(t, w)["ref"].(string)

	w = postJSON(t, router, "/auth/otp/verify", map[string]interface{}{
		"mobile": "9876501238",
		"ref":    ref,
		"otp":    "000000",
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("wrong code status = %d, want 400", w.Code)
	}
}

func TestRefreshRotation(t *testing.T) {
	s := store.NewMemoryStore()
	router := newAuthRouter(s, &captureSender{})

	w := postJSON(t, router, "/auth/register", map[string]interface{}{
		"fullName": "Rotate Me",
		"mobile":   "9876501239",
		"userType": "customer",
	}, nil)
	body := decodeBody(t, w)
	refreshToken := body["refreshToken"].(string)

	w = postJSON(t, router, "/auth/refresh", nil, map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", refreshToken),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, body %s", w.Code, w.Body.String())
	}
	rotated := decodeBody(t, w)
	if rotated["refreshToken"] == refreshToken {
		t.Error("refresh should rotate the token")
	}

	// The old token's hash was replaced; replaying it fails.
	w = postJSON(t, router, "/auth/refresh", nil, map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", refreshToken),
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("replayed refresh status = %d, want 401", w.Code)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	s := store.NewMemoryStore()
	router := newAuthRouter(s, &captureSender{})

	w := postJSON(t, router, "/auth/register", map[string]interface{}{
		"fullName": "Leaving Soon",
		"mobile":   "9876501240",
		"userType": "customer",
	}, nil)
	body := decodeBody(t, w)
	accessToken := body["accessToken"].(string)
	refreshToken := body["refreshToken"].(string)

	w = postJSON(t, router, "/auth/logout", nil, map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", accessToken),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("logout status = %d, body %s", w.Code, w.Body.String())
	}

	w = postJSON(t, router, "/auth/refresh", nil, map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", refreshToken),
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout status = %d, want 401", w.Code)
	}
}

func TestAuthMe(t *testing.T) {
	s := store.NewMemoryStore()
	router := newAuthRouter(s, &captureSender{})

	w := postJSON(t, router, "/auth/register", map[string]interface{}{
		"fullName": "Session Holder",
		"mobile":   "9876501241",
		"userType": "customer",
	}, nil)
	accessToken := decodeBody(t, w)["accessToken"].(string)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	user := body["user"].(map[string]interface{})
	if user["fullName"] != "Session Holder" {
		t.Errorf("fullName = %v", user["fullName"])
	}
}

func TestCaptchaEndpoint(t *testing.T) {
	router := newAuthRouter(store.NewMemoryStore(), &captureSender{})

	w := postJSON(t, router, "/auth/captcha", map[string]interface{}{"token": "anything"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("captcha status = %d", w.Code)
	}

	w = postJSON(t, router, "/auth/captcha", map[string]interface{}{}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing token status = %d, want 400", w.Code)
	}
}
