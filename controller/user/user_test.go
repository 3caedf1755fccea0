package user

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"labourconnect/model"
	"labourconnect/services"
	"labourconnect/store"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET_KEY", "test-secret")
	os.Exit(m.Run())
}

func setup(t *testing.T) (*gin.Engine, store.Store, *services.MemoryUploader, string, string) {
	t.Helper()
	s := store.NewMemoryStore()
	uploader := services.NewMemoryUploader()
	router := gin.New()
	UserController(router, s, uploader)

	id, err := s.CreateUser(context.Background(), model.User{
		FullName:   "Profile Owner",
		Mobile:     "+919000200001",
		UserType:   model.UserTypeWorker,
		Profession: "carpenter",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := services.CreateAccessToken(id, model.UserTypeWorker)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	return router, s, uploader, id, token
}

func TestGetProfile(t *testing.T) {
	router, _, _, _, token := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var body struct {
		User model.User `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.User.FullName != "Profile Owner" {
		t.Errorf("fullName = %q", body.User.FullName)
	}
}

func TestGetProfileRequiresToken(t *testing.T) {
	router, _, _, _, _ := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestUpdateProfile(t *testing.T) {
	router, s, _, id, token := setup(t)

	payload, _ := json.Marshal(map[string]interface{}{
		"experience": "5-10",
		"dailyRate":  1100,
		"area":       "Nagpur",
	})
	req := httptest.NewRequest(http.MethodPut, "/user/profile", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	user, err := s.GetUserByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.Experience != "5-10" || user.DailyRate != 1100 || user.Area != "Nagpur" {
		t.Errorf("user = %+v, update not applied", user)
	}
	// Untouched fields survive.
	if user.Profession != "carpenter" {
		t.Errorf("profession = %q, want carpenter untouched", user.Profession)
	}
}

func TestUpdateProfileRejectsBadExperience(t *testing.T) {
	router, _, _, _, token := setup(t)

	payload, _ := json.Marshal(map[string]interface{}{"experience": "99 years"})
	req := httptest.NewRequest(http.MethodPut, "/user/profile", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func multipartPicture(t *testing.T, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="picture"; filename="me.png"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	writer.Close()
	return buf, writer.FormDataContentType()
}

func TestUploadProfilePicture(t *testing.T) {
	router, s, uploader, id, token := setup(t)

	body, contentType := multipartPicture(t, "image/png", []byte("fake png bytes"))
	req := httptest.NewRequest(http.MethodPost, "/user/profile-picture", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	stored, ok := uploader.Picture(id)
	if !ok || string(stored) != "fake png bytes" {
		t.Error("picture bytes not stored")
	}

	user, _ := s.GetUserByID(context.Background(), id)
	if user.ProfileURL != "/profile-pictures/"+id {
		t.Errorf("profileUrl = %q", user.ProfileURL)
	}
}

func TestUploadProfilePictureRejectsNonImage(t *testing.T) {
	router, _, _, _, token := setup(t)

	body, contentType := multipartPicture(t, "application/pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/user/profile-picture", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
