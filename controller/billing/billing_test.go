package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

func TestGetPlan(t *testing.T) {
	s := store.NewMemoryStore()
	router := gin.New()
	BillingController(router, s)
	ctx := context.Background()

	profID, err := s.CreateUser(ctx, model.User{
		FullName: "Billed Contractor",
		Mobile:   "+919000300001",
		UserType: model.UserTypeProfessional,
	})
	if err != nil {
		t.Fatalf("create professional: %v", err)
	}
	for i := 0; i < services.FreeWorkerLimit+2; i++ {
		if _, err := s.AddWorker(ctx, model.Worker{FullName: "W", Profession: "helper", AddedBy: profID}); err != nil {
			t.Fatalf("add worker: %v", err)
		}
	}

	token, err := services.CreateAccessToken(profID, model.UserTypeProfessional)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/billing/plan", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var body struct {
		Plan services.PlanStatus `json:"plan"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Plan.WorkersCount != services.FreeWorkerLimit+2 {
		t.Errorf("workersCount = %d, want %d", body.Plan.WorkersCount, services.FreeWorkerLimit+2)
	}
	if body.Plan.MonthlyCost != 2*services.PricePerExtraWorker {
		t.Errorf("monthlyCost = %d, want %d", body.Plan.MonthlyCost, 2*services.PricePerExtraWorker)
	}
}

func TestGetPlanRequiresProfessional(t *testing.T) {
	s := store.NewMemoryStore()
	router := gin.New()
	BillingController(router, s)

	custID, err := s.CreateUser(context.Background(), model.User{
		FullName: "Just Browsing",
		Mobile:   "+919000300002",
		UserType: model.UserTypeCustomer,
	})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	token, err := services.CreateAccessToken(custID, model.UserTypeCustomer)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/billing/plan", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}
