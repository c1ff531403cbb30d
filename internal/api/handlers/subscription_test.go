package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/planbill/planbill/internal/api/dto"
	"github.com/planbill/planbill/internal/api/middleware"
	"github.com/planbill/planbill/internal/domain/plan"
	"github.com/planbill/planbill/internal/domain/team"
	"github.com/planbill/planbill/internal/domain/user"
	"github.com/planbill/planbill/internal/pkg/logger"
	"github.com/planbill/planbill/internal/pkg/validator"
	"github.com/planbill/planbill/internal/repository/postgres"
	"github.com/planbill/planbill/internal/services"
	"github.com/planbill/planbill/internal/testutil"
)

func authedRequest(method, target string, body []byte, userID int64, params map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)

	return req.WithContext(ctx)
}

// TestSubscriptionLifecycle tests the full subscription flow:
// Activate -> Active -> Replace -> List -> Orders -> Cancel
func TestSubscriptionLifecycle(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	log := logger.New(logger.Config{Level: "error", Format: "json"})
	val := validator.New()

	userRepo := postgres.NewUserRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	planRepo := postgres.NewPlanRepository(db)
	subRepo := postgres.NewSubscriptionRepository(db)

	subService := services.NewSubscriptionService(subRepo, teamRepo, planRepo, log)
	handler := NewSubscriptionHandler(subService, teamRepo, log, val)

	ctx := context.Background()

	owner := &user.User{Email: "owner@example.com", Name: "Owner", Locale: "en"}
	if err := userRepo.Create(ctx, owner); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	tm := &team.Team{Name: "Acme", UserID: owner.ID}
	if err := teamRepo.Create(ctx, tm); err != nil {
		t.Fatalf("seed team: %v", err)
	}

	basic := &plan.Plan{Name: "Basic", Price: 100}
	premium := &plan.Plan{Name: "Premium", Price: 300}
	for _, p := range []*plan.Plan{basic, premium} {
		if err := planRepo.Create(ctx, p); err != nil {
			t.Fatalf("seed plan: %v", err)
		}
	}

	teamParam := map[string]string{"id": strconv.FormatInt(tm.ID, 10)}
	var subscriptionID int64

	t.Run("Activate Subscription", func(t *testing.T) {
		body, _ := json.Marshal(dto.ActivateSubscriptionRequest{PlanID: basic.ID})
		rr := httptest.NewRecorder()
		handler.Activate(rr, authedRequest(http.MethodPost, "/api/v1/teams/1/subscriptions", body, owner.ID, teamParam))

		if rr.Code != http.StatusCreated {
			t.Fatalf("Activate failed with status %v, body: %s", rr.Code, rr.Body.String())
		}

		var response struct {
			Data dto.SubscriptionDTO `json:"data"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if !response.Data.IsActive {
			t.Error("Expected activated subscription to be active")
		}
		if response.Data.PlanID != basic.ID {
			t.Errorf("Expected plan %d, got %d", basic.ID, response.Data.PlanID)
		}
		subscriptionID = response.Data.ID
	})

	t.Run("Get Active Subscription", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.Active(rr, authedRequest(http.MethodGet, "/api/v1/teams/1/subscriptions/active", nil, owner.ID, teamParam))

		if rr.Code != http.StatusOK {
			t.Fatalf("Active failed with status %v", rr.Code)
		}

		var response struct {
			Data dto.SubscriptionDTO `json:"data"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response.Data.ID != subscriptionID {
			t.Errorf("Expected subscription %d, got %d", subscriptionID, response.Data.ID)
		}
	})

	t.Run("Replace Active Subscription", func(t *testing.T) {
		body, _ := json.Marshal(dto.ActivateSubscriptionRequest{PlanID: premium.ID})
		rr := httptest.NewRecorder()
		handler.Activate(rr, authedRequest(http.MethodPost, "/api/v1/teams/1/subscriptions", body, owner.ID, teamParam))

		if rr.Code != http.StatusCreated {
			t.Fatalf("Activate failed with status %v, body: %s", rr.Code, rr.Body.String())
		}

		rr = httptest.NewRecorder()
		handler.List(rr, authedRequest(http.MethodGet, "/api/v1/teams/1/subscriptions", nil, owner.ID, teamParam))
		if rr.Code != http.StatusOK {
			t.Fatalf("List failed with status %v", rr.Code)
		}

		var response struct {
			Data []dto.SubscriptionDTO `json:"data"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(response.Data) != 2 {
			t.Fatalf("Expected 2 subscriptions, got %d", len(response.Data))
		}
		active := 0
		for _, s := range response.Data {
			if s.IsActive {
				active++
				if s.PlanID != premium.ID {
					t.Errorf("Expected active plan %d, got %d", premium.ID, s.PlanID)
				}
			}
		}
		if active != 1 {
			t.Errorf("Expected exactly 1 active subscription, got %d", active)
		}
	})

	t.Run("List Orders", func(t *testing.T) {
		subParam := map[string]string{"id": strconv.FormatInt(subscriptionID, 10)}
		rr := httptest.NewRecorder()
		handler.Orders(rr, authedRequest(http.MethodGet, "/api/v1/subscriptions/1/orders", nil, owner.ID, subParam))

		if rr.Code != http.StatusOK {
			t.Fatalf("Orders failed with status %v", rr.Code)
		}

		var response struct {
			Data []dto.OrderDTO `json:"data"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(response.Data) != 1 {
			t.Fatalf("Expected 1 order, got %d", len(response.Data))
		}
		if response.Data[0].Paid {
			t.Error("Expected opening order to be unpaid")
		}
	})

	t.Run("Cancel Subscription", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.Cancel(rr, authedRequest(http.MethodDelete, "/api/v1/teams/1/subscriptions", nil, owner.ID, teamParam))

		if rr.Code != http.StatusOK {
			t.Fatalf("Cancel failed with status %v, body: %s", rr.Code, rr.Body.String())
		}

		rr = httptest.NewRecorder()
		handler.Active(rr, authedRequest(http.MethodGet, "/api/v1/teams/1/subscriptions/active", nil, owner.ID, teamParam))
		if rr.Code != http.StatusNotFound {
			t.Errorf("Expected 404 after cancel, got %v", rr.Code)
		}
	})
}

func TestSubscriptionHandler_OwnershipChecks(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	log := logger.New(logger.Config{Level: "error", Format: "json"})
	val := validator.New()

	userRepo := postgres.NewUserRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	planRepo := postgres.NewPlanRepository(db)
	subRepo := postgres.NewSubscriptionRepository(db)

	subService := services.NewSubscriptionService(subRepo, teamRepo, planRepo, log)
	handler := NewSubscriptionHandler(subService, teamRepo, log, val)

	ctx := context.Background()

	owner := &user.User{Email: "owner@example.com", Name: "Owner", Locale: "en"}
	intruder := &user.User{Email: "other@example.com", Name: "Other", Locale: "en"}
	for _, u := range []*user.User{owner, intruder} {
		if err := userRepo.Create(ctx, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	tm := &team.Team{Name: "Acme", UserID: owner.ID}
	if err := teamRepo.Create(ctx, tm); err != nil {
		t.Fatalf("seed team: %v", err)
	}

	basic := &plan.Plan{Name: "Basic", Price: 100}
	if err := planRepo.Create(ctx, basic); err != nil {
		t.Fatalf("seed plan: %v", err)
	}

	teamParam := map[string]string{"id": strconv.FormatInt(tm.ID, 10)}
	body, _ := json.Marshal(dto.ActivateSubscriptionRequest{PlanID: basic.ID})

	t.Run("Foreign Team Forbidden", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.Activate(rr, authedRequest(http.MethodPost, "/api/v1/teams/1/subscriptions", body, intruder.ID, teamParam))

		if rr.Code != http.StatusForbidden {
			t.Errorf("Expected 403 for foreign team, got %v, body: %s", rr.Code, rr.Body.String())
		}
	})

	t.Run("Unknown Team Not Found", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.Activate(rr, authedRequest(http.MethodPost, "/api/v1/teams/999/subscriptions", body, owner.ID, map[string]string{"id": "999"}))

		if rr.Code != http.StatusNotFound {
			t.Errorf("Expected 404 for unknown team, got %v", rr.Code)
		}
	})

	t.Run("Unknown Plan Not Found", func(t *testing.T) {
		badBody, _ := json.Marshal(dto.ActivateSubscriptionRequest{PlanID: 999})
		rr := httptest.NewRecorder()
		handler.Activate(rr, authedRequest(http.MethodPost, "/api/v1/teams/1/subscriptions", badBody, owner.ID, teamParam))

		if rr.Code != http.StatusNotFound {
			t.Errorf("Expected 404 for unknown plan, got %v", rr.Code)
		}
	})

	t.Run("Invalid Plan ID Rejected", func(t *testing.T) {
		badBody, _ := json.Marshal(dto.ActivateSubscriptionRequest{PlanID: 0})
		rr := httptest.NewRecorder()
		handler.Activate(rr, authedRequest(http.MethodPost, "/api/v1/teams/1/subscriptions", badBody, owner.ID, teamParam))

		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for invalid plan id, got %v", rr.Code)
		}
	})

	t.Run("Foreign Subscription Hidden", func(t *testing.T) {
		sub, err := subService.Activate(ctx, tm.ID, basic.ID)
		if err != nil {
			t.Fatalf("Activate() error = %v", err)
		}
		subParam := map[string]string{"id": strconv.FormatInt(sub.ID, 10)}

		// Orders and activations belong to the team owner only.
		rr := httptest.NewRecorder()
		handler.Orders(rr, authedRequest(http.MethodGet, "/api/v1/subscriptions/1/orders", nil, intruder.ID, subParam))
		if rr.Code != http.StatusForbidden {
			t.Errorf("Orders: expected 403 for a foreign subscription, got %v, body: %s", rr.Code, rr.Body.String())
		}

		rr = httptest.NewRecorder()
		handler.Activations(rr, authedRequest(http.MethodGet, "/api/v1/subscriptions/1/activations", nil, intruder.ID, subParam))
		if rr.Code != http.StatusForbidden {
			t.Errorf("Activations: expected 403 for a foreign subscription, got %v, body: %s", rr.Code, rr.Body.String())
		}

		rr = httptest.NewRecorder()
		handler.Orders(rr, authedRequest(http.MethodGet, "/api/v1/subscriptions/1/orders", nil, owner.ID, subParam))
		if rr.Code != http.StatusOK {
			t.Errorf("Orders: expected 200 for the owner, got %v, body: %s", rr.Code, rr.Body.String())
		}
	})
}
