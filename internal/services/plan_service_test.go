package services

import (
	"context"
	"testing"

	apperrors "github.com/planbill/planbill/internal/pkg/errors"
	"github.com/planbill/planbill/internal/pkg/logger"
	"github.com/planbill/planbill/internal/testutil"
)

func TestPlanService_Create(t *testing.T) {
	mockRepo := testutil.NewMockPlanRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewPlanService(mockRepo, log)

	tests := []struct {
		name     string
		planName string
		price    int64
		wantErr  bool
	}{
		{
			name:     "create plan successfully",
			planName: "Basic",
			price:    100,
			wantErr:  false,
		},
		{
			name:     "zero price is allowed",
			planName: "Free",
			price:    0,
			wantErr:  false,
		},
		{
			name:     "duplicate name is allowed",
			planName: "Basic",
			price:    150,
			wantErr:  false,
		},
		{
			name:     "negative price is rejected",
			planName: "Broken",
			price:    -1,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			p, err := service.Create(ctx, tt.planName, tt.price)

			if (err != nil) != tt.wantErr {
				t.Errorf("Create() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr {
				if p == nil {
					t.Error("Create() returned nil plan")
					return
				}
				if p.ID == 0 {
					t.Error("Create() did not assign an ID")
				}
				if p.Name != tt.planName || p.Price != tt.price {
					t.Errorf("Create() = %+v, want name %q price %d", p, tt.planName, tt.price)
				}
			}
		})
	}
}

func TestPlanService_Update(t *testing.T) {
	mockRepo := testutil.NewMockPlanRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewPlanService(mockRepo, log)

	ctx := context.Background()
	created, err := service.Create(ctx, "Basic", 100)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := service.Update(ctx, created.ID, "Basic Plus", 150)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != "Basic Plus" || updated.Price != 150 {
		t.Errorf("Update() = %+v, want name %q price %d", updated, "Basic Plus", 150)
	}

	got, err := service.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "Basic Plus" || got.Price != 150 {
		t.Errorf("Get() after update = %+v, want name %q price %d", got, "Basic Plus", 150)
	}
}

func TestPlanService_Update_NotFound(t *testing.T) {
	mockRepo := testutil.NewMockPlanRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewPlanService(mockRepo, log)

	ctx := context.Background()
	created, err := service.Create(ctx, "Basic", 100)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = service.Update(ctx, 999, "Ghost", 500)
	if err == nil {
		t.Fatal("Update() expected error for missing plan")
	}
	if !apperrors.IsNotFound(err) {
		t.Errorf("Update() error = %v, want not found", err)
	}

	// Existing plans stay untouched
	got, err := service.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "Basic" || got.Price != 100 {
		t.Errorf("Get() after failed update = %+v, want unchanged plan", got)
	}
}

func TestPlanService_ProratedUpgradePrice(t *testing.T) {
	mockRepo := testutil.NewMockPlanRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewPlanService(mockRepo, log)

	ctx := context.Background()
	basic, err := service.Create(ctx, "Basic", 100)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	premium, err := service.Create(ctx, "Premium", 300)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	sameAsBasic, err := service.Create(ctx, "Basic Mirror", 100)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name          string
		currentPlanID int64
		newPlanID     int64
		daysRemaining int
		want          float64
		wantErr       bool
		wantMessage   string
	}{
		{
			name:          "half period upgrade",
			currentPlanID: basic.ID,
			newPlanID:     premium.ID,
			daysRemaining: 15,
			want:          100,
		},
		{
			name:          "full period upgrade",
			currentPlanID: basic.ID,
			newPlanID:     premium.ID,
			daysRemaining: 30,
			want:          200,
		},
		{
			name:          "zero days remaining costs nothing",
			currentPlanID: basic.ID,
			newPlanID:     premium.ID,
			daysRemaining: 0,
			want:          0,
		},
		{
			name:          "fractional daily rate stays unrounded",
			currentPlanID: basic.ID,
			newPlanID:     premium.ID,
			daysRemaining: 1,
			want:          200.0 / 30.0,
		},
		{
			name:          "negative days rejected",
			currentPlanID: basic.ID,
			newPlanID:     premium.ID,
			daysRemaining: -1,
			wantErr:       true,
			wantMessage:   "Remaining days should not be negative",
		},
		{
			name:          "missing current plan rejected",
			currentPlanID: 999,
			newPlanID:     premium.ID,
			daysRemaining: 10,
			wantErr:       true,
			wantMessage:   "Invalid plan IDs",
		},
		{
			name:          "missing new plan rejected",
			currentPlanID: basic.ID,
			newPlanID:     999,
			daysRemaining: 10,
			wantErr:       true,
			wantMessage:   "Invalid plan IDs",
		},
		{
			name:          "downgrade rejected",
			currentPlanID: premium.ID,
			newPlanID:     basic.ID,
			daysRemaining: 10,
			wantErr:       true,
			wantMessage:   "New plan price must be greater than current plan price for an upgrade",
		},
		{
			name:          "equal price rejected",
			currentPlanID: basic.ID,
			newPlanID:     sameAsBasic.ID,
			daysRemaining: 10,
			wantErr:       true,
			wantMessage:   "New plan price must be greater than current plan price for an upgrade",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.ProratedUpgradePrice(ctx, tt.currentPlanID, tt.newPlanID, tt.daysRemaining)

			if (err != nil) != tt.wantErr {
				t.Errorf("ProratedUpgradePrice() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErr {
				appErr, ok := err.(*apperrors.AppError)
				if !ok {
					t.Errorf("ProratedUpgradePrice() error type = %T, want *AppError", err)
					return
				}
				if appErr.Code != apperrors.ErrCodeBadRequest {
					t.Errorf("ProratedUpgradePrice() code = %v, want %v", appErr.Code, apperrors.ErrCodeBadRequest)
				}
				if appErr.Message != tt.wantMessage {
					t.Errorf("ProratedUpgradePrice() message = %q, want %q", appErr.Message, tt.wantMessage)
				}
				return
			}

			if got != tt.want {
				t.Errorf("ProratedUpgradePrice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlanService_ProratedUpgradePrice_RepoError(t *testing.T) {
	mockRepo := testutil.NewMockPlanRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewPlanService(mockRepo, log)

	ctx := context.Background()
	mockRepo.GetError = apperrors.DatabaseError("query failed", nil)

	_, err := service.ProratedUpgradePrice(ctx, 1, 2, 10)
	if err == nil {
		t.Fatal("ProratedUpgradePrice() expected error when repository fails")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("ProratedUpgradePrice() error type = %T, want *AppError", err)
	}
	if appErr.Code == apperrors.ErrCodeBadRequest {
		t.Error("ProratedUpgradePrice() repo failure must not be reported as bad input")
	}
}
