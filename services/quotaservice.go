package services

import (
	"context"

	"labourconnect/store"
)

const (
	// FreeWorkerLimit is how many workers a professional can list on the
	// free plan.
	FreeWorkerLimit = 10
	// PricePerExtraWorker is the monthly charge in rupees for each worker
	// above the free limit.
	PricePerExtraWorker = 10
)

// PlanStatus describes a professional's standing against the free tier.
type PlanStatus struct {
	WorkersCount int  `json:"workersCount"`
	FreeLimit    int  `json:"freeLimit"`
	ExtraWorkers int  `json:"extraWorkers"`
	MonthlyCost  int  `json:"monthlyCost"`
	OverLimit    bool `json:"overLimit"`
}

// PlanFor computes the billing view of a workers count. Deactivated
// workers still count; only the recount below can shrink the number.
func PlanFor(workersCount int) PlanStatus {
	status := PlanStatus{
		WorkersCount: workersCount,
		FreeLimit:    FreeWorkerLimit,
	}
	if workersCount > FreeWorkerLimit {
		status.ExtraWorkers = workersCount - FreeWorkerLimit
		status.MonthlyCost = status.ExtraWorkers * PricePerExtraWorker
		status.OverLimit = true
	}
	return status
}

// RecountWorkers re-derives workersCount from the worker rows and writes
// it back. It exists to reconcile drift, not as the hot path: adds keep
// the counter transactionally, this is a read-then-write and two
// concurrent recounts can race each other.
func RecountWorkers(ctx context.Context, s store.Store, professionalID string) (int, error) {
	count, err := s.CountWorkersByProfessional(ctx, professionalID)
	if err != nil {
		return 0, err
	}
	if err := s.SetWorkersCount(ctx, professionalID, count); err != nil {
		return 0, err
	}
	return count, nil
}
