package store

import (
	"context"
	"fmt"

	"labourconnect/model"
)

// SeedDemoData loads a small fixture set so the service is browsable
// without a Firebase project: one registered worker, one customer, and a
// labour contractor with a three-worker crew.
func SeedDemoData(ctx context.Context, s Store) error {
	workerID, err := s.CreateUser(ctx, model.User{
		FullName:   "Rajesh Kumar",
		Mobile:     "+919876543210",
		UserType:   model.UserTypeWorker,
		Profession: "electrician",
		Experience: "5-10",
		DailyRate:  1000,
		Skills:     "Wiring, Repair, Installation",
		Address:    "123, Andheri East",
		Area:       "Mumbai",
	})
	if err != nil {
		return fmt.Errorf("seed worker user: %w", err)
	}
	if err := s.UpdateUser(ctx, workerID, map[string]interface{}{
		"isVerified":    true,
		"rating":        4.5,
		"jobsCompleted": 25,
	}); err != nil {
		return err
	}
	if err := s.UpsertAreaAggregate(ctx, "Mumbai"); err != nil {
		return err
	}
	if err := s.UpsertProfessionAggregate(ctx, "electrician"); err != nil {
		return err
	}

	if _, err := s.CreateUser(ctx, model.User{
		FullName: "Amit Sharma",
		Mobile:   "+919876543211",
		UserType: model.UserTypeCustomer,
		Area:     "Delhi",
	}); err != nil {
		return fmt.Errorf("seed customer user: %w", err)
	}

	profID, err := s.CreateUser(ctx, model.User{
		FullName: "Construction Company",
		Mobile:   "+919876543212",
		UserType: model.UserTypeProfessional,
		Area:     "Bangalore",
	})
	if err != nil {
		return fmt.Errorf("seed professional user: %w", err)
	}

	crew := []model.Worker{
		{
			FullName:   "Rajesh Kumar",
			Mobile:     "+919876543210",
			Profession: "electrician",
			Experience: "5-10",
			DailyRate:  1000,
			Skills:     "Wiring, Repair, Installation",
			Area:       "Mumbai",
		},
		{
			FullName:   "Suresh Patel",
			Mobile:     "+919876543211",
			Profession: "plumber",
			Experience: "3-5",
			DailyRate:  800,
			Skills:     "Pipe fitting, Repair",
			Area:       "Delhi",
		},
		{
			FullName:   "Mohan Singh",
			Mobile:     "+919876543212",
			Profession: "mason",
			Experience: "10+",
			DailyRate:  1200,
			Skills:     "Construction, Tile work",
			Area:       "Bangalore",
		},
	}
	for _, worker := range crew {
		worker.AddedBy = profID
		if _, err := s.AddWorker(ctx, worker); err != nil {
			return fmt.Errorf("seed worker %s: %w", worker.FullName, err)
		}
	}
	return nil
}
