package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"labourconnect/model"
)

const (
	usersCollection         = "users"
	mobileIndexCollection   = "mobileIndex"
	workersCollection       = "workers"
	areasCollection         = "areas"
	professionsCollection   = "professions"
	otpRecordsCollection    = "otpRecords"
	otpCodesSubcollection   = "codes"
	mobileBlockedCollection = "mobileBlocked"
	refreshTokensCollection = "refreshTokens"
)

// FirestoreStore implements Store on the hosted document backend. Only
// equality predicates are issued; anything richer is the caller's problem.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// ---------- users ----------

func (s *FirestoreStore) CreateUser(ctx context.Context, user model.User) (string, error) {
	docID := uuid.New().String()
	now := time.Now()

	user.UserID = docID
	user.IsActive = true
	user.IsVerified = false
	user.Rating = 0
	user.JobsCompleted = 0
	user.ProfileViews = 0
	user.CreatedAt = now
	user.UpdatedAt = now

	docRef := s.client.Collection(usersCollection).Doc(docID)
	indexRef := s.client.Collection(mobileIndexCollection).Doc(user.Mobile)

	// The query alone locks nothing, so the transaction also creates a
	// mobileIndex/{mobile} sentinel. Two concurrent registrations both
	// reach tx.Create on the same sentinel and one of them fails the
	// commit with AlreadyExists.
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		query := s.client.Collection(usersCollection).Where("mobile", "==", user.Mobile).Limit(1)
		docs, err := tx.Documents(query).GetAll()
		if err != nil {
			return fmt.Errorf("check existing mobile: %w", err)
		}
		if len(docs) > 0 {
			return ErrAlreadyExists
		}
		if err := tx.Create(indexRef, map[string]interface{}{
			"mobile":    user.Mobile,
			"userId":    docID,
			"createdAt": now,
		}); err != nil {
			return err
		}
		return tx.Create(docRef, user)
	})
	if status.Code(err) == codes.AlreadyExists {
		return "", ErrAlreadyExists
	}
	if err != nil {
		return "", err
	}
	return docID, nil
}

func (s *FirestoreStore) UpdateUser(ctx context.Context, userID string, updates map[string]interface{}) error {
	updates["updatedAt"] = time.Now()

	var fsUpdates []firestore.Update
	for field, value := range updates {
		fsUpdates = append(fsUpdates, firestore.Update{Path: field, Value: value})
	}

	_, err := s.client.Collection(usersCollection).Doc(userID).Update(ctx, fsUpdates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func (s *FirestoreStore) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	snap, err := s.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := snap.DataTo(&user); err != nil {
		return model.User{}, fmt.Errorf("parse user: %w", err)
	}
	return user, nil
}

func (s *FirestoreStore) GetUserByMobile(ctx context.Context, mobile string) (model.User, error) {
	query := s.client.Collection(usersCollection).Where("mobile", "==", mobile).Limit(1)
	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return model.User{}, err
	}
	if len(docs) == 0 {
		return model.User{}, ErrNotFound
	}

	var user model.User
	if err := docs[0].DataTo(&user); err != nil {
		return model.User{}, fmt.Errorf("parse user: %w", err)
	}
	return user, nil
}

// ---------- workers ----------

// AddWorker creates the worker row and bumps the professional's
// workersCount in the same transaction, so two concurrent adds can never
// lose an update.
func (s *FirestoreStore) AddWorker(ctx context.Context, worker model.Worker) (string, error) {
	docID := uuid.New().String()
	now := time.Now()

	worker.WorkerID = docID
	worker.AddedAt = now
	worker.UpdatedAt = now
	worker.IsActive = true
	worker.IsVerified = false
	worker.Rating = 0
	worker.JobsCompleted = 0

	workerRef := s.client.Collection(workersCollection).Doc(docID)
	profRef := s.client.Collection(usersCollection).Doc(worker.AddedBy)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(workerRef, worker); err != nil {
			return err
		}
		return tx.Update(profRef, []firestore.Update{
			{Path: "workersCount", Value: firestore.Increment(1)},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		return "", err
	}
	return docID, nil
}

func (s *FirestoreStore) GetWorkerByID(ctx context.Context, workerID string) (model.Worker, error) {
	snap, err := s.client.Collection(workersCollection).Doc(workerID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return model.Worker{}, ErrNotFound
	}
	if err != nil {
		return model.Worker{}, err
	}

	var worker model.Worker
	if err := snap.DataTo(&worker); err != nil {
		return model.Worker{}, fmt.Errorf("parse worker: %w", err)
	}
	return worker, nil
}

func (s *FirestoreStore) UpdateWorker(ctx context.Context, workerID string, updates map[string]interface{}) error {
	updates["updatedAt"] = time.Now()

	var fsUpdates []firestore.Update
	for field, value := range updates {
		fsUpdates = append(fsUpdates, firestore.Update{Path: field, Value: value})
	}

	_, err := s.client.Collection(workersCollection).Doc(workerID).Update(ctx, fsUpdates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

// DeactivateWorker flips isActive off. Worker rows are never physically
// removed, and the quota count keeps counting them (the recount query does
// not filter on isActive, so increment and recount stay in agreement).
func (s *FirestoreStore) DeactivateWorker(ctx context.Context, workerID string) error {
	return s.UpdateWorker(ctx, workerID, map[string]interface{}{"isActive": false})
}

func (s *FirestoreStore) ListWorkers(ctx context.Context, filter WorkerFilter) ([]model.Worker, error) {
	query := s.client.Collection(workersCollection).Query
	if filter.Area != "" {
		query = query.Where("area", "==", filter.Area)
	}
	if filter.Profession != "" {
		query = query.Where("profession", "==", filter.Profession)
	}
	if filter.ActiveOnly {
		query = query.Where("isActive", "==", true)
	}
	return s.collectWorkers(ctx, query)
}

func (s *FirestoreStore) ListWorkersByProfessional(ctx context.Context, professionalID string) ([]model.Worker, error) {
	query := s.client.Collection(workersCollection).Where("addedBy", "==", professionalID)
	return s.collectWorkers(ctx, query)
}

func (s *FirestoreStore) collectWorkers(ctx context.Context, query firestore.Query) ([]model.Worker, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	workers := []model.Worker{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var worker model.Worker
		if err := doc.DataTo(&worker); err != nil {
			return nil, fmt.Errorf("parse worker: %w", err)
		}
		workers = append(workers, worker)
	}
	return workers, nil
}

func (s *FirestoreStore) CountWorkersByProfessional(ctx context.Context, professionalID string) (int, error) {
	docs, err := s.client.Collection(workersCollection).
		Where("addedBy", "==", professionalID).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

func (s *FirestoreStore) SetWorkersCount(ctx context.Context, professionalID string, count int) error {
	return s.UpdateUser(ctx, professionalID, map[string]interface{}{"workersCount": count})
}

// ---------- aggregates ----------

func (s *FirestoreStore) UpsertAreaAggregate(ctx context.Context, name string) error {
	slug := Slugify(name)
	if slug == "" {
		return fmt.Errorf("area name %q produces an empty slug", name)
	}

	_, err := s.client.Collection(areasCollection).Doc(slug).Set(ctx, map[string]interface{}{
		"slug":        slug,
		"name":        name,
		"workerCount": firestore.Increment(1),
		"updatedAt":   time.Now(),
	}, firestore.MergeAll)
	return err
}

func (s *FirestoreStore) UpsertProfessionAggregate(ctx context.Context, code string) error {
	_, err := s.client.Collection(professionsCollection).Doc(code).Set(ctx, map[string]interface{}{
		"code":        code,
		"name":        model.ProfessionDisplayName(code),
		"workerCount": firestore.Increment(1),
		"updatedAt":   time.Now(),
	}, firestore.MergeAll)
	return err
}

func (s *FirestoreStore) ListAreas(ctx context.Context) ([]model.Area, error) {
	iter := s.client.Collection(areasCollection).
		OrderBy("workerCount", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	areas := []model.Area{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var area model.Area
		if err := doc.DataTo(&area); err != nil {
			return nil, fmt.Errorf("parse area: %w", err)
		}
		areas = append(areas, area)
	}
	return areas, nil
}

func (s *FirestoreStore) ListProfessions(ctx context.Context) ([]model.Profession, error) {
	iter := s.client.Collection(professionsCollection).
		OrderBy("workerCount", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	professions := []model.Profession{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var prof model.Profession
		if err := doc.DataTo(&prof); err != nil {
			return nil, fmt.Errorf("parse profession: %w", err)
		}
		professions = append(professions, prof)
	}
	return professions, nil
}

// ---------- otp ----------

func (s *FirestoreStore) otpCodeRef(mobile, reference string) *firestore.DocumentRef {
	return s.client.Collection(otpRecordsCollection).Doc(mobile).
		Collection(otpCodesSubcollection).Doc(reference)
}

func (s *FirestoreStore) SaveOTPRecord(ctx context.Context, rec model.OTPRecord) error {
	_, err := s.otpCodeRef(rec.Mobile, rec.Reference).Set(ctx, rec)
	return err
}

func (s *FirestoreStore) GetOTPRecord(ctx context.Context, mobile, reference string) (model.OTPRecord, error) {
	snap, err := s.otpCodeRef(mobile, reference).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return model.OTPRecord{}, ErrNotFound
	}
	if err != nil {
		return model.OTPRecord{}, err
	}

	var rec model.OTPRecord
	if err := snap.DataTo(&rec); err != nil {
		return model.OTPRecord{}, fmt.Errorf("parse otp record: %w", err)
	}
	return rec, nil
}

func (s *FirestoreStore) UpdateOTPRecord(ctx context.Context, mobile, reference string, updates map[string]interface{}) error {
	var fsUpdates []firestore.Update
	for field, value := range updates {
		fsUpdates = append(fsUpdates, firestore.Update{Path: field, Value: value})
	}

	_, err := s.otpCodeRef(mobile, reference).Update(ctx, fsUpdates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

// CountLiveOTPRecords counts codes for a mobile that are unused and not
// yet expired, for the resend throttle.
func (s *FirestoreStore) CountLiveOTPRecords(ctx context.Context, mobile string) (int, error) {
	iter := s.client.Collection(otpRecordsCollection).Doc(mobile).
		Collection(otpCodesSubcollection).Documents(ctx)
	defer iter.Stop()

	count := 0
	now := time.Now()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, err
		}

		var rec model.OTPRecord
		if err := doc.DataTo(&rec); err != nil {
			count++
			continue
		}
		if !rec.IsUsed && now.Before(rec.ExpiresAt) {
			count++
		}
	}
	return count, nil
}

func (s *FirestoreStore) BlockMobile(ctx context.Context, mobile string, until time.Time) error {
	_, err := s.client.Collection(mobileBlockedCollection).Doc(mobile).Set(ctx, model.MobileBlock{
		Mobile:    mobile,
		CreatedAt: time.Now(),
		ExpiresAt: until,
	})
	return err
}

func (s *FirestoreStore) IsMobileBlocked(ctx context.Context, mobile string) (bool, error) {
	docRef := s.client.Collection(mobileBlockedCollection).Doc(mobile)
	snap, err := docRef.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var block model.MobileBlock
	if err := snap.DataTo(&block); err != nil {
		return false, fmt.Errorf("parse block record: %w", err)
	}
	if time.Now().Before(block.ExpiresAt) {
		return true, nil
	}

	// Expired block records are cleaned up on the way out.
	if _, err := docRef.Delete(ctx); err != nil {
		return false, err
	}
	return false, nil
}

// ---------- sessions ----------

func (s *FirestoreStore) SaveRefreshToken(ctx context.Context, userID string, rec model.RefreshTokenRecord) error {
	_, err := s.client.Collection(refreshTokensCollection).Doc(userID).Set(ctx, rec)
	return err
}

func (s *FirestoreStore) GetRefreshToken(ctx context.Context, userID string) (model.RefreshTokenRecord, error) {
	snap, err := s.client.Collection(refreshTokensCollection).Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return model.RefreshTokenRecord{}, ErrNotFound
	}
	if err != nil {
		return model.RefreshTokenRecord{}, err
	}

	var rec model.RefreshTokenRecord
	if err := snap.DataTo(&rec); err != nil {
		return model.RefreshTokenRecord{}, fmt.Errorf("parse refresh token: %w", err)
	}
	return rec, nil
}

func (s *FirestoreStore) RevokeRefreshToken(ctx context.Context, userID string) error {
	_, err := s.client.Collection(refreshTokensCollection).Doc(userID).Delete(ctx)
	return err
}
