package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"labourconnect/model"
)

// MemoryStore is the in-process Store used when no Firebase project is
// configured, and by the tests. Semantics track FirestoreStore: workers
// keep insertion order, aggregates upsert-increment, soft deletes never
// touch counters.
type MemoryStore struct {
	mu sync.RWMutex

	users         map[string]model.User
	workers       map[string]model.Worker
	workerOrder   []string
	areas         map[string]model.Area
	professions   map[string]model.Profession
	otpRecords    map[string]model.OTPRecord // key mobile+"/"+reference
	blocks        map[string]model.MobileBlock
	refreshTokens map[string]model.RefreshTokenRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[string]model.User),
		workers:       make(map[string]model.Worker),
		areas:         make(map[string]model.Area),
		professions:   make(map[string]model.Profession),
		otpRecords:    make(map[string]model.OTPRecord),
		blocks:        make(map[string]model.MobileBlock),
		refreshTokens: make(map[string]model.RefreshTokenRecord),
	}
}

// ---------- users ----------

func (s *MemoryStore) CreateUser(ctx context.Context, user model.User) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Mobile == user.Mobile {
			return "", ErrAlreadyExists
		}
	}

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

	s.users[docID] = user
	return docID, nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, userID string, updates map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	applyUserUpdates(&user, updates)
	user.UpdatedAt = time.Now()
	s.users[userID] = user
	return nil
}

func (s *MemoryStore) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return user, nil
}

func (s *MemoryStore) GetUserByMobile(ctx context.Context, mobile string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Mobile == mobile {
			return user, nil
		}
	}
	return model.User{}, ErrNotFound
}

// ---------- workers ----------

func (s *MemoryStore) AddWorker(ctx context.Context, worker model.Worker) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, ok := s.users[worker.AddedBy]
	if !ok {
		return "", ErrNotFound
	}

	docID := uuid.New().String()
	now := time.Now()

	worker.WorkerID = docID
	worker.AddedAt = now
	worker.UpdatedAt = now
	worker.IsActive = true
	worker.IsVerified = false
	worker.Rating = 0
	worker.JobsCompleted = 0

	s.workers[docID] = worker
	s.workerOrder = append(s.workerOrder, docID)

	prof.WorkersCount++
	prof.UpdatedAt = now
	s.users[worker.AddedBy] = prof

	return docID, nil
}

func (s *MemoryStore) GetWorkerByID(ctx context.Context, workerID string) (model.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	worker, ok := s.workers[workerID]
	if !ok {
		return model.Worker{}, ErrNotFound
	}
	return worker, nil
}

func (s *MemoryStore) UpdateWorker(ctx context.Context, workerID string, updates map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	worker, ok := s.workers[workerID]
	if !ok {
		return ErrNotFound
	}
	applyWorkerUpdates(&worker, updates)
	worker.UpdatedAt = time.Now()
	s.workers[workerID] = worker
	return nil
}

func (s *MemoryStore) DeactivateWorker(ctx context.Context, workerID string) error {
	return s.UpdateWorker(ctx, workerID, map[string]interface{}{"isActive": false})
}

func (s *MemoryStore) ListWorkers(ctx context.Context, filter WorkerFilter) ([]model.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	workers := []model.Worker{}
	for _, id := range s.workerOrder {
		worker := s.workers[id]
		if filter.Area != "" && worker.Area != filter.Area {
			continue
		}
		if filter.Profession != "" && worker.Profession != filter.Profession {
			continue
		}
		if filter.ActiveOnly && !worker.IsActive {
			continue
		}
		workers = append(workers, worker)
	}
	return workers, nil
}

func (s *MemoryStore) ListWorkersByProfessional(ctx context.Context, professionalID string) ([]model.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	workers := []model.Worker{}
	for _, id := range s.workerOrder {
		worker := s.workers[id]
		if worker.AddedBy == professionalID {
			workers = append(workers, worker)
		}
	}
	return workers, nil
}

func (s *MemoryStore) CountWorkersByProfessional(ctx context.Context, professionalID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, worker := range s.workers {
		if worker.AddedBy == professionalID {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) SetWorkersCount(ctx context.Context, professionalID string, count int) error {
	return s.UpdateUser(ctx, professionalID, map[string]interface{}{"workersCount": count})
}

// ---------- aggregates ----------

func (s *MemoryStore) UpsertAreaAggregate(ctx context.Context, name string) error {
	slug := Slugify(name)
	if slug == "" {
		return fmt.Errorf("area name %q produces an empty slug", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	area, ok := s.areas[slug]
	if !ok {
		area = model.Area{Slug: slug, Name: name}
	}
	area.WorkerCount++
	area.UpdatedAt = time.Now()
	s.areas[slug] = area
	return nil
}

func (s *MemoryStore) UpsertProfessionAggregate(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, ok := s.professions[code]
	if !ok {
		prof = model.Profession{Code: code, Name: model.ProfessionDisplayName(code)}
	}
	prof.WorkerCount++
	prof.UpdatedAt = time.Now()
	s.professions[code] = prof
	return nil
}

func (s *MemoryStore) ListAreas(ctx context.Context) ([]model.Area, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	areas := []model.Area{}
	for _, area := range s.areas {
		areas = append(areas, area)
	}
	sortByCountDesc(areas, func(a model.Area) (int, string) { return a.WorkerCount, a.Slug })
	return areas, nil
}

func (s *MemoryStore) ListProfessions(ctx context.Context) ([]model.Profession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	professions := []model.Profession{}
	for _, prof := range s.professions {
		professions = append(professions, prof)
	}
	sortByCountDesc(professions, func(p model.Profession) (int, string) { return p.WorkerCount, p.Code })
	return professions, nil
}

// ---------- otp ----------

func otpKey(mobile, reference string) string {
	return mobile + "/" + reference
}

func (s *MemoryStore) SaveOTPRecord(ctx context.Context, rec model.OTPRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.otpRecords[otpKey(rec.Mobile, rec.Reference)] = rec
	return nil
}

func (s *MemoryStore) GetOTPRecord(ctx context.Context, mobile, reference string) (model.OTPRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.otpRecords[otpKey(mobile, reference)]
	if !ok {
		return model.OTPRecord{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) UpdateOTPRecord(ctx context.Context, mobile, reference string, updates map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := otpKey(mobile, reference)
	rec, ok := s.otpRecords[key]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["isUsed"]; ok {
		rec.IsUsed = v.(bool)
	}
	if v, ok := updates["attempts"]; ok {
		rec.Attempts = v.(int)
	}
	s.otpRecords[key] = rec
	return nil
}

func (s *MemoryStore) CountLiveOTPRecords(ctx context.Context, mobile string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	now := time.Now()
	for _, rec := range s.otpRecords {
		if rec.Mobile == mobile && !rec.IsUsed && now.Before(rec.ExpiresAt) {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) BlockMobile(ctx context.Context, mobile string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blocks[mobile] = model.MobileBlock{Mobile: mobile, CreatedAt: time.Now(), ExpiresAt: until}
	return nil
}

func (s *MemoryStore) IsMobileBlocked(ctx context.Context, mobile string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	block, ok := s.blocks[mobile]
	if !ok {
		return false, nil
	}
	if time.Now().Before(block.ExpiresAt) {
		return true, nil
	}
	delete(s.blocks, mobile)
	return false, nil
}

// ---------- sessions ----------

func (s *MemoryStore) SaveRefreshToken(ctx context.Context, userID string, rec model.RefreshTokenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshTokens[userID] = rec
	return nil
}

func (s *MemoryStore) GetRefreshToken(ctx context.Context, userID string) (model.RefreshTokenRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.refreshTokens[userID]
	if !ok {
		return model.RefreshTokenRecord{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) RevokeRefreshToken(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.refreshTokens, userID)
	return nil
}
