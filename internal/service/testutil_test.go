package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ronilson-users/backend-work-v2/internal/model"
	"github.com/ronilson-users/backend-work-v2/pkg/apperr"
)

// In-memory stores mirroring the redis layer's contracts: Update runs
// mutate under lock and a domain error aborts the write.

type memJobStore struct {
	mu   sync.Mutex
	jobs map[string]*model.Job
}

func newMemJobStore() *memJobStore {
	return &memJobStore{jobs: map[string]*model.Job{}}
}

func (s *memJobStore) Create(_ context.Context, job *model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = cloneJob(job)
	return nil
}

func (s *memJobStore) GetByID(_ context.Context, id string) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, apperr.NotFound("job not found")
	}
	return cloneJob(job), nil
}

func (s *memJobStore) Update(_ context.Context, id string, mutate func(*model.Job) error) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, apperr.NotFound("job not found")
	}
	next := cloneJob(job)
	if err := mutate(next); err != nil {
		return nil, err
	}
	s.jobs[id] = next
	return cloneJob(next), nil
}

func (s *memJobStore) List(_ context.Context) ([]*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, cloneJob(job))
	}
	return out, nil
}

func (s *memJobStore) ListByCompany(_ context.Context, companyID string) ([]*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Job{}
	for _, job := range s.jobs {
		if job.Company.Is(companyID) {
			out = append(out, cloneJob(job))
		}
	}
	return out, nil
}

type memContractStore struct {
	mu        sync.Mutex
	contracts map[string]*model.Contract
	byJob     map[string]string
}

func newMemContractStore() *memContractStore {
	return &memContractStore{contracts: map[string]*model.Contract{}, byJob: map[string]string{}}
}

func (s *memContractStore) Create(_ context.Context, contract *model.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byJob[contract.Job.ID()]; exists {
		return apperr.Conflict("contract already exists for this job")
	}
	s.byJob[contract.Job.ID()] = contract.ID
	s.contracts[contract.ID] = cloneContract(contract)
	return nil
}

func (s *memContractStore) GetByID(_ context.Context, id string) (*model.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contract, ok := s.contracts[id]
	if !ok {
		return nil, apperr.NotFound("contract not found")
	}
	return cloneContract(contract), nil
}

func (s *memContractStore) GetByJob(_ context.Context, jobID string) (*model.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byJob[jobID]
	if !ok {
		return nil, apperr.NotFound("contract not found")
	}
	return cloneContract(s.contracts[id]), nil
}

func (s *memContractStore) Update(_ context.Context, id string, mutate func(*model.Contract) error) (*model.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contract, ok := s.contracts[id]
	if !ok {
		return nil, apperr.NotFound("contract not found")
	}
	next := cloneContract(contract)
	if err := mutate(next); err != nil {
		return nil, err
	}
	s.contracts[id] = next
	return cloneContract(next), nil
}

func (s *memContractStore) ListByWorker(_ context.Context, workerID string) ([]*model.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Contract{}
	for _, c := range s.contracts {
		if c.Worker.Is(workerID) {
			out = append(out, cloneContract(c))
		}
	}
	return out, nil
}

func (s *memContractStore) ListByCompany(_ context.Context, companyID string) ([]*model.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Contract{}
	for _, c := range s.contracts {
		if c.Company.Is(companyID) {
			out = append(out, cloneContract(c))
		}
	}
	return out, nil
}

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*model.WorkSession
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: map[string]*model.WorkSession{}}
}

func (s *memSessionStore) Create(_ context.Context, session *model.WorkSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = cloneSession(session)
	return nil
}

func (s *memSessionStore) GetByID(_ context.Context, id string) (*model.WorkSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, apperr.NotFound("work session not found")
	}
	return cloneSession(session), nil
}

func (s *memSessionStore) Update(_ context.Context, id string, mutate func(*model.WorkSession) error) (*model.WorkSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, apperr.NotFound("work session not found")
	}
	next := cloneSession(session)
	if err := mutate(next); err != nil {
		return nil, err
	}
	s.sessions[id] = next
	return cloneSession(next), nil
}

func (s *memSessionStore) ListByWorker(_ context.Context, workerID string) ([]*model.WorkSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.WorkSession{}
	for _, session := range s.sessions {
		if session.Worker.Is(workerID) {
			out = append(out, cloneSession(session))
		}
	}
	return out, nil
}

func (s *memSessionStore) ListByCompany(_ context.Context, companyID string) ([]*model.WorkSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.WorkSession{}
	for _, session := range s.sessions {
		if session.Company.Is(companyID) {
			out = append(out, cloneSession(session))
		}
	}
	return out, nil
}

type memUserStore struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]*model.User{}}
}

func (s *memUserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return apperr.Conflict("email already in use")
		}
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *memUserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	clone := *user
	return &clone, nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func cloneJob(job *model.Job) *model.Job {
	clone := *job
	clone.RequiredSkills = append([]string(nil), job.RequiredSkills...)
	clone.Locations = append([]model.Location(nil), job.Locations...)
	clone.Applicants = append([]model.Ref(nil), job.Applicants...)
	return &clone
}

func cloneContract(contract *model.Contract) *model.Contract {
	clone := *contract
	return &clone
}

func cloneSession(session *model.WorkSession) *model.WorkSession {
	clone := *session
	clone.LocationSessions = append([]model.LocationSession(nil), session.LocationSessions...)
	if session.RouteProgress != nil {
		progress := *session.RouteProgress
		clone.RouteProgress = &progress
	}
	if session.CheckIn != nil {
		in := *session.CheckIn
		clone.CheckIn = &in
	}
	if session.CheckOut != nil {
		out := *session.CheckOut
		clone.CheckOut = &out
	}
	return &clone
}

// fixture helpers

type fixture struct {
	jobs      *memJobStore
	contracts *memContractStore
	sessions  *memSessionStore
	users     *memUserStore

	jobSvc      *JobService
	contractSvc *ContractService
	workSvc     *WorkService
	routeSvc    *RouteService

	now    time.Time
	nextID int
}

func newFixture() *fixture {
	f := &fixture{
		jobs:      newMemJobStore(),
		contracts: newMemContractStore(),
		sessions:  newMemSessionStore(),
		users:     newMemUserStore(),
		now:       time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}

	f.jobSvc = NewJobService(f.jobs, f.users)
	f.jobSvc.now = f.clock
	f.jobSvc.newID = f.id

	f.contractSvc = NewContractService(f.contracts, f.jobs)
	f.contractSvc.now = f.clock
	f.contractSvc.newID = f.id

	f.workSvc = NewWorkService(f.sessions, f.contracts, f.jobs)
	f.workSvc.now = f.clock
	f.workSvc.newID = f.id

	f.routeSvc = NewRouteService(f.sessions, f.contracts, f.jobs, nil)
	f.routeSvc.now = f.clock
	f.routeSvc.newID = f.id

	return f
}

func (f *fixture) clock() time.Time { return f.now }

func (f *fixture) advance(d time.Duration) { f.now = f.now.Add(d) }

func (f *fixture) id() string {
	f.nextID++
	return fmt.Sprintf("id-%d", f.nextID)
}

func (f *fixture) addUser(id string, role model.Role) *model.User {
	user := &model.User{
		ID:       id,
		Name:     id,
		Email:    id + "@example.com",
		Role:     role,
		IsActive: true,
	}
	if err := f.users.Create(context.Background(), user); err != nil {
		panic(err)
	}
	return user
}

func (f *fixture) createJobRequest() *model.CreateJobRequest {
	return &model.CreateJobRequest{
		Title:          "Warehouse inventory count",
		Description:    "Full inventory count of the central warehouse",
		Location:       "Sao Paulo",
		RequiredSkills: []string{"inventory"},
		Budget:         model.Budget{Min: 1000, Max: 2000, Type: model.CompensationHourly, Currency: "BRL"},
		Duration:       "1 week",
		Dates: model.DateRange{
			Start: f.now.Add(48 * time.Hour),
			End:   f.now.Add(96 * time.Hour),
		},
	}
}
