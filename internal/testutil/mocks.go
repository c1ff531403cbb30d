package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/planbill/planbill/internal/domain/plan"
	"github.com/planbill/planbill/internal/domain/subscription"
	"github.com/planbill/planbill/internal/domain/team"
	"github.com/planbill/planbill/internal/domain/user"
	"github.com/planbill/planbill/internal/pkg/errors"
)

// MockUserRepository is a mock implementation of user.Repository.
// TeamRepo, when set, receives the personal team created during
// registration so team lookups see it.
type MockUserRepository struct {
	Users           map[int64]*user.User
	EmailIndex      map[string]*user.User
	TeamRepo        *MockTeamRepository
	NextID          int64
	CreateError     error
	TeamCreateError error
	GetError        error
	UpdateError     error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:      make(map[int64]*user.User),
		EmailIndex: make(map[string]*user.User),
		NextID:     1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	if _, ok := m.EmailIndex[u.Email]; ok {
		return errors.Conflict("Email already registered")
	}
	u.ID = m.NextID
	m.NextID++
	m.Users[u.ID] = u
	m.EmailIndex[u.Email] = u
	return nil
}

func (m *MockUserRepository) CreateWithPersonalTeam(ctx context.Context, u *user.User, personal *team.Team) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	if _, ok := m.EmailIndex[u.Email]; ok {
		return errors.Conflict("Email already registered")
	}
	// Both inserts or neither, like the transactional repository.
	if m.TeamCreateError != nil {
		return m.TeamCreateError
	}
	u.ID = m.NextID
	m.NextID++
	m.Users[u.ID] = u
	m.EmailIndex[u.Email] = u
	personal.IsPersonal = true
	personal.UserID = u.ID
	if m.TeamRepo != nil {
		return m.TeamRepo.Create(ctx, personal)
	}
	personal.ID = u.ID
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	u, ok := m.Users[id]
	if !ok {
		return nil, errors.NotFound("User")
	}
	return u, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	u, ok := m.EmailIndex[email]
	if !ok {
		return nil, errors.NotFound("User")
	}
	return u, nil
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.Users[u.ID]; !ok {
		return errors.NotFound("User")
	}
	m.Users[u.ID] = u
	m.EmailIndex[u.Email] = u
	return nil
}

func (m *MockUserRepository) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	u, ok := m.Users[id]
	if !ok {
		return errors.NotFound("User")
	}
	u.IsAdmin = isAdmin
	return nil
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*user.User, int64, error) {
	var result []*user.User
	for _, u := range m.Users {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, int64(len(result)), nil
}

// MockTeamRepository is a mock implementation of team.Repository
type MockTeamRepository struct {
	Teams       map[int64]*team.Team
	NextID      int64
	CreateError error
	GetError    error
	DeleteError error
}

func NewMockTeamRepository() *MockTeamRepository {
	return &MockTeamRepository{
		Teams:  make(map[int64]*team.Team),
		NextID: 1,
	}
}

func (m *MockTeamRepository) Create(ctx context.Context, t *team.Team) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	t.ID = m.NextID
	m.NextID++
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	m.Teams[t.ID] = t
	return nil
}

func (m *MockTeamRepository) GetByID(ctx context.Context, id int64) (*team.Team, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	t, ok := m.Teams[id]
	if !ok {
		return nil, errors.NotFound("Team")
	}
	return t, nil
}

func (m *MockTeamRepository) GetPersonal(ctx context.Context, userID int64) (*team.Team, error) {
	for _, t := range m.Teams {
		if t.UserID == userID && t.IsPersonal {
			return t, nil
		}
	}
	return nil, errors.NotFound("Team")
}

func (m *MockTeamRepository) ListByUser(ctx context.Context, userID int64) ([]*team.Team, error) {
	var result []*team.Team
	for _, t := range m.Teams {
		if t.UserID == userID {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockTeamRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, ok := m.Teams[id]; !ok {
		return errors.NotFound("Team")
	}
	delete(m.Teams, id)
	return nil
}

// MockPlanRepository is a mock implementation of plan.Repository
type MockPlanRepository struct {
	Plans       map[int64]*plan.Plan
	NextID      int64
	CreateError error
	GetError    error
	UpdateError error
}

func NewMockPlanRepository() *MockPlanRepository {
	return &MockPlanRepository{
		Plans:  make(map[int64]*plan.Plan),
		NextID: 1,
	}
}

func (m *MockPlanRepository) Create(ctx context.Context, p *plan.Plan) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	p.ID = m.NextID
	m.NextID++
	stored := *p
	m.Plans[p.ID] = &stored
	return nil
}

func (m *MockPlanRepository) GetByID(ctx context.Context, id int64) (*plan.Plan, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	p, ok := m.Plans[id]
	if !ok {
		return nil, errors.NotFound("Plan")
	}
	copied := *p
	return &copied, nil
}

func (m *MockPlanRepository) Update(ctx context.Context, p *plan.Plan) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.Plans[p.ID]; !ok {
		return errors.NotFound("Plan")
	}
	stored := *p
	m.Plans[p.ID] = &stored
	return nil
}

func (m *MockPlanRepository) List(ctx context.Context, limit, offset int) ([]*plan.Plan, int64, error) {
	var result []*plan.Plan
	for _, p := range m.Plans {
		copied := *p
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, int64(len(result)), nil
}

// MockSubscriptionRepository is a mock implementation of
// subscription.Repository
type MockSubscriptionRepository struct {
	Subscriptions map[int64]*subscription.Subscription
	Orders        map[int64]*subscription.Order
	Activations   map[int64]*subscription.Activation
	NextID        int64
	NextOrderID   int64
	NextActID     int64
	ActivateError error
	OrderError    error
}

func NewMockSubscriptionRepository() *MockSubscriptionRepository {
	return &MockSubscriptionRepository{
		Subscriptions: make(map[int64]*subscription.Subscription),
		Orders:        make(map[int64]*subscription.Order),
		Activations:   make(map[int64]*subscription.Activation),
		NextID:        1,
		NextOrderID:   1,
		NextActID:     1,
	}
}

func (m *MockSubscriptionRepository) Activate(ctx context.Context, teamID, planID int64) (*subscription.Subscription, error) {
	if m.ActivateError != nil {
		return nil, m.ActivateError
	}
	now := time.Now()
	for _, s := range m.Subscriptions {
		if s.TeamID == teamID && s.IsActive {
			s.IsActive = false
			s.UpdatedAt = now
		}
	}
	sub := &subscription.Subscription{
		ID:        m.NextID,
		TeamID:    teamID,
		PlanID:    planID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.NextID++
	m.Subscriptions[sub.ID] = sub
	m.Activations[m.NextActID] = &subscription.Activation{
		ID:             m.NextActID,
		SubscriptionID: sub.ID,
		ActivationDate: now,
	}
	m.NextActID++
	m.Orders[m.NextOrderID] = &subscription.Order{
		ID:             m.NextOrderID,
		SubscriptionID: sub.ID,
		Paid:           false,
		CreatedAt:      now,
	}
	m.NextOrderID++
	return sub, nil
}

func (m *MockSubscriptionRepository) DeactivateActive(ctx context.Context, teamID int64) (int64, error) {
	var rows int64
	for _, s := range m.Subscriptions {
		if s.TeamID == teamID && s.IsActive {
			s.IsActive = false
			s.UpdatedAt = time.Now()
			rows++
		}
	}
	return rows, nil
}

func (m *MockSubscriptionRepository) GetByID(ctx context.Context, id int64) (*subscription.Subscription, error) {
	s, ok := m.Subscriptions[id]
	if !ok {
		return nil, errors.NotFound("Subscription")
	}
	return s, nil
}

func (m *MockSubscriptionRepository) GetActiveByTeam(ctx context.Context, teamID int64) (*subscription.Subscription, error) {
	for _, s := range m.Subscriptions {
		if s.TeamID == teamID && s.IsActive {
			return s, nil
		}
	}
	return nil, errors.NotFound("Active subscription")
}

func (m *MockSubscriptionRepository) ListByTeam(ctx context.Context, teamID int64) ([]*subscription.Subscription, error) {
	var result []*subscription.Subscription
	for _, s := range m.Subscriptions {
		if s.TeamID == teamID {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockSubscriptionRepository) CreateOrder(ctx context.Context, subscriptionID int64) (*subscription.Order, error) {
	if m.OrderError != nil {
		return nil, m.OrderError
	}
	if _, ok := m.Subscriptions[subscriptionID]; !ok {
		return nil, errors.NotFound("Subscription")
	}
	o := &subscription.Order{
		ID:             m.NextOrderID,
		SubscriptionID: subscriptionID,
		Paid:           false,
		CreatedAt:      time.Now(),
	}
	m.NextOrderID++
	m.Orders[o.ID] = o
	return o, nil
}

func (m *MockSubscriptionRepository) GetOrderByID(ctx context.Context, id int64) (*subscription.Order, error) {
	o, ok := m.Orders[id]
	if !ok {
		return nil, errors.NotFound("Order")
	}
	return o, nil
}

func (m *MockSubscriptionRepository) MarkOrderPaid(ctx context.Context, id int64) (int64, error) {
	o, ok := m.Orders[id]
	if !ok {
		return 0, errors.NotFound("Order")
	}
	if o.Paid {
		return 0, nil
	}
	o.Paid = true
	return 1, nil
}

func (m *MockSubscriptionRepository) ListOrders(ctx context.Context, subscriptionID int64) ([]*subscription.Order, error) {
	var result []*subscription.Order
	for _, o := range m.Orders {
		if o.SubscriptionID == subscriptionID {
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockSubscriptionRepository) ListActivations(ctx context.Context, subscriptionID int64) ([]*subscription.Activation, error) {
	var result []*subscription.Activation
	for _, a := range m.Activations {
		if a.SubscriptionID == subscriptionID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockSubscriptionRepository) ListActiveDue(ctx context.Context, cutoff time.Time) ([]*subscription.Subscription, error) {
	var result []*subscription.Subscription
	for _, s := range m.Subscriptions {
		if !s.IsActive {
			continue
		}
		latest := time.Time{}
		for _, o := range m.Orders {
			if o.SubscriptionID == s.ID && o.CreatedAt.After(latest) {
				latest = o.CreatedAt
			}
		}
		if latest.Before(cutoff) {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
