package repositories

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/lead_management_backend/models"
)

// MemoryStore keeps agents, leads and comments in process memory. It
// mirrors the Mongo repositories, including population and the unique
// agent email, and backs STORE_DRIVER=memory and the service tests.
type MemoryStore struct {
	mu       sync.RWMutex
	agents   []models.SalesAgent
	leads    []models.Lead
	comments []models.Comment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) agentIndex(id primitive.ObjectID) int {
	for i := range m.agents {
		if m.agents[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *MemoryStore) leadIndex(id primitive.ObjectID) int {
	for i := range m.leads {
		if m.leads[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *MemoryStore) InsertAgent(_ context.Context, agent *models.SalesAgent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.agents {
		if a.Email == agent.Email {
			return ErrDuplicate
		}
	}
	agent.ID = primitive.NewObjectID()
	m.agents = append(m.agents, *agent)
	return nil
}

func (m *MemoryStore) ListAgents(_ context.Context) ([]models.SalesAgent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]models.SalesAgent{}, m.agents...), nil
}

func (m *MemoryStore) FindAgentByID(_ context.Context, id primitive.ObjectID) (*models.SalesAgent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.agentIndex(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	agent := m.agents[i]
	return &agent, nil
}

func (m *MemoryStore) AgentEmailExists(_ context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.agents {
		if a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) DeleteAgent(_ context.Context, id primitive.ObjectID) (*models.SalesAgent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.agentIndex(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	agent := m.agents[i]
	m.agents = append(m.agents[:i], m.agents[i+1:]...)
	return &agent, nil
}

func (m *MemoryStore) InsertLead(_ context.Context, lead *models.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lead.ApplyDefaults()
	lead.ID = primitive.NewObjectID()
	m.leads = append(m.leads, cloneLead(*lead))
	return nil
}

func matchesLead(l models.Lead, q models.LeadQuery) bool {
	switch {
	case q.SalesAgent != nil && l.SalesAgent != *q.SalesAgent:
		return false
	case q.Status != nil && l.Status != *q.Status:
		return false
	case q.Source != nil && l.Source != *q.Source:
		return false
	case q.Priority != nil && l.Priority != *q.Priority:
		return false
	case q.UpdatedSince != nil && l.UpdatedAt.Before(*q.UpdatedSince):
		return false
	}
	return true
}

func (m *MemoryStore) FindLeads(_ context.Context, q models.LeadQuery) ([]models.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Lead{}
	for _, l := range m.leads {
		if matchesLead(l, q) {
			out = append(out, cloneLead(l))
		}
	}
	return out, nil
}

func (m *MemoryStore) FindLeadViews(_ context.Context, q models.LeadQuery) ([]models.LeadView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.LeadView{}
	for _, l := range m.leads {
		if matchesLead(l, q) {
			out = append(out, m.leadView(l))
		}
	}
	return out, nil
}

func (m *MemoryStore) FindLeadByID(_ context.Context, id primitive.ObjectID) (*models.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.leadIndex(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	lead := cloneLead(m.leads[i])
	return &lead, nil
}

func (m *MemoryStore) FindLeadViewByID(_ context.Context, id primitive.ObjectID) (*models.LeadView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.leadIndex(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	view := m.leadView(m.leads[i])
	return &view, nil
}

func (m *MemoryStore) UpdateLead(_ context.Context, id primitive.ObjectID, u models.LeadUpdate) (*models.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.leadIndex(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	l := &m.leads[i]
	if u.Name != nil {
		l.Name = *u.Name
	}
	if u.Source != nil {
		l.Source = *u.Source
	}
	if u.SalesAgent != nil {
		l.SalesAgent = *u.SalesAgent
	}
	if u.Status != nil {
		l.Status = *u.Status
	}
	if u.Tags != nil {
		l.Tags = append([]string{}, (*u.Tags)...)
	}
	if u.TimeToClose != nil {
		l.TimeToClose = *u.TimeToClose
	}
	if u.Priority != nil {
		l.Priority = *u.Priority
	}
	if u.ClosedAt != nil {
		closedAt := *u.ClosedAt
		l.ClosedAt = &closedAt
	}
	l.UpdatedAt = u.UpdatedAt

	lead := cloneLead(*l)
	return &lead, nil
}

func (m *MemoryStore) DeleteLead(_ context.Context, id primitive.ObjectID) (*models.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.leadIndex(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	lead := m.leads[i]
	m.leads = append(m.leads[:i], m.leads[i+1:]...)
	return &lead, nil
}

func (m *MemoryStore) InsertComment(_ context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	comment.ID = primitive.NewObjectID()
	m.comments = append(m.comments, *comment)
	return nil
}

func (m *MemoryStore) FindCommentViews(_ context.Context, leadID primitive.ObjectID) ([]models.CommentView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.CommentView{}
	for _, c := range m.comments {
		if c.Lead != leadID {
			continue
		}
		view := models.CommentView{ID: c.ID, Text: c.Text, CreatedAt: c.CreatedAt}
		if i := m.leadIndex(c.Lead); i >= 0 {
			lead := cloneLead(m.leads[i])
			view.Lead = &lead
		}
		if i := m.agentIndex(c.Author); i >= 0 {
			agent := m.agents[i]
			view.Author = &agent
		}
		out = append(out, view)
	}
	return out, nil
}

// leadView must be called with mu held.
func (m *MemoryStore) leadView(l models.Lead) models.LeadView {
	l = cloneLead(l)
	view := models.LeadView{
		ID:          l.ID,
		Name:        l.Name,
		Source:      l.Source,
		Status:      l.Status,
		Tags:        l.Tags,
		TimeToClose: l.TimeToClose,
		Priority:    l.Priority,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
		ClosedAt:    l.ClosedAt,
	}
	if i := m.agentIndex(l.SalesAgent); i >= 0 {
		agent := m.agents[i]
		view.SalesAgent = &agent
	}
	return view
}

func cloneLead(l models.Lead) models.Lead {
	if l.Tags != nil {
		l.Tags = append([]string{}, l.Tags...)
	}
	if l.ClosedAt != nil {
		closedAt := *l.ClosedAt
		l.ClosedAt = &closedAt
	}
	return l
}

// Ping always succeeds; it lets the memory store back the health check.
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}
