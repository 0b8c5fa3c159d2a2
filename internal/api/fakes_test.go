package api

import (
	"context"
	"sort"
	"sync"
	"time"

	"finance-tracker-backend/internal/dashboard"
	"finance-tracker-backend/internal/ledger"
)

// memStore is an in-memory Store with the same ownership rules as the ledger.
type memStore struct {
	mu           sync.Mutex
	nextID       int64
	users        map[int64]ledger.User
	categories   map[int64]ledger.Category
	transactions map[int64]ledger.Transaction
	pingErr      error
	allErr       error
	allCalls     int
	// afterAllRead runs once after AllTransactionsForUser has taken its
	// snapshot, simulating a write that commits while the dashboard computes.
	afterAllRead func()
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[int64]ledger.User{},
		categories:   map[int64]ledger.Category{},
		transactions: map[int64]ledger.Transaction{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) Ping(context.Context) error { return m.pingErr }

func (m *memStore) CreateUser(_ context.Context, name, email, hash string) (ledger.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return ledger.User{}, ledger.ErrDuplicateEmail
		}
	}
	u := ledger.User{ID: m.id(), Name: name, Email: email, PasswordHash: hash, CreatedAt: time.Now()}
	m.users[u.ID] = u
	return u, nil
}

func (m *memStore) UserByEmail(_ context.Context, email string) (ledger.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return ledger.User{}, ledger.ErrNotFound
}

func (m *memStore) UserByID(_ context.Context, id int64) (ledger.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return ledger.User{}, ledger.ErrNotFound
}

func (m *memStore) ListCategories(_ context.Context, userID int64, p ledger.Page) (ledger.PageResult[ledger.Category], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []ledger.Category
	for _, c := range m.categories {
		if c.UserID == userID {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return paginate(all, p), nil
}

func (m *memStore) CategoryByID(_ context.Context, userID, id int64) (ledger.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.category(userID, id)
}

func (m *memStore) category(userID, id int64) (ledger.Category, error) {
	c, ok := m.categories[id]
	if !ok || c.UserID != userID {
		return ledger.Category{}, ledger.ErrNotFound
	}
	return c, nil
}

func (m *memStore) CreateCategory(_ context.Context, userID int64, name string) (ledger.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.UserID == userID && c.Name == name {
			return ledger.Category{}, ledger.ErrDuplicateCategory
		}
	}
	c := ledger.Category{ID: m.id(), UserID: userID, Name: name}
	m.categories[c.ID] = c
	return c, nil
}

func (m *memStore) UpdateCategory(_ context.Context, userID, id int64, name string) (ledger.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.category(userID, id)
	if err != nil {
		return c, err
	}
	for _, other := range m.categories {
		if other.UserID == userID && other.ID != id && other.Name == name {
			return ledger.Category{}, ledger.ErrDuplicateCategory
		}
	}
	c.Name = name
	m.categories[id] = c
	for tid, t := range m.transactions {
		if t.CategoryID == id {
			t.CategoryName = name
			m.transactions[tid] = t
		}
	}
	return c, nil
}

func (m *memStore) DeleteCategory(_ context.Context, userID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.category(userID, id); err != nil {
		return err
	}
	for _, t := range m.transactions {
		if t.CategoryID == id {
			return ledger.ErrCategoryInUse
		}
	}
	delete(m.categories, id)
	return nil
}

func (m *memStore) ListTransactions(_ context.Context, userID int64, f ledger.TransactionFilter, p ledger.Page) (ledger.PageResult[ledger.Transaction], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []ledger.Transaction
	for _, t := range m.transactions {
		switch {
		case t.UserID != userID:
		case f.Kind != "" && t.Kind != f.Kind:
		case f.CategoryID != 0 && t.CategoryID != f.CategoryID:
		case !f.StartDate.IsZero() && t.OccurredOn.Before(f.StartDate):
		case !f.EndDate.IsZero() && t.OccurredOn.After(f.EndDate):
		default:
			all = append(all, t)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return paginate(all, p), nil
}

func (m *memStore) TransactionByID(_ context.Context, userID, id int64) (ledger.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[id]
	if !ok || t.UserID != userID {
		return ledger.Transaction{}, ledger.ErrNotFound
	}
	return t, nil
}

func (m *memStore) CreateTransaction(_ context.Context, userID int64, in ledger.TransactionInput) (ledger.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.category(userID, in.CategoryID)
	if err != nil {
		return ledger.Transaction{}, err
	}
	t := ledger.Transaction{
		ID:           m.id(),
		UserID:       userID,
		Kind:         in.Kind,
		Amount:       in.Amount,
		Description:  in.Description,
		OccurredOn:   dashboard.DateOf(in.OccurredOn),
		CategoryID:   c.ID,
		CategoryName: c.Name,
	}
	m.transactions[t.ID] = t
	return t, nil
}

func (m *memStore) UpdateTransaction(_ context.Context, userID, id int64, in ledger.TransactionInput) (ledger.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.category(userID, in.CategoryID)
	if err != nil {
		return ledger.Transaction{}, err
	}
	t, ok := m.transactions[id]
	if !ok || t.UserID != userID {
		return ledger.Transaction{}, ledger.ErrNotFound
	}
	t.Kind, t.Amount, t.Description = in.Kind, in.Amount, in.Description
	t.OccurredOn = dashboard.DateOf(in.OccurredOn)
	t.CategoryID, t.CategoryName = c.ID, c.Name
	m.transactions[id] = t
	return t, nil
}

func (m *memStore) DeleteTransaction(_ context.Context, userID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[id]
	if !ok || t.UserID != userID {
		return ledger.ErrNotFound
	}
	delete(m.transactions, id)
	return nil
}

func (m *memStore) AllTransactionsForUser(_ context.Context, userID int64) ([]ledger.Transaction, error) {
	all, err := m.snapshot(userID)
	if hook := m.afterAllRead; hook != nil {
		m.afterAllRead = nil
		hook()
	}
	return all, err
}

func (m *memStore) snapshot(userID int64) ([]ledger.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allCalls++
	if m.allErr != nil {
		return nil, m.allErr
	}
	var all []ledger.Transaction
	for _, t := range m.transactions {
		if t.UserID == userID {
			all = append(all, t)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].OccurredOn.Equal(all[j].OccurredOn) {
			return all[i].OccurredOn.Before(all[j].OccurredOn)
		}
		return all[i].ID < all[j].ID
	})
	return all, nil
}

func paginate[T any](all []T, p ledger.Page) ledger.PageResult[T] {
	p = p.Normalize()
	start := p.Number * p.Size
	if start > len(all) {
		start = len(all)
	}
	end := start + p.Size
	if end > len(all) {
		end = len(all)
	}
	return ledger.NewPageResult(all[start:end], p, int64(len(all)))
}

type cacheSlot struct {
	userID     int64
	generation int64
}

// memCache is a DashboardCache keeping decoded values in a map.
type memCache struct {
	mu          sync.Mutex
	generations map[int64]int64
	entries     map[cacheSlot]DashboardResponse
	invalidated int
}

func newMemCache() *memCache {
	return &memCache{
		generations: map[int64]int64{},
		entries:     map[cacheSlot]DashboardResponse{},
	}
}

func (m *memCache) Generation(_ context.Context, userID int64) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generations[userID], true
}

func (m *memCache) Get(_ context.Context, userID, generation int64, _ time.Time, dst any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[cacheSlot{userID, generation}]
	if ok {
		*dst.(*DashboardResponse) = v
	}
	return ok
}

func (m *memCache) Set(_ context.Context, userID, generation int64, _ time.Time, v any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[cacheSlot{userID, generation}] = v.(DashboardResponse)
}

func (m *memCache) Invalidate(_ context.Context, userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated++
	m.generations[userID]++
	for slot := range m.entries {
		if slot.userID == userID {
			delete(m.entries, slot)
		}
	}
}
