// Package memory is an in-process backend for the ledger stores, used with
// DATA_BACKEND=memory and by the handler tests.  It keeps the same
// ownership rules as the MySQL repositories: every lookup filters by user id
// and rows owned by someone else report repository.ErrNotFound.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/kakao-ledger/internal/model"
	"github.com/iliyamo/kakao-ledger/internal/repository"
)

type txRow struct {
	model.Transaction
	seq int
}

type Store struct {
	mu    sync.RWMutex
	users map[string]model.User
	cats  map[string]model.Category
	txs   map[string]txRow
	seq   int
	now   func() time.Time
}

func New() *Store {
	return &Store{
		users: map[string]model.User{},
		cats:  map[string]model.Category{},
		txs:   map[string]txRow{},
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Users, Categories and Transactions expose the store through the
// repository interfaces.  They share one lock.
func (s *Store) Users() *Users               { return &Users{s} }
func (s *Store) Categories() *Categories     { return &Categories{s} }
func (s *Store) Transactions() *Transactions { return &Transactions{s} }

var (
	_ repository.UserStore        = (*Users)(nil)
	_ repository.CategoryStore    = (*Categories)(nil)
	_ repository.TransactionStore = (*Transactions)(nil)
)

// ---- users ----

type Users struct{ s *Store }

func (u *Users) SyncProfile(_ context.Context, p model.ExternalProfile, seeds []model.CategorySeed) (model.SyncResult, error) {
	var res model.SyncResult
	if p.ID == "" {
		return res, errors.New("sync profile: empty user id")
	}
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	existing, ok := s.users[p.ID]
	if !ok {
		s.users[p.ID] = model.User{ID: p.ID, Name: p.Name, Image: p.Image, CreatedAt: now, UpdatedAt: now}
		res.Created = true
		for _, seed := range seeds {
			id := uuid.NewString()
			s.cats[id] = model.Category{ID: id, UserID: p.ID, Name: seed.Name, Color: seed.Color, IsActive: true, CreatedAt: now}
			res.SeededCount++
		}
		return res, nil
	}
	if existing.Image != p.Image {
		existing.Image = p.Image
		existing.UpdatedAt = now
		s.users[p.ID] = existing
		res.ImageUpdated = true
	}
	return res, nil
}

func (u *Users) GetByID(_ context.Context, id string) (model.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	usr, ok := u.s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return usr, nil
}

// ---- categories ----

type Categories struct{ s *Store }

func (c *Categories) ListActive(_ context.Context, userID string) ([]model.Category, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	out := []model.Category{}
	for _, cat := range c.s.cats {
		if cat.UserID == userID && cat.IsActive {
			out = append(out, cat)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (c *Categories) Get(_ context.Context, userID, id string) (model.Category, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return c.s.category(userID, id)
}

func (c *Categories) Create(_ context.Context, cat *model.Category) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if cat.ID == "" {
		cat.ID = uuid.NewString()
	}
	cat.IsActive = true
	cat.CreatedAt = c.s.now()
	c.s.cats[cat.ID] = *cat
	return nil
}

func (c *Categories) Update(_ context.Context, userID, id, name, color string) (model.Category, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cat, err := c.s.category(userID, id)
	if err != nil {
		return cat, err
	}
	cat.Name, cat.Color = name, color
	c.s.cats[id] = cat
	return cat, nil
}

func (c *Categories) Deactivate(_ context.Context, userID, id string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cat, err := c.s.category(userID, id)
	if err != nil {
		return err
	}
	cat.IsActive = false
	c.s.cats[id] = cat
	return nil
}

// category must be called with the lock held.
func (s *Store) category(userID, id string) (model.Category, error) {
	cat, ok := s.cats[id]
	if !ok || cat.UserID != userID {
		return model.Category{}, repository.ErrNotFound
	}
	return cat, nil
}

// ---- transactions ----

type Transactions struct{ s *Store }

func (t *Transactions) List(_ context.Context, userID string, period *model.DateRange) ([]model.Transaction, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	rows := make([]txRow, 0)
	for _, r := range t.s.txs {
		if r.UserID != userID {
			continue
		}
		if period != nil && !period.Contains(r.TransactionDate) {
			continue
		}
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].TransactionDate.Equal(rows[j].TransactionDate) {
			return rows[i].TransactionDate.After(rows[j].TransactionDate)
		}
		return rows[i].seq > rows[j].seq
	})

	out := make([]model.Transaction, 0, len(rows))
	for _, r := range rows {
		out = append(out, t.s.joined(r.Transaction))
	}
	return out, nil
}

func (t *Transactions) Get(_ context.Context, userID, id string) (model.Transaction, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	r, ok := t.s.txs[id]
	if !ok || r.UserID != userID {
		return model.Transaction{}, repository.ErrNotFound
	}
	return t.s.joined(r.Transaction), nil
}

func (t *Transactions) Create(_ context.Context, tx *model.Transaction) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	tx.CreatedAt = t.s.now()
	t.s.seq++
	t.s.txs[tx.ID] = txRow{Transaction: stripJoin(*tx), seq: t.s.seq}
	return nil
}

func (t *Transactions) Update(_ context.Context, tx *model.Transaction) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	r, ok := t.s.txs[tx.ID]
	if !ok || r.UserID != tx.UserID {
		return repository.ErrNotFound
	}
	r.CategoryID = copyRef(tx.CategoryID)
	r.Amount = tx.Amount
	r.Description = tx.Description
	r.TransactionDate = tx.TransactionDate.UTC()
	r.Type = tx.Type
	t.s.txs[tx.ID] = r
	return nil
}

func (t *Transactions) Delete(_ context.Context, userID, id string) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	r, ok := t.s.txs[id]
	if !ok || r.UserID != userID {
		return repository.ErrNotFound
	}
	delete(t.s.txs, id)
	return nil
}

// joined attaches the referenced category the way the SQL LEFT JOIN does.
func (s *Store) joined(tx model.Transaction) model.Transaction {
	tx.CategoryID = copyRef(tx.CategoryID)
	tx.Category = nil
	if tx.CategoryID != nil {
		if cat, ok := s.cats[*tx.CategoryID]; ok {
			c := cat
			tx.Category = &c
		}
	}
	return tx
}

func stripJoin(tx model.Transaction) model.Transaction {
	tx.Category = nil
	tx.CategoryID = copyRef(tx.CategoryID)
	tx.TransactionDate = tx.TransactionDate.UTC()
	return tx
}

func copyRef(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
