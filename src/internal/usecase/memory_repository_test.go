package usecase

import (
	"context"
	"sort"
	"sync"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/repository"
)

// memoryRepository keeps committed copies and enforces the same version
// check as the SQL repository.
type memoryRepository struct {
	mu       sync.Mutex
	accounts map[string]*entity.Account
	saves    int
	saveErr  error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{accounts: make(map[string]*entity.Account)}
}

func (r *memoryRepository) put(a *entity.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := a.Clone()
	if c.Version == 0 {
		c.Version = 1
	}
	c.ClearChanges()
	r.accounts[c.ID] = c
	a.Version = c.Version
	a.ClearChanges()
}

func (r *memoryRepository) get(id string) *entity.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[id]; ok {
		return a.Clone()
	}
	return nil
}

func (r *memoryRepository) Load(_ context.Context, id string) (*entity.Account, error) {
	if a := r.get(id); a != nil {
		return a, nil
	}
	return nil, entity.NewNotFoundError("account %s not found", id)
}

func (r *memoryRepository) Save(_ context.Context, accounts ...*entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	for _, a := range accounts {
		stored, ok := r.accounts[a.ID]
		if a.IsNew() {
			if ok {
				return repository.ErrDuplicate
			}
			for _, other := range r.accounts {
				if other.Email == a.Email || other.ReferralCode == a.ReferralCode {
					return repository.ErrDuplicate
				}
			}
			continue
		}
		if !ok || stored.Version != a.Version {
			return entity.NewConcurrencyConflictError("account %s changed", a.ID)
		}
	}
	for _, a := range accounts {
		c := a.Clone()
		c.Version = a.Version + 1
		c.ClearChanges()
		r.accounts[a.ID] = c
		a.Version++
		a.ClearChanges()
	}
	r.saves++
	return nil
}

func (r *memoryRepository) find(match func(*entity.Account) bool) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if match(a) {
			return a.Clone(), nil
		}
	}
	return nil, entity.NewNotFoundError("account not found")
}

func (r *memoryRepository) FindByReferralCode(_ context.Context, code string) (*entity.Account, error) {
	return r.find(func(a *entity.Account) bool { return a.ReferralCode == code })
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	return r.find(func(a *entity.Account) bool { return a.Email == email })
}

func (r *memoryRepository) ListPending(_ context.Context, kind entity.RequestKind) ([]entity.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Request{}
	for _, a := range r.accounts {
		out = append(out, a.PendingRequests(kind)...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepository) ListActiveVipIDs(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := []string{}
	for id, a := range r.accounts {
		if a.IsVip() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *memoryRepository) List(_ context.Context, limit, offset int) ([]entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Account{}
	for _, a := range r.accounts {
		out = append(out, *a.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return []entity.Account{}, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryRepository) Stats(_ context.Context) (entity.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var s entity.Stats
	for _, a := range r.accounts {
		s.Accounts++
		s.TotalBalance += a.Balance
		if a.VipLevel > 0 {
			s.ActiveVip++
		}
		s.PendingRecharge += int64(len(a.PendingRequests(entity.RequestRecharge)))
		s.PendingWithdrawal += int64(len(a.PendingRequests(entity.RequestWithdrawal)))
		s.PendingVip += int64(len(a.PendingRequests(entity.RequestVip)))
	}
	return s, nil
}
