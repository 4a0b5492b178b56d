// Package memuow provides an in-memory UnitOfWork with the same optimistic
// concurrency contract as the Postgres store: version-checked account
// updates, unique account numbers and usernames, and all-or-nothing commits.
// It backs the coordinator and webapi tests.
package memuow

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/sehyun-dev/gobank/pkg/domain"
	"github.com/sehyun-dev/gobank/pkg/repository"
)

// Store is the shared committed state. Safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	accounts  map[uuid.UUID]domain.Account
	numbers   map[string]uuid.UUID
	users     map[uuid.UUID]domain.User
	usernames map[string]uuid.UUID
	histories []domain.History
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		accounts:  make(map[uuid.UUID]domain.Account),
		numbers:   make(map[string]uuid.UUID),
		users:     make(map[uuid.UUID]domain.User),
		usernames: make(map[string]uuid.UUID),
	}
}

// UoW returns a UnitOfWork over the store.
func (s *Store) UoW() repository.UnitOfWork {
	return &UnitOfWork{store: s}
}

// HistoryCount reports the number of committed history rows.
func (s *Store) HistoryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.histories)
}

type accountWrite struct {
	account     domain.Account
	insert      bool
	readVersion int64
}

// journal buffers a unit's writes; nothing is visible until commit.
type journal struct {
	accountWrites []accountWrite
	histories     []domain.History
	userInserts   []domain.User
}

// UnitOfWork implements repository.UnitOfWork. Outside Do each write is its
// own atomic unit; inside Do writes are journaled and committed together,
// with every version precondition re-validated under the store lock.
type UnitOfWork struct {
	store *Store
	tx    *journal
}

// Do runs fn over a journaling UnitOfWork and commits on success. Reads see
// committed state only; the coordinator never reads back its own writes
// within a unit.
func (u *UnitOfWork) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u) // nested units flatten into the outer one
	}
	txn := &UnitOfWork{store: u.store, tx: &journal{}}
	if err := fn(txn); err != nil {
		return err
	}
	return u.store.commit(txn.tx)
}

// Accounts implements repository.UnitOfWork.
func (u *UnitOfWork) Accounts() (repository.AccountRepository, error) {
	return &accountRepo{u}, nil
}

// Histories implements repository.UnitOfWork.
func (u *UnitOfWork) Histories() (repository.HistoryRepository, error) {
	return &historyRepo{u}, nil
}

// Users implements repository.UnitOfWork.
func (u *UnitOfWork) Users() (repository.UserRepository, error) {
	return &userRepo{u}, nil
}

// commit validates every precondition, then applies every write, holding the
// store lock throughout so the unit is indivisible.
func (s *Store) commit(j *journal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range j.accountWrites {
		if w.insert {
			if _, taken := s.numbers[w.account.Number]; taken {
				return fmt.Errorf("%w: duplicate account number %q", domain.ErrPersistence, w.account.Number)
			}
			continue
		}
		current, ok := s.accounts[w.account.ID]
		if !ok {
			return fmt.Errorf("%w: account %s vanished", domain.ErrPersistence, w.account.ID)
		}
		if current.Version != w.readVersion {
			return domain.ErrConcurrentUpdate
		}
	}
	for _, nu := range j.userInserts {
		if _, taken := s.usernames[nu.Username]; taken {
			return fmt.Errorf("%w: duplicate username %q", domain.ErrPersistence, nu.Username)
		}
	}
	for _, w := range j.accountWrites {
		a := w.account
		if w.insert {
			a.Version = 1
		} else {
			a.Version = w.readVersion + 1
		}
		s.accounts[a.ID] = a
		s.numbers[a.Number] = a.ID
	}
	for _, nu := range j.userInserts {
		s.users[nu.ID] = nu
		s.usernames[nu.Username] = nu.ID
	}
	s.histories = append(s.histories, j.histories...)
	return nil
}

type accountRepo struct{ u *UnitOfWork }

func (r *accountRepo) Insert(ctx context.Context, a *domain.Account) error {
	w := accountWrite{account: *a, insert: true}
	if r.u.tx != nil {
		r.u.tx.accountWrites = append(r.u.tx.accountWrites, w)
		return nil
	}
	return r.u.store.commit(&journal{accountWrites: []accountWrite{w}})
}

func (r *accountRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := a
	return &cp, nil
}

func (r *accountRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	// No row locks in memory; the version check at commit is the guard.
	return r.FindByID(ctx, id)
}

func (r *accountRepo) FindByNumber(ctx context.Context, number string) (*domain.Account, error) {
	s := r.u.store
	s.mu.Lock()
	id, ok := s.numbers[number]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return r.FindByID(ctx, id)
}

func (r *accountRepo) FindByNumberForUpdate(ctx context.Context, number string) (*domain.Account, error) {
	return r.FindByNumber(ctx, number)
}

func (r *accountRepo) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Account, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Account
	for _, a := range s.accounts {
		if a.OwnerID == ownerID {
			cp := a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *accountRepo) UpdateByID(ctx context.Context, a *domain.Account) error {
	w := accountWrite{account: *a, readVersion: a.Version}
	if r.u.tx != nil {
		r.u.tx.accountWrites = append(r.u.tx.accountWrites, w)
		return nil
	}
	return r.u.store.commit(&journal{accountWrites: []accountWrite{w}})
}

type historyRepo struct{ u *UnitOfWork }

func (r *historyRepo) Insert(ctx context.Context, h *domain.History) error {
	if r.u.tx != nil {
		r.u.tx.histories = append(r.u.tx.histories, *h)
		return nil
	}
	return r.u.store.commit(&journal{histories: []domain.History{*h}})
}

func (r *historyRepo) FindByHistoryType(
	ctx context.Context,
	accountID uuid.UUID,
	t domain.HistoryType,
) ([]*domain.History, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.History
	// Most-recent-first: walk the append log backwards.
	for i := len(s.histories) - 1; i >= 0; i-- {
		h := s.histories[i]
		if h.Matches(accountID, t) {
			cp := h
			out = append(out, &cp)
		}
	}
	return out, nil
}

type userRepo struct{ u *UnitOfWork }

func (r *userRepo) Insert(ctx context.Context, nu *domain.User) error {
	if r.u.tx != nil {
		r.u.tx.userInserts = append(r.u.tx.userInserts, *nu)
		return nil
	}
	return r.u.store.commit(&journal{userInserts: []domain.User{*nu}})
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	nu, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := nu
	return &cp, nil
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	s := r.u.store
	s.mu.Lock()
	id, ok := s.usernames[username]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return r.FindByID(ctx, id)
}
