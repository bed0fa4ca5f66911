package bridge

import (
	"context"
	"slices"
	"strings"

	"anynow/internal/domain"
)

func userID(u domain.User) int64 { return u.ID }

// Users returns every user, newest signup first.
func (b *Bridge) Users() []domain.User {
	b.mu.RLock()
	out := slices.Clone(b.users)
	b.mu.RUnlock()
	slices.SortStableFunc(out, func(x, y domain.User) int { return y.SignupDate.Compare(x.SignupDate) })
	return out
}

func (b *Bridge) User(id int64) (domain.User, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i := indexByID(b.users, id, userID)
	if i < 0 {
		return domain.User{}, ErrNotFound
	}
	return b.users[i], nil
}

// UserOrderCount counts the orders placed while logged in as user id.
func (b *Bridge) UserOrderCount(id int64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, o := range b.orders {
		if o.CustomerID == id {
			n++
		}
	}
	return n
}

func (b *Bridge) UserByEmail(email string) (domain.User, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, u := range b.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, ErrNotFound
}

// SearchUsers matches q against name, email and phone.
func (b *Bridge) SearchUsers(q string) []domain.User {
	q = strings.ToLower(strings.TrimSpace(q))
	all := b.Users()
	if q == "" {
		return all
	}
	out := []domain.User{}
	for _, u := range all {
		if strings.Contains(strings.ToLower(u.Name), q) ||
			strings.Contains(strings.ToLower(u.Email), q) ||
			strings.Contains(strings.ToLower(u.Phone), q) {
			out = append(out, u)
		}
	}
	return out
}

func (b *Bridge) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if slices.ContainsFunc(b.users, func(x domain.User) bool { return strings.EqualFold(x.Email, u.Email) }) {
		return domain.User{}, ErrConflict
	}
	now := b.now()
	u.ID = nextID(b.users, userID)
	u.SignupDate = now
	u.UpdatedAt = now

	next := append(slices.Clone(b.users), u)
	if err := persist(ctx, b.store, KeyUsers, next); err != nil {
		return domain.User{}, err
	}
	b.users = next
	return u, nil
}

func (b *Bridge) updateUser(ctx context.Context, id int64, fn func(*domain.User)) (domain.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := indexByID(b.users, id, userID)
	if i < 0 {
		return domain.User{}, ErrNotFound
	}
	u := b.users[i]
	fn(&u)

	next := slices.Clone(b.users)
	next[i] = u
	if err := persist(ctx, b.store, KeyUsers, next); err != nil {
		return domain.User{}, err
	}
	b.users = next
	return u, nil
}

func (b *Bridge) TouchLogin(ctx context.Context, id int64) (domain.User, error) {
	return b.updateUser(ctx, id, func(u *domain.User) { u.LastLogin = b.now() })
}

func (b *Bridge) ToggleUserBlocked(ctx context.Context, id int64) (domain.User, error) {
	return b.updateUser(ctx, id, func(u *domain.User) {
		u.IsBlocked = !u.IsBlocked
		u.UpdatedAt = b.now()
	})
}

// Addresses returns the address book of one user.
func (b *Bridge) Addresses(uid int64) []domain.Address {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := []domain.Address{}
	for _, a := range b.addresses {
		if a.UserID == uid {
			out = append(out, a)
		}
	}
	return out
}

func addressID(a domain.Address) int64 { return a.ID }

func (b *Bridge) CreateAddress(ctx context.Context, a domain.Address) (domain.Address, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	a.ID = nextID(b.addresses, addressID)
	next := append(slices.Clone(b.addresses), a)
	if err := persist(ctx, b.store, KeyAddresses, next); err != nil {
		return domain.Address{}, err
	}
	b.addresses = next
	return a, nil
}

// DeleteAddress only removes addresses owned by uid.
func (b *Bridge) DeleteAddress(ctx context.Context, uid, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := slices.IndexFunc(b.addresses, func(a domain.Address) bool { return a.ID == id && a.UserID == uid })
	if i < 0 {
		return ErrNotFound
	}
	next := slices.Delete(slices.Clone(b.addresses), i, i+1)
	if err := persist(ctx, b.store, KeyAddresses, next); err != nil {
		return err
	}
	b.addresses = next
	return nil
}
