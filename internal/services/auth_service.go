package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"anynow/internal/bridge"
	"anynow/internal/domain"
	"anynow/internal/storage"
	"anynow/internal/validate"
)

type AuthService struct {
	Store  *storage.Store
	Bridge *bridge.Bridge
	Cost   int
}

func NewAuthService(store *storage.Store, b *bridge.Bridge) *AuthService {
	return &AuthService{Store: store, Bridge: b, Cost: bcrypt.DefaultCost}
}

type session struct {
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func sessionKey(sid string) string { return "session_" + sid }

// SignupForm is the customer registration form.
type SignupForm struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Phone    string `json:"phone" form:"phone"`
	Password string `json:"password" form:"password"`
	Confirm  string `json:"confirmPassword" form:"confirmPassword"`
}

// Signup registers a customer. A taken email is reported as bridge.ErrConflict.
func (s *AuthService) Signup(ctx context.Context, f SignupForm) (domain.User, error) {
	if err := validate.Signup(f.Name, f.Email, f.Password, f.Confirm); err != nil {
		return domain.User{}, invalid(err.Error())
	}
	email, _ := validate.Email(f.Email)
	phone := strings.TrimSpace(f.Phone)
	if phone != "" {
		var ok bool
		if phone, ok = validate.Phone(phone); !ok {
			return domain.User{}, invalid("enter a valid phone number")
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), s.Cost)
	if err != nil {
		return domain.User{}, err
	}
	u, err := s.Bridge.CreateUser(ctx, domain.User{
		Name:  strings.TrimSpace(f.Name),
		Email: email,
		Phone: phone,
		Hash:  string(hash),
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("signup: %w", err)
	}
	return u, nil
}

// Login checks the credentials and starts a session under a fresh id, which
// it returns. The cart and location of the previous id move to the new one
// and the previous session is dropped.
func (s *AuthService) Login(ctx context.Context, sid, email, password string) (domain.User, string, error) {
	u, err := s.Bridge.UserByEmail(strings.TrimSpace(email))
	if err != nil {
		return domain.User{}, "", ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return domain.User{}, "", ErrBadCreds
	}
	if u.IsBlocked {
		return domain.User{}, "", ErrBlocked
	}
	if u, err = s.Bridge.TouchLogin(ctx, u.ID); err != nil {
		return domain.User{}, "", err
	}
	fresh := uuid.NewString()
	if err := s.Store.Save(ctx, sessionKey(fresh), session{UserID: u.ID, CreatedAt: time.Now().UTC()}); err != nil {
		return domain.User{}, "", err
	}
	if sid != "" {
		if err := s.carryOver(ctx, sid, fresh); err != nil {
			return domain.User{}, "", err
		}
	}
	return u, fresh, nil
}

func (s *AuthService) carryOver(ctx context.Context, from, to string) error {
	for _, key := range []func(string) string{cartKey, locationKey} {
		var raw json.RawMessage
		found, err := s.Store.Load(ctx, key(from), &raw)
		if err != nil {
			return err
		}
		if found {
			if err := s.Store.Save(ctx, key(to), raw); err != nil {
				return err
			}
			if err := s.Store.Remove(ctx, key(from)); err != nil {
				return err
			}
		}
	}
	return s.Store.Remove(ctx, sessionKey(from))
}

func (s *AuthService) Logout(ctx context.Context, sid string) error {
	return s.Store.Remove(ctx, sessionKey(sid))
}

// CurrentUser resolves the session. A user blocked after logging in loses
// the session.
func (s *AuthService) CurrentUser(ctx context.Context, sid string) (domain.User, error) {
	if sid == "" {
		return domain.User{}, ErrNotLoggedIn
	}
	var sess session
	found, err := s.Store.Load(ctx, sessionKey(sid), &sess)
	if err != nil {
		return domain.User{}, err
	}
	if !found {
		return domain.User{}, ErrNotLoggedIn
	}
	u, err := s.Bridge.User(sess.UserID)
	if errors.Is(err, bridge.ErrNotFound) {
		return domain.User{}, ErrNotLoggedIn
	}
	if err != nil {
		return domain.User{}, err
	}
	if u.IsBlocked {
		return domain.User{}, ErrBlocked
	}
	return u, nil
}
