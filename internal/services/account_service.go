package services

import (
	"context"
	"strings"

	"anynow/internal/bridge"
	"anynow/internal/domain"
	"anynow/internal/validate"
)

type AccountService struct {
	Bridge *bridge.Bridge
}

func NewAccountService(b *bridge.Bridge) *AccountService { return &AccountService{Bridge: b} }

type Profile struct {
	User      domain.User      `json:"user"`
	Orders    []domain.Order   `json:"orders"`
	Addresses []domain.Address `json:"addresses"`
}

func (s *AccountService) Profile(u domain.User) Profile {
	return Profile{
		User:      u.Public(),
		Orders:    s.Bridge.OrdersByCustomer(u.ID, u.Email),
		Addresses: s.Bridge.Addresses(u.ID),
	}
}

func (s *AccountService) AddAddress(ctx context.Context, uid int64, a domain.Address) (domain.Address, error) {
	a.Label = strings.TrimSpace(a.Label)
	if a.Label == "" {
		a.Label = "Home"
	}
	if err := validate.Address(a); err != nil {
		return domain.Address{}, invalid(err.Error())
	}
	a.UserID = uid
	a.ID = 0
	return s.Bridge.CreateAddress(ctx, a)
}

func (s *AccountService) DeleteAddress(ctx context.Context, uid, id int64) error {
	return s.Bridge.DeleteAddress(ctx, uid, id)
}
