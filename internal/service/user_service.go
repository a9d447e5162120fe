package service

import (
	"context"
	"errors"

	"github.com/rramosdev/shop-backoffice/internal/model"
	"github.com/rramosdev/shop-backoffice/internal/repository"
	"github.com/rramosdev/shop-backoffice/internal/utils"
)

// ErrForbidden is returned when the acting role may not perform the change,
// e.g. a customer editing roles or another user's account.
var ErrForbidden = errors.New("forbidden")

// UserDirectory is the account CRUD contract consumed by UserService.
type UserDirectory interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	List(ctx context.Context, p repository.Pagination, query string) ([]model.User, error)
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id string) error
}

// UserService implements registration and account management. New accounts
// start inactive and receive an activation link by email.
type UserService struct {
	users      UserDirectory
	auth       *AuthService
	bcryptCost int
}

func NewUserService(users UserDirectory, auth *AuthService, bcryptCost int) *UserService {
	return &UserService{users: users, auth: auth, bcryptCost: bcryptCost}
}

// Register creates an inactive customer account and dispatches the
// activation email. Dispatch is best effort; registration succeeds even if
// the email cannot be queued.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Name:         name,
		Email:        email,
		Role:         model.RoleCustomer,
		Active:       false,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.auth.SendActivationEmail(ctx, u)
	return u, nil
}

// List returns users matching the optional name query. Admin only; the
// handler enforces the role, the service just pages.
func (s *UserService) List(ctx context.Context, p repository.Pagination, query string) ([]model.User, error) {
	return s.users.List(ctx, p, query)
}

// Get fetches one user by id.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateInput carries the optional fields of a user update. Nil means
// "leave unchanged".
type UpdateInput struct {
	Name            *string
	Email           *string
	Password        *string
	CurrentPassword string
	Role            *model.Role
	Active          *bool
}

// Update applies in to the user. Role and active changes require an admin
// actor. A customer replacing their password must prove knowledge of the
// current one; admins may reset without it.
func (s *UserService) Update(ctx context.Context, id string, in UpdateInput, actorRole model.Role) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if (in.Role != nil || in.Active != nil) && actorRole != model.RoleAdmin {
		return nil, ErrForbidden
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, ErrForbidden
		}
		u.Role = *in.Role
	}
	if in.Active != nil {
		u.Active = *in.Active
	}
	if in.Password != nil {
		if actorRole == model.RoleCustomer && !utils.VerifyPassword(u.PasswordHash, in.CurrentPassword) {
			return nil, ErrWrongPassword
		}
		hash, err := utils.HashPassword(*in.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes the account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}
