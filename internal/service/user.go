package service

import (
	"fmt"
	"time"

	"github.com/templui/corpsite/internal/auth"
	"github.com/templui/corpsite/internal/model"
	"github.com/templui/corpsite/internal/repository"
	"github.com/templui/corpsite/internal/token"
	"github.com/templui/corpsite/internal/validation"
)

// UserInput carries the fields a request sent; nil fields are left unchanged.
type UserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *token.Role
}

type UserService struct {
	userRepository repository.UserRepository
	now            func() time.Time
}

func NewUserService(userRepository repository.UserRepository) *UserService {
	return &UserService{
		userRepository: userRepository,
		now:            time.Now,
	}
}

func (s *UserService) List() ([]*model.User, error) {
	return s.userRepository.List()
}

func (s *UserService) ByID(id int64) (*model.User, error) {
	return s.userRepository.ByID(id)
}

func (s *UserService) Create(in UserInput) (*model.User, error) {
	user := &model.User{Role: token.RoleEditor}

	if in.Email == nil || in.Password == nil {
		return nil, validation.Invalid("email", "email and password are required")
	}
	err := s.apply(user, in)
	if err != nil {
		return nil, err
	}
	if user.Name == "" {
		return nil, validation.Invalid("name", "name is required")
	}

	now := s.now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	err = s.userRepository.Create(user)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Update applies in to user id. A caller without the admin role may not
// change any role, including their own.
func (s *UserService) Update(caller auth.Caller, id int64, in UserInput) (*model.User, error) {
	user, err := s.userRepository.ByID(id)
	if err != nil {
		return nil, err
	}

	if in.Role != nil && *in.Role != user.Role && !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: only an admin can change roles", auth.ErrForbidden)
	}

	err = s.apply(user, in)
	if err != nil {
		return nil, err
	}
	user.UpdatedAt = s.now().UTC()

	err = s.userRepository.Update(user)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(id int64) error {
	return s.userRepository.Delete(id)
}

func (s *UserService) apply(user *model.User, in UserInput) error {
	if in.Name != nil {
		err := validation.Required("name", *in.Name, 100)
		if err != nil {
			return err
		}
		user.Name = *in.Name
	}
	if in.Email != nil {
		email := validation.NormalizeEmail(*in.Email)
		err := validation.ValidateEmail(email)
		if err != nil {
			return err
		}
		user.Email = email
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return validation.Invalid("role", "role must be admin, editor or user")
		}
		user.Role = *in.Role
	}
	if in.Password != nil {
		err := validation.ValidatePassword(*in.Password)
		if err != nil {
			return err
		}
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	}
	return nil
}
