package services

import (
	"errors"
	"fmt"

	"taskmanager/models"
	"taskmanager/repositories"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// The UserService interface defines the methods that user services need to implement
type UserService interface {
	CreateUser(input *CreateUserInput) (*models.User, error)
	ChangeRoleToAdmin(userID uint) (*models.User, error)
	FindAll() ([]models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	IsUserEmailPresent(email string) (bool, error)
	Authenticate(email, password string) (*models.User, error)
}

// CreateUserInput carries the sign-up form fields. Role and active flag are
// never taken from the caller; every new user gets the "USER" role and
// active=1.
type CreateUserInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// The userService structure is the implementation of the UserService interface
type userService struct {
	userRepo repositories.UserRepository
	roleRepo repositories.RoleRepository
}

var _ UserService = (*userService)(nil)

// NewUserService creates a new UserService instance
func NewUserService(userRepo repositories.UserRepository, roleRepo repositories.RoleRepository) UserService {
	return &userService{userRepo: userRepo, roleRepo: roleRepo}
}

// CreateUser provisions a new account: the plaintext credential is hashed
// before storage, the account is activated unconditionally, and the "USER"
// role is assigned as the sole role. Fails if the role row has not been
// seeded.
func (s *userService) CreateUser(input *CreateUserInput) (*models.User, error) {
	_, err := s.userRepo.FindByEmail(input.Email)
	if err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking existing user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("could not hash password: %w", err)
	}

	userRole, err := s.roleRepo.FindByName(models.RoleUser)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s (role store must be pre-seeded)", ErrRoleNotFound, models.RoleUser)
		}
		return nil, fmt.Errorf("looking up role %s: %w", models.RoleUser, err)
	}

	user := models.User{
		Email:    input.Email,
		Name:     input.Name,
		Password: string(hashedPassword),
		Active:   1,
		Roles:    []models.Role{*userRole},
	}

	if err := s.userRepo.Create(&user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// ChangeRoleToAdmin replaces the user's role set with exactly the "ADMIN"
// role. Any other roles the user held are dropped.
func (s *userService) ChangeRoleToAdmin(userID uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("retrieving user for promotion: %w", err)
	}

	adminRole, err := s.roleRepo.FindByName(models.RoleAdmin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s (role store must be pre-seeded)", ErrRoleNotFound, models.RoleAdmin)
		}
		return nil, fmt.Errorf("looking up role %s: %w", models.RoleAdmin, err)
	}

	if err := s.userRepo.ReplaceRoles(user, []models.Role{*adminRole}); err != nil {
		return nil, fmt.Errorf("failed to replace roles: %w", err)
	}

	return s.userRepo.FindByID(user.ID)
}

// FindAll returns all users, unfiltered and unpaged.
func (s *userService) FindAll() ([]models.User, error) {
	return s.userRepo.FindAll()
}

// GetUserByEmail returns the matching user or ErrUserNotFound.
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("retrieving user by email: %w", err)
	}
	return user, nil
}

// IsUserEmailPresent is the existence check used for sign-up
// duplicate-prevention.
func (s *userService) IsUserEmailPresent(email string) (bool, error) {
	_, err := s.userRepo.FindByEmail(email)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("checking email presence: %w", err)
}

// Authenticate verifies the credential against the stored hash. Inactive
// accounts cannot log in. Returns ErrInvalidCredentials without revealing
// whether the account exists.
func (s *userService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("retrieving user for login: %w", err)
	}
	if user.Active != 1 {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
