package service

import (
	"errors"
	"pix-bank-api/logger"
	"pix-bank-api/model"
	"pix-bank-api/repository"
	"strings"
)

var (
	ErrEmailTaken    = errors.New("email is already registered")
	ErrDocumentTaken = errors.New("document is already registered")
	ErrInvalidRole   = errors.New("invalid role specified")
)

// UserService handles user-related business logic.
type UserService struct {
	userRepo   repository.IUserRepository
	accountSvc *AccountService
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.IUserRepository, accountSvc *AccountService) *UserService {
	return &UserService{
		userRepo:   userRepo,
		accountSvc: accountSvc,
	}
}

// Register creates a new user with separately hashed login and
// transaction passwords, and opens their first account.
func (s *UserService) Register(req model.RegisterRequest) (*model.User, error) {
	log := logger.Log.WithField("email", req.Email)
	log.Info("Registering a new user")

	passwordHash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	transactionPasswordHash, err := HashPassword(req.TransactionPassword)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:                    req.Name,
		Email:                   req.Email,
		Document:                req.Document,
		PasswordHash:            passwordHash,
		TransactionPasswordHash: transactionPasswordHash,
		Role:                    model.RoleUser,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		if constraint, ok := repository.UniqueViolationConstraint(err); ok {
			if strings.Contains(constraint, "document") {
				return nil, ErrDocumentTaken
			}
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	// The first account is opened as part of registration; a failure
	// here still leaves a usable user who can open an account later.
	if _, err := s.accountSvc.CreateNewAccount(user.ID); err != nil {
		log.WithError(err).Warn("Could not open the initial account for new user")
	}

	return user, nil
}

// GetAllUsers retrieves all users. For admin use only.
func (s *UserService) GetAllUsers() ([]*model.User, error) {
	return s.userRepo.GetAllUsers()
}

// UpdateUserRole validates the role and calls the repository to update it.
func (s *UserService) UpdateUserRole(userID int, newRole model.Role) error {
	if newRole != model.RoleAdmin && newRole != model.RoleUser {
		return ErrInvalidRole
	}

	return s.userRepo.UpdateUserRole(userID, string(newRole))
}
