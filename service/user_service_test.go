package service

import (
	"pix-bank-api/model"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func registerRequest() model.RegisterRequest {
	return model.RegisterRequest{
		Name:                "Alice",
		Email:               "alice@example.com",
		Document:            "12345678900",
		Password:            "s3cret",
		TransactionPassword: "4321",
	}
}

func TestUserService_Register(t *testing.T) {
	t.Run("success hashes both passwords and opens an account", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockAccountRepo := new(MockAccountRepository)
		accountSvc := NewAccountService(nil, mockAccountRepo, nil, nil, nil)
		svc := NewUserService(mockUserRepo, accountSvc)

		mockUserRepo.On("CreateUser", mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "alice@example.com" &&
				u.Role == model.RoleUser &&
				u.PasswordHash != "s3cret" &&
				u.TransactionPasswordHash != "4321" &&
				u.PasswordHash != u.TransactionPasswordHash
		})).Return(nil).Once()
		mockAccountRepo.On("Create", mock.AnythingOfType("*model.Account")).Return(nil).Once()

		user, err := svc.Register(registerRequest())

		assert.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
		mockUserRepo.AssertExpectations(t)
		mockAccountRepo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		svc := NewUserService(mockUserRepo, nil)

		dup := &pq.Error{Code: "23505", Constraint: "users_email_key"}
		mockUserRepo.On("CreateUser", mock.AnythingOfType("*model.User")).Return(dup).Once()

		_, err := svc.Register(registerRequest())

		assert.Equal(t, ErrEmailTaken, err)
	})

	t.Run("duplicate document", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		svc := NewUserService(mockUserRepo, nil)

		dup := &pq.Error{Code: "23505", Constraint: "users_document_key"}
		mockUserRepo.On("CreateUser", mock.AnythingOfType("*model.User")).Return(dup).Once()

		_, err := svc.Register(registerRequest())

		assert.Equal(t, ErrDocumentTaken, err)
	})

	t.Run("account opening failure does not fail registration", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockAccountRepo := new(MockAccountRepository)
		accountSvc := NewAccountService(nil, mockAccountRepo, nil, nil, nil)
		svc := NewUserService(mockUserRepo, accountSvc)

		mockUserRepo.On("CreateUser", mock.AnythingOfType("*model.User")).Return(nil).Once()
		mockAccountRepo.On("Create", mock.AnythingOfType("*model.Account")).Return(assert.AnError).Once()

		user, err := svc.Register(registerRequest())

		assert.NoError(t, err)
		assert.NotNil(t, user)
	})
}

func TestUserService_UpdateUserRole(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		svc := NewUserService(mockUserRepo, nil)

		mockUserRepo.On("UpdateUserRole", 2, "admin").Return(nil).Once()

		err := svc.UpdateUserRole(2, model.RoleAdmin)

		assert.NoError(t, err)
		mockUserRepo.AssertExpectations(t)
	})

	t.Run("unknown role", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		svc := NewUserService(mockUserRepo, nil)

		err := svc.UpdateUserRole(2, model.Role("superuser"))

		assert.Equal(t, ErrInvalidRole, err)
		mockUserRepo.AssertNotCalled(t, "UpdateUserRole", mock.Anything, mock.Anything)
	})
}
