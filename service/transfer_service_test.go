// service/transfer_service_test.go
package service

import (
	"context"
	"database/sql"
	"errors"
	"pix-bank-api/model"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type transferFixture struct {
	svc         *TransferService
	dbMock      sqlmock.Sqlmock
	accountRepo *MockAccountRepository
	txnRepo     *MockTransactionRepository
	pixKeyRepo  *MockPixKeyRepository
	userRepo    *MockUserRepository
	secrets     *MockSecretVerifier
	close       func()
}

func newTransferFixture(t *testing.T) *transferFixture {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)

	f := &transferFixture{
		dbMock:      dbMock,
		accountRepo: new(MockAccountRepository),
		txnRepo:     new(MockTransactionRepository),
		pixKeyRepo:  new(MockPixKeyRepository),
		userRepo:    new(MockUserRepository),
		secrets:     new(MockSecretVerifier),
		close:       func() { db.Close() },
	}
	f.svc = NewTransferService(db, f.accountRepo, f.txnRepo, f.pixKeyRepo, f.userRepo, f.secrets, nil)
	return f
}

func (f *transferFixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.accountRepo.AssertExpectations(t)
	f.txnRepo.AssertExpectations(t)
	f.pixKeyRepo.AssertExpectations(t)
	f.userRepo.AssertExpectations(t)
	f.secrets.AssertExpectations(t)
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTransferService_Execute_Pix(t *testing.T) {
	ctx := context.Background()
	userID := 1

	req := model.CreateTransactionRequest{
		OriginAccountID:     1,
		Type:                model.TransactionTypePix,
		Amount:              money("30.00"),
		TransactionPassword: "4321",
		PixKey:              "maria@example.com",
	}

	target := &model.PixKeyTarget{
		AccountID:     2,
		Agency:        "4567",
		Number:        "654321",
		Digit:         "0",
		OwnerID:       2,
		OwnerName:     "Maria Souza",
		OwnerDocument: "98765432100",
	}

	t.Run("success", func(t *testing.T) {
		f := newTransferFixture(t)
		defer f.close()

		origin := &model.Account{ID: 1, UserID: 1, Balance: money("100.00")}
		destination := &model.Account{ID: 2, UserID: 2, Balance: money("50.00")}

		f.pixKeyRepo.On("ResolveAlias", "maria@example.com").Return(target, nil).Once()
		f.dbMock.ExpectBegin()
		f.accountRepo.On("GetForUpdate", mock.Anything, 1).Return(origin, nil).Once()
		f.accountRepo.On("GetForUpdate", mock.Anything, 2).Return(destination, nil).Once()
		f.secrets.On("VerifyTransactionSecret", userID, "4321").Return(true, nil).Once()
		f.accountRepo.On("AdjustBalance", mock.Anything, 1, money("-30.00")).Return(money("70.00"), nil).Once()
		f.accountRepo.On("AdjustBalance", mock.Anything, 2, money("30.00")).Return(money("80.00"), nil).Once()
		f.txnRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Transaction")).Return(nil).Once()
		f.dbMock.ExpectCommit()

		transaction, err := f.svc.Execute(ctx, userID, req)

		assert.NoError(t, err)
		assert.Equal(t, 1, transaction.OriginAccountID)
		if assert.NotNil(t, transaction.DestinationAccountID) {
			assert.Equal(t, 2, *transaction.DestinationAccountID)
		}
		assert.Equal(t, model.TransactionTypePix, transaction.Type)
		assert.True(t, transaction.Amount.Equal(money("30.00")))
		assert.True(t, transaction.BalanceAfter.Equal(money("70.00")))
		assert.Equal(t, "Maria Souza", transaction.RecipientName)
		assert.Equal(t, "98765432100", transaction.RecipientDocument)
		if assert.NotNil(t, transaction.RecipientBank) {
			assert.Equal(t, "341", *transaction.RecipientBank)
		}
		if assert.NotNil(t, transaction.RecipientAccount) {
			assert.Equal(t, "654321-0", *transaction.RecipientAccount)
		}
		f.assertExpectations(t)
	})

	t.Run("insufficient funds aborts without mutation", func(t *testing.T) {
		f := newTransferFixture(t)
		defer f.close()

		origin := &model.Account{ID: 1, UserID: 1, Balance: money("10.00")}
		destination := &model.Account{ID: 2, UserID: 2, Balance: money("50.00")}

		poorReq := req
		poorReq.Amount = money("20.00")

		f.pixKeyRepo.On("ResolveAlias", "maria@example.com").Return(target, nil).Once()
		f.dbMock.ExpectBegin()
		f.accountRepo.On("GetForUpdate", mock.Anything, 1).Return(origin, nil).Once()
		f.accountRepo.On("GetForUpdate", mock.Anything, 2).Return(destination, nil).Once()
		f.secrets.On("VerifyTransactionSecret", userID, "4321").Return(true, nil).Once()
		f.dbMock.ExpectRollback()

		_, err := f.svc.Execute(ctx, userID, poorReq)

		assert.Equal(t, ErrInsufficientFunds, err)
		f.accountRepo.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything)
		f.txnRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("self transfer is rejected before any lock", func(t *testing.T) {
		f := newTransferFixture(t)
		defer f.close()

		selfTarget := &model.PixKeyTarget{AccountID: 1, OwnerID: 1}
		f.pixKeyRepo.On("ResolveAlias", "maria@example.com").Return(selfTarget, nil).Once()

		_, err := f.svc.Execute(ctx, userID, req)

		assert.Equal(t, ErrSelfTransfer, err)
		f.assertExpectations(t)
	})

	t.Run("unknown pix key", func(t *testing.T) {
		f := newTransferFixture(t)
		defer f.close()

		f.pixKeyRepo.On("ResolveAlias", "maria@example.com").Return(nil, sql.ErrNoRows).Once()

		_, err := f.svc.Execute(ctx, userID, req)

		assert.Equal(t, ErrPixKeyNotFound, err)
		f.assertExpectations(t)
	})

	t.Run("wrong transaction password rolls back", func(t *testing.T) {
		f := newTransferFixture(t)
		defer f.close()

		origin := &model.Account{ID: 1, UserID: 1, Balance: money("100.00")}
		destination := &model.Account{ID: 2, UserID: 2, Balance: money("50.00")}

		f.pixKeyRepo.On("ResolveAlias", "maria@example.com").Return(target, nil).Once()
		f.dbMock.ExpectBegin()
		f.accountRepo.On("GetForUpdate", mock.Anything, 1).Return(origin, nil).Once()
		f.accountRepo.On("GetForUpdate", mock.Anything, 2).Return(destination, nil).Once()
		f.secrets.On("VerifyTransactionSecret", userID, "4321").Return(false, nil).Once()
		f.dbMock.ExpectRollback()

		_, err := f.svc.Execute(ctx, userID, req)

		assert.Equal(t, ErrTransactionPasswordInvalid, err)
		f.accountRepo.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("origin owned by someone else looks missing", func(t *testing.T) {
		f := newTransferFixture(t)
		defer f.close()

		foreignOrigin := &model.Account{ID: 1, UserID: 99, Balance: money("100.00")}
		destination := &model.Account{ID: 2, UserID: 2, Balance: money("50.00")}

		f.pixKeyRepo.On("ResolveAlias", "maria@example.com").Return(target, nil).Once()
		f.dbMock.ExpectBegin()
		f.accountRepo.On("GetForUpdate", mock.Anything, 1).Return(foreignOrigin, nil).Once()
		f.accountRepo.On("GetForUpdate", mock.Anything, 2).Return(destination, nil).Once()
		f.dbMock.ExpectRollback()

		_, err := f.svc.Execute(ctx, userID, req)

		assert.Equal(t, ErrAccountNotFound, err)
		f.assertExpectations(t)
	})

	t.Run("locks are acquired in ascending account ID order", func(t *testing.T) {
		f := newTransferFixture(t)
		defer f.close()

		// Origin has the higher ID, so the destination must be locked first.
		highReq := req
		highReq.OriginAccountID = 5
		origin := &model.Account{ID: 5, UserID: 1, Balance: money("100.00")}
		destination := &model.Account{ID: 2, UserID: 2, Balance: money("50.00")}

		var lockOrder []int
		record := func(args mock.Arguments) {
			lockOrder = append(lockOrder, args.Int(1))
		}

		f.pixKeyRepo.On("ResolveAlias", "maria@example.com").Return(target, nil).Once()
		f.dbMock.ExpectBegin()
		f.accountRepo.On("GetForUpdate", mock.Anything, 2).Run(record).Return(destination, nil).Once()
		f.accountRepo.On("GetForUpdate", mock.Anything, 5).Run(record).Return(origin, nil).Once()
		f.secrets.On("VerifyTransactionSecret", userID, "4321").Return(true, nil).Once()
		f.accountRepo.On("AdjustBalance", mock.Anything, 5, money("-30.00")).Return(money("70.00"), nil).Once()
		f.accountRepo.On("AdjustBalance", mock.Anything, 2, money("30.00")).Return(money("80.00"), nil).Once()
		f.txnRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Transaction")).Return(nil).Once()
		f.dbMock.ExpectCommit()

		_, err := f.svc.Execute(ctx, userID, highReq)

		assert.NoError(t, err)
		assert.Equal(t, []int{2, 5}, lockOrder)
		f.assertExpectations(t)
	})
}

func TestTransferService_Execute_Ted(t *testing.T) {
	ctx := context.Background()
	userID := 1

	req := model.CreateTransactionRequest{
		OriginAccountID:     1,
		Type:                model.TransactionTypeTed,
		Amount:              money("45.50"),
		TransactionPassword: "4321",
		RecipientName:       "Carlos Lima",
		RecipientDocument:   "11122233344",
		RecipientBank:       "237",
		RecipientAgency:     "0001",
		RecipientAccount:    "123456-9",
	}

	t.Run("success leaves no destination reference", func(t *testing.T) {
		f := newTransferFixture(t)
		defer f.close()

		origin := &model.Account{ID: 1, UserID: 1, Balance: money("100.00")}

		f.dbMock.ExpectBegin()
		f.accountRepo.On("GetForUpdate", mock.Anything, 1).Return(origin, nil).Once()
		f.secrets.On("VerifyTransactionSecret", userID, "4321").Return(true, nil).Once()
		f.accountRepo.On("AdjustBalance", mock.Anything, 1, money("-45.50")).Return(money("54.50"), nil).Once()
		f.txnRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Transaction")).Return(nil).Once()
		f.dbMock.ExpectCommit()

		transaction, err := f.svc.Execute(ctx, userID, req)

		assert.NoError(t, err)
		assert.Nil(t, transaction.DestinationAccountID)
		assert.Equal(t, "Carlos Lima", transaction.RecipientName)
		if assert.NotNil(t, transaction.RecipientBank) {
			assert.Equal(t, "237", *transaction.RecipientBank)
		}
		assert.True(t, transaction.BalanceAfter.Equal(money("54.50")))
		f.assertExpectations(t)
	})

	t.Run("missing recipient fields", func(t *testing.T) {
		f := newTransferFixture(t)
		defer f.close()

		incomplete := req
		incomplete.RecipientBank = ""

		_, err := f.svc.Execute(ctx, userID, incomplete)

		assert.Equal(t, ErrIncompleteDestination, err)
		f.assertExpectations(t)
	})

	t.Run("commit error surfaces", func(t *testing.T) {
		f := newTransferFixture(t)
		defer f.close()

		origin := &model.Account{ID: 1, UserID: 1, Balance: money("100.00")}

		f.dbMock.ExpectBegin()
		f.accountRepo.On("GetForUpdate", mock.Anything, 1).Return(origin, nil).Once()
		f.secrets.On("VerifyTransactionSecret", userID, "4321").Return(true, nil).Once()
		f.accountRepo.On("AdjustBalance", mock.Anything, 1, money("-45.50")).Return(money("54.50"), nil).Once()
		f.txnRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Transaction")).Return(nil).Once()
		f.dbMock.ExpectCommit().WillReturnError(errors.New("commit failed"))

		_, err := f.svc.Execute(ctx, userID, req)

		assert.Error(t, err)
		f.assertExpectations(t)
	})
}

func TestTransferService_Execute_Deposit(t *testing.T) {
	ctx := context.Background()
	userID := 1

	req := model.CreateTransactionRequest{
		OriginAccountID:     1,
		Type:                model.TransactionTypeDeposit,
		Amount:              money("50.00"),
		TransactionPassword: "4321",
	}

	t.Run("credits the account and records the holder's document", func(t *testing.T) {
		f := newTransferFixture(t)
		defer f.close()

		initiator := &model.User{ID: 1, Name: "João Silva", Document: "12345678901"}
		origin := &model.Account{ID: 1, UserID: 1, Balance: money("0.00")}

		f.userRepo.On("GetUserByID", userID).Return(initiator, nil).Once()
		f.dbMock.ExpectBegin()
		f.accountRepo.On("GetForUpdate", mock.Anything, 1).Return(origin, nil).Once()
		f.secrets.On("VerifyTransactionSecret", userID, "4321").Return(true, nil).Once()
		f.accountRepo.On("AdjustBalance", mock.Anything, 1, money("50.00")).Return(money("50.00"), nil).Once()
		f.txnRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Transaction")).Return(nil).Once()
		f.dbMock.ExpectCommit()

		transaction, err := f.svc.Execute(ctx, userID, req)

		assert.NoError(t, err)
		assert.Equal(t, model.TransactionTypeDeposit, transaction.Type)
		assert.Nil(t, transaction.DestinationAccountID)
		assert.Nil(t, transaction.RecipientBank)
		assert.Equal(t, "Depósito em Conta", transaction.RecipientName)
		assert.Equal(t, "12345678901", transaction.RecipientDocument)
		assert.True(t, transaction.BalanceAfter.Equal(money("50.00")))
		f.assertExpectations(t)
	})

	t.Run("still requires the transaction password", func(t *testing.T) {
		f := newTransferFixture(t)
		defer f.close()

		initiator := &model.User{ID: 1, Document: "12345678901"}
		origin := &model.Account{ID: 1, UserID: 1, Balance: money("0.00")}

		f.userRepo.On("GetUserByID", userID).Return(initiator, nil).Once()
		f.dbMock.ExpectBegin()
		f.accountRepo.On("GetForUpdate", mock.Anything, 1).Return(origin, nil).Once()
		f.secrets.On("VerifyTransactionSecret", userID, "4321").Return(false, nil).Once()
		f.dbMock.ExpectRollback()

		_, err := f.svc.Execute(ctx, userID, req)

		assert.Equal(t, ErrTransactionPasswordInvalid, err)
		f.assertExpectations(t)
	})
}

func TestTransferService_Execute_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("zero amount", func(t *testing.T) {
		f := newTransferFixture(t)
		defer f.close()

		_, err := f.svc.Execute(ctx, 1, model.CreateTransactionRequest{
			OriginAccountID: 1,
			Type:            model.TransactionTypePix,
			Amount:          money("0.00"),
		})
		assert.Equal(t, ErrInvalidAmount, err)
	})

	t.Run("negative amount", func(t *testing.T) {
		f := newTransferFixture(t)
		defer f.close()

		_, err := f.svc.Execute(ctx, 1, model.CreateTransactionRequest{
			OriginAccountID: 1,
			Type:            model.TransactionTypeTed,
			Amount:          money("-5.00"),
		})
		assert.Equal(t, ErrInvalidAmount, err)
	})

	t.Run("unknown type", func(t *testing.T) {
		f := newTransferFixture(t)
		defer f.close()

		_, err := f.svc.Execute(ctx, 1, model.CreateTransactionRequest{
			OriginAccountID: 1,
			Type:            "DOC",
			Amount:          money("10.00"),
		})
		assert.Equal(t, ErrInvalidType, err)
	})

	t.Run("pix without a key", func(t *testing.T) {
		f := newTransferFixture(t)
		defer f.close()

		_, err := f.svc.Execute(ctx, 1, model.CreateTransactionRequest{
			OriginAccountID: 1,
			Type:            model.TransactionTypePix,
			Amount:          money("10.00"),
		})
		assert.Equal(t, ErrPixKeyNotFound, err)
	})
}
