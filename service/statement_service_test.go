package service

import (
	"context"
	"database/sql"
	"pix-bank-api/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestStatementService_ListStatement(t *testing.T) {
	ctx := context.Background()

	t.Run("returns history for an owned account", func(t *testing.T) {
		mockAccountRepo := new(MockAccountRepository)
		mockTxnRepo := new(MockTransactionRepository)
		svc := NewStatementService(mockAccountRepo, mockTxnRepo)

		filter := model.StatementFilter{Period: "7d"}
		history := []*model.Transaction{
			{ID: 2, OriginAccountID: 1, Type: model.TransactionTypePix},
			{ID: 1, OriginAccountID: 1, Type: model.TransactionTypeDeposit},
		}

		mockAccountRepo.On("GetByIDForOwner", 1, 1).Return(&model.Account{ID: 1, UserID: 1}, nil).Once()
		mockTxnRepo.On("ListByAccount", 1, filter).Return(history, nil).Once()

		result, err := svc.ListStatement(ctx, 1, 1, filter)

		assert.NoError(t, err)
		assert.Len(t, result, 2)
		mockTxnRepo.AssertExpectations(t)
	})

	t.Run("foreign account reported as missing", func(t *testing.T) {
		mockAccountRepo := new(MockAccountRepository)
		mockTxnRepo := new(MockTransactionRepository)
		svc := NewStatementService(mockAccountRepo, mockTxnRepo)

		mockAccountRepo.On("GetByIDForOwner", 2, 1).Return(nil, sql.ErrNoRows).Once()

		_, err := svc.ListStatement(ctx, 1, 2, model.StatementFilter{})

		assert.Equal(t, ErrAccountNotFound, err)
		mockTxnRepo.AssertNotCalled(t, "ListByAccount", mock.Anything, mock.Anything)
	})
}
