package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/payments-engine/internal/domain/account"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	repo   account.Repository
	logger *slog.Logger
}

func NewAccountService(logger *slog.Logger, repo account.Repository) AccountService {
	return &AccountServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *AccountServiceImpl) GetAccount(ctx context.Context, client uint16) (*account.StoredSnapshot, error) {
	snapshot, err := s.repo.GetByClient(ctx, client)
	if err != nil {
		var notFound account.ErrSnapshotNotFound
		if errors.As(err, &notFound) {
			s.logger.Info("Account snapshot not found", "client", client)
			return nil, nil
		}
		s.logger.Error("Failed to get account snapshot", "client", client, "error", err)
		return nil, err
	}
	return snapshot, nil
}

func (s *AccountServiceImpl) ListAccounts(ctx context.Context, page, perPage int) ([]*account.StoredSnapshot, error) {
	offset := (page - 1) * perPage
	return s.repo.List(ctx, perPage, offset)
}
