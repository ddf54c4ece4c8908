package application

import (
	"context"
	"fmt"

	"github.com/greenbay-io/greenbay/internal/shared/logger"
	"github.com/greenbay-io/greenbay/internal/user/domain"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// BalanceService exposes the account balance views and the
// administrative override. Neither is part of the auction invariant
// chain; debits happen only inside the place-bid transaction.
type BalanceService interface {
	GetBalance(ctx context.Context, username string) (float64, error)
	SetBalance(ctx context.Context, username string, balance float64) error
}

type balanceService struct {
	userRepo domain.UserRepository
}

func NewBalanceService(userRepo domain.UserRepository) BalanceService {
	return &balanceService{userRepo: userRepo}
}

func (s *balanceService) GetBalance(ctx context.Context, username string) (float64, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("get balance for %s: %w", username, err)
	}
	return user.Balance, nil
}

func (s *balanceService) SetBalance(ctx context.Context, username string, balance float64) error {
	if balance < 0 {
		return domain.ErrNegativeBalance
	}
	if err := s.userRepo.UpdateBalance(ctx, username, balance); err != nil {
		return fmt.Errorf("set balance for %s: %w", username, err)
	}
	log.Info("BalanceService: balance updated",
		zap.String("username", username),
		zap.Float64("balance", balance),
	)
	return nil
}
