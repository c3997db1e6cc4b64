package balance

import (
	"context"
	"errors"
	"time"

	balanceerrors "leavehub/internal/balance/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type BalanceResponse struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	Remaining  string `json:"remaining"`
}

type Service interface {
	GetCurrent(ctx context.Context, companyID, employeeID string) (BalanceResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetCurrent(ctx context.Context, companyID, employeeID string) (BalanceResponse, error) {
	year := time.Now().UTC().Year()

	b, err := s.repo.FindByEmployeeAndYear(ctx, companyID, employeeID, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, balanceerrors.ErrBalanceNotFound
		}
		s.logger.Error("get balance failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return BalanceResponse{}, err
	}

	return BalanceResponse{
		EmployeeID: b.EmployeeID.String(),
		Year:       b.Year,
		Remaining:  b.Remaining.String(),
	}, nil
}
