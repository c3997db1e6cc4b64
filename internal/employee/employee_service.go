package employee

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const approverOptionsKeyPrefix = "employees:approvers:"

func GetApproverOptionsKey(companyID string) string {
	return approverOptionsKeyPrefix + companyID
}

type ApproverOption struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type Service interface {
	GetByID(ctx context.Context, companyID, id string) (*Employee, error)
	GetActiveApprovers(ctx context.Context, companyID string) ([]ApproverOption, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (*Employee, error) {
	return s.repo.FindByIDAndCompany(ctx, companyID, id)
}

// GetActiveApprovers returns the manager/owner fan-out targets for a company.
// The list changes rarely, so it is cached in redis with a short TTL and a
// singleflight guard against cache stampedes during busy submission windows.
func (s *service) GetActiveApprovers(ctx context.Context, companyID string) ([]ApproverOption, error) {
	cacheKey := GetApproverOptionsKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []ApproverOption
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		approvers, err := s.repo.FindActiveApprovers(ctx, companyID)
		if err != nil {
			return nil, err
		}

		resp := make([]ApproverOption, len(approvers))
		for i, a := range approvers {
			resp[i] = ApproverOption{
				ID:       a.ID.String(),
				FullName: a.FullName,
				Email:    a.Email,
				Role:     a.Role,
			}
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, jsonData, 10*time.Minute).Err(); err != nil {
					s.logger.Warn("cache approver options failed",
						zap.String("key", cacheKey),
						zap.Error(err),
					)
				}
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]ApproverOption), nil
}
