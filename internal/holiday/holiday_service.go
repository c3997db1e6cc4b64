package holiday

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	holidayerrors "leavehub/internal/holiday/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	dateLayout      = "2006-01-02"
	cacheKeyPrefix  = "holidays:company:"
	cacheTTL        = time.Hour
	uniqueViolation = "23505"
)

func GetCacheKey(companyID string) string {
	return cacheKeyPrefix + companyID
}

type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateHolidayRequest) (HolidayResponse, error)
	GetAll(ctx context.Context, companyID string) ([]HolidayResponse, error)
	Delete(ctx context.Context, companyID, id string) error

	// ListDates returns the set of designated non-working dates inside
	// [from, to], keyed by YYYY-MM-DD. Recurring holidays are expanded
	// into every year the range touches.
	ListDates(ctx context.Context, companyID string, from, to time.Time) (map[string]struct{}, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("holiday.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateHolidayRequest) (HolidayResponse, error) {
	s.logger.Debug("create holiday requested",
		zap.String("company_id", companyID),
		zap.String("date", req.Date),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return HolidayResponse{}, holidayerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return HolidayResponse{}, holidayerrors.ErrInvalidActorID
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return HolidayResponse{}, holidayerrors.ErrInvalidDateFormat
	}

	h := &Holiday{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		Name:      req.Name,
		Date:      date,
		Recurring: req.Recurring,
		CreatedBy: actorUUID,
	}

	if err := s.repo.Create(ctx, h); err != nil {
		if isUniqueViolation(err) {
			s.logger.Warn("create holiday duplicate date",
				zap.String("company_id", companyID),
				zap.String("date", req.Date),
			)
			return HolidayResponse{}, holidayerrors.ErrHolidayDateTaken
		}
		s.logger.Error("create holiday persist failed", zap.Error(err))
		return HolidayResponse{}, err
	}

	s.invalidateCache(ctx, companyID)
	s.logger.Info("create holiday success",
		zap.String("holiday_id", h.ID.String()),
		zap.String("company_id", companyID),
	)

	return mapToResponse(*h), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]HolidayResponse, error) {
	holidays, err := s.findAllCached(ctx, companyID)
	if err != nil {
		return nil, err
	}

	resp := make([]HolidayResponse, len(holidays))
	for i, h := range holidays {
		resp[i] = mapToResponse(h)
	}
	return resp, nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := s.repo.FindByIDAndCompany(ctx, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return holidayerrors.ErrHolidayNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		s.logger.Error("delete holiday failed",
			zap.String("holiday_id", id),
			zap.Error(err),
		)
		return err
	}

	s.invalidateCache(ctx, companyID)
	s.logger.Info("delete holiday success",
		zap.String("holiday_id", id),
		zap.String("company_id", companyID),
	)
	return nil
}

func (s *service) ListDates(ctx context.Context, companyID string, from, to time.Time) (map[string]struct{}, error) {
	holidays, err := s.findAllCached(ctx, companyID)
	if err != nil {
		return nil, err
	}

	dates := make(map[string]struct{})
	for _, h := range holidays {
		if !h.Recurring {
			if !h.Date.Before(from) && !h.Date.After(to) {
				dates[h.Date.Format(dateLayout)] = struct{}{}
			}
			continue
		}

		for year := from.Year(); year <= to.Year(); year++ {
			occurrence := time.Date(year, h.Date.Month(), h.Date.Day(), 0, 0, 0, 0, time.UTC)
			if !occurrence.Before(from) && !occurrence.After(to) {
				dates[occurrence.Format(dateLayout)] = struct{}{}
			}
		}
	}

	return dates, nil
}

// findAllCached serves the per-company holiday list from redis where
// possible; the singleflight guard stops concurrent submissions from
// hammering the database after an invalidation.
func (s *service) findAllCached(ctx context.Context, companyID string) ([]Holiday, error) {
	cacheKey := GetCacheKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var holidays []Holiday
			if json.Unmarshal([]byte(cached), &holidays) == nil {
				return holidays, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		holidays, err := s.repo.FindAllByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(holidays); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, jsonData, cacheTTL).Err(); err != nil {
					s.logger.Warn("cache holidays failed",
						zap.String("key", cacheKey),
						zap.Error(err),
					)
				}
			}
		}

		return holidays, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]Holiday), nil
}

func (s *service) invalidateCache(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetCacheKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate holiday cache",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func mapToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:        h.ID.String(),
		CompanyID: h.CompanyID.String(),
		Name:      h.Name,
		Date:      h.Date.Format(dateLayout),
		Recurring: h.Recurring,
	}
}
