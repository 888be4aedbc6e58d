package search_availability

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-AccommodationService/internal/availability"
	"github.com/m04kA/SMC-AccommodationService/internal/conflict"
	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/internal/integrations/personservice"
)

// UseCase use case для поиска свободных койко-мест
type UseCase struct {
	bookingRepo  BookingRepository
	bedspaceRepo BedspaceRepository
	voidRepo     VoidRepository
	personClient PersonServiceClient
	txManager    TransactionManager
	searcher     *availability.Searcher
	lookbackDays int
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	bedspaceRepo BedspaceRepository,
	voidRepo VoidRepository,
	personClient PersonServiceClient,
	txManager TransactionManager,
	ends EndDater,
	lookbackDays int,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		bedspaceRepo: bedspaceRepo,
		voidRepo:     voidRepo,
		personClient: personClient,
		txManager:    txManager,
		searcher:     availability.NewSearcher(conflict.NewDetector(), ends),
		lookbackDays: lookbackDays,
		logger:       logger,
	}
}

// Execute выполняет use case поиска
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SearchAvailability: start=%s, end=%s, candidates=%d",
		req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat), len(req.BedspaceIDs))

	// 1. Валидация входных данных
	rng, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("SearchAvailability: validation failed: %v", err)
		return nil, err
	}

	if len(req.BedspaceIDs) == 0 {
		return uc.toResponse(rng, &availability.Result{}, false), nil
	}

	// 2. Читаем согласованный снимок койко-мест и занятости
	query := availability.Query{
		Range:        rng,
		CandidateIDs: req.BedspaceIDs,
		Filter: availability.Filter{
			Required: req.RequiredCharacteristics,
			Excluded: req.ExcludedCharacteristics,
		},
	}

	err = uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		bedspaces, err := uc.bedspaceRepo.ListByIDs(txCtx, req.BedspaceIDs)
		if err != nil {
			return fmt.Errorf("failed to list bedspaces: %w", err)
		}
		query.Bedspaces = bedspaces

		ids := make([]int64, len(bedspaces))
		for i, b := range bedspaces {
			ids[i] = b.ID
		}

		query.Bookings, err = uc.bookingRepo.ListActiveByBedspaces(txCtx, ids, rng, uc.lookbackDays)
		if err != nil {
			return fmt.Errorf("failed to list bookings: %w", err)
		}

		query.Voids, err = uc.voidRepo.ListActiveByBedspaces(txCtx, ids, rng)
		if err != nil {
			return fmt.Errorf("failed to list voids: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("SearchAvailability: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 3. Получаем флаги риска жильцов; при недоступности сервиса риск не повышен
	degraded := false
	var risk availability.RiskLookup = availability.RiskFlags{}
	if crns := uc.searcher.OccupantCRNs(query); len(crns) > 0 {
		flags, err := uc.personClient.GetRiskFlagsWithGracefulDegradation(ctx, crns)
		if err != nil {
			if !errors.Is(err, personservice.ErrServiceDegraded) {
				uc.logger.Error("SearchAvailability: failed to get risk flags: %v", err)
			} else {
				uc.logger.Warn("SearchAvailability: risk flags unavailable, treating %d occupants as not elevated: %v", len(crns), err)
			}
			degraded = true
		}
		if flags != nil {
			risk = flags
		}
	}

	// 4. Поиск
	result := uc.searcher.Search(query, risk)

	uc.logger.Info("SearchAvailability: %d available, %d occupied, %d unavailable",
		len(result.Available), len(result.Overlaps), len(result.Unavailable))

	return uc.toResponse(rng, result, degraded), nil
}

func (uc *UseCase) toResponse(rng domain.DateRange, res *availability.Result, degraded bool) *Response {
	resp := &Response{
		StartDate:        rng.Start,
		EndDate:          rng.End,
		Available:        res.Available,
		Overlaps:         make(map[int64][]Occupant, len(res.Overlaps)),
		Unavailable:      make([]Unavailable, 0, len(res.Unavailable)),
		RiskDataDegraded: degraded,
	}
	if resp.Available == nil {
		resp.Available = []int64{}
	}

	for id, overlaps := range res.Overlaps {
		occupants := make([]Occupant, len(overlaps))
		for i, o := range overlaps {
			occupants[i] = Occupant{
				Kind:           string(o.Ref.Kind),
				ID:             o.Ref.ID,
				CRN:            o.CRN,
				OverlapDays:    o.Days,
				ElevatedRisk:   o.ElevatedRisk,
				TurnaroundOnly: o.TurnaroundOnly,
			}
		}
		resp.Overlaps[id] = occupants
	}

	for id, reason := range res.Unavailable {
		resp.Unavailable = append(resp.Unavailable, Unavailable{BedspaceID: id, Reason: string(reason)})
	}
	sort.Slice(resp.Unavailable, func(i, j int) bool {
		return resp.Unavailable[i].BedspaceID < resp.Unavailable[j].BedspaceID
	})

	return resp
}
