package search_availability

import (
	"sort"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	searchAvailability "github.com/m04kA/SMC-AccommodationService/internal/usecase/search_availability"
)

// SearchRequest HTTP request model
type SearchRequest struct {
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	BedspaceIDs []int64 `json:"bedspaceIds"`

	RequiredCharacteristics []string `json:"requiredCharacteristics,omitempty"`
	ExcludedCharacteristics []string `json:"excludedCharacteristics,omitempty"`
}

// SearchResponse HTTP response model
type SearchResponse struct {
	StartDate        string                `json:"startDate"`
	EndDate          string                `json:"endDate"`
	Available        []int64               `json:"available"`
	Overlaps         []BedspaceOverlaps    `json:"overlaps"`
	Unavailable      []UnavailableBedspace `json:"unavailable"`
	RiskDataDegraded bool                  `json:"riskDataDegraded"`
}

// BedspaceOverlaps занятости одного койко-места
type BedspaceOverlaps struct {
	BedspaceID int64             `json:"bedspaceId"`
	Occupants  []OccupantResponse `json:"occupants"`
}

// OccupantResponse бронирование или период простоя, пересекающий диапазон
type OccupantResponse struct {
	Kind           string `json:"kind"`
	ID             int64  `json:"id"`
	CRN            string `json:"crn,omitempty"`
	OverlapDays    int    `json:"overlapDays"`
	ElevatedRisk   bool   `json:"elevatedRisk"`
	TurnaroundOnly bool   `json:"turnaroundOnly"`
}

// UnavailableBedspace койко-место, исключенное без пересечений
type UnavailableBedspace struct {
	BedspaceID int64  `json:"bedspaceId"`
	Reason     string `json:"reason"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SearchRequest) ToUseCaseRequest() (*searchAvailability.Request, error) {
	start, err := domain.ParseDate(r.StartDate)
	if err != nil {
		return nil, err
	}

	end, err := domain.ParseDate(r.EndDate)
	if err != nil {
		return nil, err
	}

	return &searchAvailability.Request{
		StartDate:               start,
		EndDate:                 end,
		BedspaceIDs:             r.BedspaceIDs,
		RequiredCharacteristics: r.RequiredCharacteristics,
		ExcludedCharacteristics: r.ExcludedCharacteristics,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
// Пересечения сортируются по ID койко-места, чтобы ответ был детерминированным
func FromUseCaseResponse(resp *searchAvailability.Response) *SearchResponse {
	result := &SearchResponse{
		StartDate:        resp.StartDate.Format(domain.DateFormat),
		EndDate:          resp.EndDate.Format(domain.DateFormat),
		Available:        resp.Available,
		Overlaps:         make([]BedspaceOverlaps, 0, len(resp.Overlaps)),
		Unavailable:      make([]UnavailableBedspace, 0, len(resp.Unavailable)),
		RiskDataDegraded: resp.RiskDataDegraded,
	}
	if result.Available == nil {
		result.Available = []int64{}
	}

	for bedspaceID, occupants := range resp.Overlaps {
		entry := BedspaceOverlaps{
			BedspaceID: bedspaceID,
			Occupants:  make([]OccupantResponse, 0, len(occupants)),
		}
		for _, o := range occupants {
			entry.Occupants = append(entry.Occupants, OccupantResponse{
				Kind:           o.Kind,
				ID:             o.ID,
				CRN:            o.CRN,
				OverlapDays:    o.OverlapDays,
				ElevatedRisk:   o.ElevatedRisk,
				TurnaroundOnly: o.TurnaroundOnly,
			})
		}
		result.Overlaps = append(result.Overlaps, entry)
	}
	sort.Slice(result.Overlaps, func(i, j int) bool {
		return result.Overlaps[i].BedspaceID < result.Overlaps[j].BedspaceID
	})

	for _, u := range resp.Unavailable {
		result.Unavailable = append(result.Unavailable, UnavailableBedspace{BedspaceID: u.BedspaceID, Reason: u.Reason})
	}

	return result
}
