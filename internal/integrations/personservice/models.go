package personservice

// RiskSearchRequest запрос признаков риска по списку CRN
type RiskSearchRequest struct {
	CRNs []string `json:"crns"`
}

// PersonRisk сводка по человеку из PersonService
type PersonRisk struct {
	CRN          string `json:"crn"`
	Name         string `json:"name"`
	ElevatedRisk bool   `json:"elevated_risk"`
}

// RiskSearchResponse ответ PersonService; неизвестные CRN в ответе отсутствуют
type RiskSearchResponse struct {
	People []PersonRisk `json:"people"`
}

// RiskFlags признаки повышенного риска по CRN
type RiskFlags map[string]bool

// IsElevatedRisk неизвестный CRN не считается повышенным риском
func (f RiskFlags) IsElevatedRisk(crn string) bool {
	return f[crn]
}
