package contracts

// Exchange codes as reported by the listing snapshot
const (
	ExchangeSSE  = "SSE"  // Shanghai
	ExchangeSZSE = "SZSE" // Shenzhen
	ExchangeBSE  = "BSE"  // Beijing
)

// Security is one row of the security listing snapshot
// ⭐ SSOT: S0 → S1 종목 기본 정보
type Security struct {
	Code       string `json:"ts_code"` // NNNNNN.EXCH
	Name       string `json:"name"`
	Exchange   string `json:"exchange"`
	Market     string `json:"market"`
	ListDate   string `json:"list_date,omitempty"`   // YYYYMMDD, empty = unbounded past
	DelistDate string `json:"delist_date,omitempty"` // YYYYMMDD, empty = never delisted
}

// ListedOn reports whether the listing window [ListDate, DelistDate] covers date.
// Missing bounds are treated as open-ended.
func (s Security) ListedOn(date string) bool {
	if s.ListDate != "" && s.ListDate > date {
		return false
	}
	if s.DelistDate != "" && s.DelistDate < date {
		return false
	}
	return true
}

// NameChange is a historical name valid over [StartDate, EndDate] inclusive
type NameChange struct {
	Code      string `json:"ts_code"`
	Name      string `json:"name"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"` // empty = still in effect
}

// ActiveOn reports whether the record's interval contains date
func (n NameChange) ActiveOn(date string) bool {
	if n.StartDate != "" && n.StartDate > date {
		return false
	}
	if n.EndDate != "" && n.EndDate < date {
		return false
	}
	return true
}

// Universe is the eligible security set handed from S1 to S2
// ⭐ SSOT: S1 → S2 분류 대상 종목 전달
type Universe struct {
	AsOf       string            `json:"as_of,omitempty"` // empty in current mode
	Securities []Security        `json:"securities"`
	Excluded   map[string]string `json:"excluded"` // code: reason
}

// Count returns the number of eligible securities
func (u *Universe) Count() int {
	return len(u.Securities)
}

// IsExcluded checks if a code was filtered out and returns the reason
func (u *Universe) IsExcluded(code string) (bool, string) {
	reason, exists := u.Excluded[code]
	return exists, reason
}
