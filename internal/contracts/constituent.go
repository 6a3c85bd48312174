package contracts

// Variant identifies the strict or extended index track
type Variant string

const (
	VariantStrict   Variant = "strict"
	VariantExtended Variant = "extended"
)

// Variants lists both tracks in output order
var Variants = []Variant{VariantStrict, VariantExtended}

// ForcedKeyword marks constituents admitted by force_include
const ForcedKeyword = "forced"

// Constituent is one member of a constituent set
// ⭐ SSOT: S2 → S3 지수 구성 종목
type Constituent struct {
	Code    string `json:"ts_code"`
	Name    string `json:"name"`
	Keyword string `json:"keyword"`
	Forced  bool   `json:"forced"`
}

// ConstituentSet holds both tracks for one snapshot date
type ConstituentSet struct {
	Date     string        `json:"date"`
	Strict   []Constituent `json:"strict"`
	Extended []Constituent `json:"extended"`
}

// Get returns the constituents of a variant
func (s *ConstituentSet) Get(v Variant) []Constituent {
	if v == VariantExtended {
		return s.Extended
	}
	return s.Strict
}

// Holding is one constituent joined with its prices.
// Return/Close/PreClose are NaN when unpriced; Weight is zero then.
type Holding struct {
	Code     string  `json:"ts_code"`
	Name     string  `json:"name"`
	Keyword  string  `json:"keyword"`
	Forced   bool    `json:"forced"`
	Weight   float64 `json:"weight"`
	Return   float64 `json:"ret"`
	Close    float64 `json:"close"`
	PreClose float64 `json:"pre_close"`
	Priced   bool    `json:"-"`
}

// IndexStats summarizes pricing coverage of one constituent set
type IndexStats struct {
	Total   int `json:"total_constituents"`
	Priced  int `json:"priced_constituents"`
	Missing int `json:"missing_prices"`
}

// CoverageRate returns priced/total, 0 when empty
func (s IndexStats) CoverageRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Priced) / float64(s.Total)
}

// VariantRow is a constituent or holding tagged with its variant, as written to snapshots
type VariantRow struct {
	Code    string  `json:"ts_code"`
	Name    string  `json:"name"`
	Keyword string  `json:"keyword"`
	Forced  bool    `json:"forced"`
	Variant Variant `json:"variant"`
}
