package s3_returns

import "github.com/runchengxie/a-share-animal-index/internal/contracts"

// AdjustedReturn computes close/preClose * (adj/prevAdj) - 1 for a single instrument.
// Unlike the bulk engine it refuses bad inputs instead of skipping them.
func AdjustedReturn(close, preClose, adj, prevAdj float64) (float64, error) {
	if !(preClose > 0) {
		return 0, contracts.ValidationError{Field: "pre_close", Value: preClose}
	}
	if !(adj > 0) {
		return 0, contracts.ValidationError{Field: "adj_factor", Value: adj}
	}
	if !(prevAdj > 0) {
		return 0, contracts.ValidationError{Field: "prev_adj_factor", Value: prevAdj}
	}
	return close/preClose*(adj/prevAdj) - 1, nil
}
