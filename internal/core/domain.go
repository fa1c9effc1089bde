package core

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	KindPosition RecordKind = "position"
	KindDividend RecordKind = "dividend"
	KindExpense  RecordKind = "expense"
)

// TotalRowName is reserved for the aggregate row in derived views and must
// never be treated as a real asset.
const TotalRowName = "Total"

type (
	// RecordKind selects which fact family an operation addresses.
	RecordKind string

	// LineItem is one raw fact as produced by the record store: owner held
	// Amount of Asset in Month. Month is expected in canonical form but the
	// pivot engine re-normalizes defensively.
	LineItem struct {
		OwnerID string
		Month   string
		Asset   string
		Amount  decimal.Decimal
	}

	// MonthItem is the inbound mutation shape: one asset line of a month
	// being saved.
	MonthItem struct {
		Asset  string
		Amount decimal.Decimal
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyAsset    = errors.New("empty asset name")
	ErrEmptyMonth    = errors.New("empty month label")
	ErrEmptyOwner    = errors.New("empty owner id")
	ErrInvalidKind   = errors.New("invalid record kind")
	ErrReservedAsset = errors.New("reserved asset name")
)

func (k RecordKind) String() string {
	return string(k)
}

func (k RecordKind) IsValid() bool {
	switch k {
	case KindPosition, KindDividend, KindExpense:
		return true
	default:
		return false
	}
}

// ParseRecordKind maps a URL path token to a RecordKind.
func ParseRecordKind(s string) (RecordKind, error) {
	k := RecordKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
	return k, nil
}

// Validate rejects items that must not reach the store. Zero amounts are
// allowed: a month may legitimately record an asset at zero.
func (it MonthItem) Validate() error {
	if it.Asset == "" {
		return ErrEmptyAsset
	}
	if it.Asset == TotalRowName {
		return ErrReservedAsset
	}
	if it.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}
