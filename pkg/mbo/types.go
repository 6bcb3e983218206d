package mbo

import (
	"math"

	"github.com/nikolaydubina/fpdecimal"
)

// Prices are fixed-point with nine fractional digits (1e-9 ticks).
func init() {
	fpdecimal.FractionDigits = 9
}

// PriceUndef is the reserved sentinel for an absent price. It encodes as an
// empty field, never as zero.
var PriceUndef = fpdecimal.FromIntScaled(int64(math.MaxInt64))

// Action identifies the book mutation a feed event requests.
type Action byte

// Feed actions
const (
	ActionAdd    Action = 'A'
	ActionModify Action = 'M'
	ActionCancel Action = 'C'
	ActionClear  Action = 'R'
	ActionTrade  Action = 'T'
	ActionFill   Action = 'F'
	ActionNone   Action = 'N'
)

// Side identifies which half of the book an event targets.
type Side byte

// Book sides
const (
	Bid      Side = 'B'
	Ask      Side = 'A'
	SideNone Side = 'N'
)

// FlagTOB marks a venue-level top-of-book replacement rather than an
// individual resting order. All other flag bits pass through untouched.
const FlagTOB uint8 = 1 << 6

// Event is one decoded market-by-order record. Immutable once decoded;
// timestamps are opaque strings echoed verbatim on output.
type Event struct {
	TsRecv       string
	TsEvent      string
	RType        uint8
	PublisherID  uint16
	InstrumentID uint32
	Action       Action
	Side         Side
	Depth        int
	Price        fpdecimal.Decimal
	Size         uint32
	Flags        uint8
	TsInDelta    int32
	Sequence     uint32
	Symbol       string
	OrderID      uint64
}

// IsTOB reports whether the event carries the top-of-book replacement flag.
func (e *Event) IsTOB() bool {
	return e.Flags&FlagTOB != 0
}

// PriceLevel is one aggregated snapshot row: the price plus total size and
// order count of the resting orders at that price.
type PriceLevel struct {
	Price fpdecimal.Decimal
	Size  uint64
	Count uint32
}
