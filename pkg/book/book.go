// Package book reconstructs a price-level view of a limit order book from a
// market-by-order event stream. The Book owns every resting order through its
// registry; ladders reference orders by id only, so moving or deleting an
// order can never leave a dangling reference behind.
package book

import (
	"github.com/nikolaydubina/fpdecimal"

	"github.com/Parthyadav05/blockhouse/pkg/mbo"
)

// Order is a resting order tracked across events. It keeps every event field
// needed to re-emit it. The registry is its sole owner.
type Order struct {
	ID       uint64
	Side     mbo.Side
	Price    fpdecimal.Decimal
	Size     uint32
	Flags    uint8
	TsRecv   string
	TsEvent  string
	Sequence uint32
}

func newOrder(e *mbo.Event) *Order {
	return &Order{
		ID:       e.OrderID,
		Side:     e.Side,
		Price:    e.Price,
		Size:     e.Size,
		Flags:    e.Flags,
		TsRecv:   e.TsRecv,
		TsEvent:  e.TsEvent,
		Sequence: e.Sequence,
	}
}

// update refreshes the order from a modify event. The side never changes;
// a resting order stays on the side it was booked on.
func (o *Order) update(e *mbo.Event) {
	o.Price = e.Price
	o.Size = e.Size
	o.Flags = e.Flags
	o.TsRecv = e.TsRecv
	o.TsEvent = e.TsEvent
	o.Sequence = e.Sequence
}

// Book is the order book engine. Construct one per input stream; it is not
// safe for concurrent use.
type Book struct {
	orders map[uint64]*Order
	bids   *ladder
	asks   *ladder
}

// New creates an empty book.
func New() *Book {
	return &Book{
		orders: make(map[uint64]*Order),
		bids:   newLadder(mbo.Bid),
		asks:   newLadder(mbo.Ask),
	}
}

// Apply advances the book by one event. It is total over well-formed events:
// trade, fill and unrecognized actions pass through with no state change.
func (b *Book) Apply(e *mbo.Event) {
	switch e.Action {
	case mbo.ActionClear:
		b.clear()
	case mbo.ActionAdd:
		b.add(e)
	case mbo.ActionCancel:
		b.cancel(e)
	case mbo.ActionModify:
		b.modify(e)
	}
}

// Snapshot returns the top depth levels per side, padded with undefined-price
// rows so both slices always have exactly depth entries. Pure read.
func (b *Book) Snapshot(depth int) (bids, asks []mbo.PriceLevel) {
	return b.bids.snapshot(b.orders, depth), b.asks.snapshot(b.orders, depth)
}

func (b *Book) side(s mbo.Side) *ladder {
	if s == mbo.Bid {
		return b.bids
	}
	return b.asks
}

func (b *Book) clear() {
	b.orders = make(map[uint64]*Order)
	b.bids.clear()
	b.asks.clear()
}

func (b *Book) add(e *mbo.Event) {
	if e.IsTOB() {
		// Venue-level top-of-book replacement: the whole side collapses to
		// one synthetic level that owns its displayed price. Orders the
		// discarded levels pointed to stay in the registry.
		b.side(e.Side).replaceAll(e.Price)
		return
	}
	if prev, ok := b.orders[e.OrderID]; ok {
		// Last write wins on id reuse; detach the stale ladder entry first.
		b.removeFromLevel(prev)
	}
	b.addResting(e)
}

// addResting books a new order: registry insert plus a ladder entry at its
// price, creating the level when absent.
func (b *Book) addResting(e *mbo.Event) {
	o := newOrder(e)
	b.orders[o.ID] = o
	b.side(o.Side).getOrCreate(o.Price).orders[o.ID] = struct{}{}
}

func (b *Book) cancel(e *mbo.Event) {
	o, ok := b.orders[e.OrderID]
	if !ok {
		return
	}
	if o.Size > e.Size {
		o.Size -= e.Size
	} else {
		o.Size = 0
	}
	b.removeFromLevel(o)
	if o.Size == 0 {
		delete(b.orders, o.ID)
		return
	}
	b.side(o.Side).getOrCreate(o.Price).orders[o.ID] = struct{}{}
}

func (b *Book) modify(e *mbo.Event) {
	o, ok := b.orders[e.OrderID]
	if !ok {
		// Modify of an unknown id books a fresh resting order; the
		// top-of-book flag is not honored on this path.
		b.addResting(e)
		return
	}
	ld := b.side(o.Side)
	switch {
	case !o.Price.Equal(e.Price):
		b.removeFromLevel(o)
		o.update(e)
		ld.getOrCreate(o.Price).orders[o.ID] = struct{}{}
	case e.Size > o.Size:
		// Size increase forfeits queue position: leave and rejoin the level.
		b.removeFromLevel(o)
		o.update(e)
		ld.getOrCreate(o.Price).orders[o.ID] = struct{}{}
	default:
		o.update(e)
	}
}

// removeFromLevel detaches an order's ladder entry, dropping the level when
// it is left empty. Synthetic levels are never dropped here; they have no
// members to begin with.
func (b *Book) removeFromLevel(o *Order) {
	ld := b.side(o.Side)
	lvl := ld.get(o.Price)
	if lvl == nil {
		return
	}
	delete(lvl.orders, o.ID)
	if len(lvl.orders) == 0 && !lvl.synthetic {
		ld.remove(lvl)
	}
}
