package book

import (
	"github.com/nikolaydubina/fpdecimal"

	"github.com/Parthyadav05/blockhouse/pkg/mbo"
)

// level is one price level: the set of resting-order ids currently sharing
// one price on one side. Members are ids resolved through the book's
// registry on read, never raw order references. A synthetic level stands in
// for a venue top-of-book replacement; it owns its price and has no members.
type level struct {
	price     fpdecimal.Decimal
	orders    map[uint64]struct{}
	synthetic bool
	next      *level
	prev      *level
}

func newLevel(price fpdecimal.Decimal) *level {
	return &level{
		price:  price,
		orders: make(map[uint64]struct{}),
	}
}

// ladder is one side of the book: price levels kept as a sorted doubly-linked
// list (head is the best price) plus a map for O(1) lookup by price.
type ladder struct {
	descending bool
	head       *level
	tail       *level
	byPrice    map[fpdecimal.Decimal]*level
}

func newLadder(side mbo.Side) *ladder {
	return &ladder{
		descending: side == mbo.Bid,
		byPrice:    make(map[fpdecimal.Decimal]*level),
	}
}

// before reports whether price a ranks ahead of price b on this side.
func (l *ladder) before(a, b fpdecimal.Decimal) bool {
	if l.descending {
		return a.GreaterThan(b)
	}
	return a.LessThan(b)
}

func (l *ladder) get(price fpdecimal.Decimal) *level {
	return l.byPrice[price]
}

// getOrCreate returns the level at price, inserting a new one at its sorted
// position when absent.
func (l *ladder) getOrCreate(price fpdecimal.Decimal) *level {
	if lvl, ok := l.byPrice[price]; ok {
		return lvl
	}

	lvl := newLevel(price)
	l.byPrice[price] = lvl

	if l.head == nil {
		l.head = lvl
		l.tail = lvl
		return lvl
	}

	if l.before(price, l.head.price) {
		lvl.next = l.head
		l.head.prev = lvl
		l.head = lvl
		return lvl
	}
	if !l.before(price, l.tail.price) {
		lvl.prev = l.tail
		l.tail.next = lvl
		l.tail = lvl
		return lvl
	}

	current := l.head
	for current != nil && !l.before(price, current.price) {
		current = current.next
	}
	lvl.next = current
	lvl.prev = current.prev
	current.prev.next = lvl
	current.prev = lvl
	return lvl
}

// remove unlinks a level from the ladder.
func (l *ladder) remove(lvl *level) {
	delete(l.byPrice, lvl.price)

	if lvl.prev != nil {
		lvl.prev.next = lvl.next
	} else {
		l.head = lvl.next
	}
	if lvl.next != nil {
		lvl.next.prev = lvl.prev
	} else {
		l.tail = lvl.prev
	}
}

// clear drops every level on this side.
func (l *ladder) clear() {
	l.head = nil
	l.tail = nil
	l.byPrice = make(map[fpdecimal.Decimal]*level)
}

// replaceAll drops every level and installs a single synthetic level owning
// a private copy of the given price. The registry is left untouched.
func (l *ladder) replaceAll(price fpdecimal.Decimal) {
	l.clear()
	lvl := newLevel(price)
	lvl.synthetic = true
	l.byPrice[price] = lvl
	l.head = lvl
	l.tail = lvl
}

// snapshot walks the ladder best-first for up to depth levels, summing size
// and count per level through the registry. Synthetic levels report their
// price with zero size and count. Missing levels pad with the undefined
// price sentinel.
func (l *ladder) snapshot(orders map[uint64]*Order, depth int) []mbo.PriceLevel {
	rows := make([]mbo.PriceLevel, 0, depth)
	for lvl := l.head; lvl != nil && len(rows) < depth; lvl = lvl.next {
		row := mbo.PriceLevel{Price: lvl.price}
		for id := range lvl.orders {
			o := orders[id]
			if o == nil || o.Flags&mbo.FlagTOB != 0 {
				// Top-of-book replacement entries never contribute size or
				// count; they only display a price.
				continue
			}
			row.Size += uint64(o.Size)
			row.Count++
		}
		rows = append(rows, row)
	}
	for len(rows) < depth {
		rows = append(rows, mbo.PriceLevel{Price: mbo.PriceUndef})
	}
	return rows
}
