package mbo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nikolaydubina/fpdecimal"
)

// Input records carry 16 comma-separated fields; the order id appears twice
// and the trailing copy is authoritative.
const numInputFields = 16

// ParseEvent decodes one input record. Any field that fails to parse, or an
// action/side token that is not exactly one character, makes the whole line
// undecodable; the caller skips such lines without touching the book.
func ParseEvent(line string) (Event, error) {
	var e Event

	fields := strings.Split(line, ",")
	if len(fields) < numInputFields {
		return e, fmt.Errorf("expected %d fields, got %d", numInputFields, len(fields))
	}

	e.TsRecv = fields[0]
	e.TsEvent = fields[1]

	rtype, err := strconv.ParseUint(fields[2], 10, 8)
	if err != nil {
		return e, fmt.Errorf("rtype: %w", err)
	}
	e.RType = uint8(rtype)

	publisher, err := strconv.ParseUint(fields[3], 10, 16)
	if err != nil {
		return e, fmt.Errorf("publisher_id: %w", err)
	}
	e.PublisherID = uint16(publisher)

	instrument, err := strconv.ParseUint(fields[4], 10, 32)
	if err != nil {
		return e, fmt.Errorf("instrument_id: %w", err)
	}
	e.InstrumentID = uint32(instrument)

	if len(fields[5]) != 1 {
		return e, fmt.Errorf("action %q: want a single character", fields[5])
	}
	e.Action = Action(fields[5][0])

	if len(fields[6]) != 1 {
		return e, fmt.Errorf("side %q: want a single character", fields[6])
	}
	e.Side = Side(fields[6][0])

	depth, err := strconv.Atoi(fields[7])
	if err != nil {
		return e, fmt.Errorf("depth: %w", err)
	}
	e.Depth = depth

	if fields[8] == "" {
		e.Price = PriceUndef
	} else {
		e.Price, err = fpdecimal.FromString(fields[8])
		if err != nil {
			return e, fmt.Errorf("price: %w", err)
		}
	}

	size, err := strconv.ParseUint(fields[9], 10, 32)
	if err != nil {
		return e, fmt.Errorf("size: %w", err)
	}
	e.Size = uint32(size)

	if _, err := strconv.ParseUint(fields[10], 10, 64); err != nil {
		return e, fmt.Errorf("order_id: %w", err)
	}

	flags, err := strconv.ParseUint(fields[11], 10, 8)
	if err != nil {
		return e, fmt.Errorf("flags: %w", err)
	}
	e.Flags = uint8(flags)

	tsInDelta, err := strconv.ParseInt(fields[12], 10, 32)
	if err != nil {
		return e, fmt.Errorf("ts_in_delta: %w", err)
	}
	e.TsInDelta = int32(tsInDelta)

	sequence, err := strconv.ParseUint(fields[13], 10, 32)
	if err != nil {
		return e, fmt.Errorf("sequence: %w", err)
	}
	e.Sequence = uint32(sequence)

	e.Symbol = fields[14]

	orderID, err := strconv.ParseUint(fields[15], 10, 64)
	if err != nil {
		return e, fmt.Errorf("trailing order_id: %w", err)
	}
	e.OrderID = orderID

	return e, nil
}

// FormatPrice renders a price as its decimal value, or the empty string for
// the undefined sentinel.
func FormatPrice(p fpdecimal.Decimal) string {
	if p.Equal(PriceUndef) {
		return ""
	}
	return p.String()
}

// AppendUpdate encodes one output record: the triggering event's fields with
// the record type replaced by the literal snapshot depth 10, the bid rows,
// the ask rows, then the symbol and order id. The record carries no trailing
// newline.
func AppendUpdate(dst []byte, e *Event, bids, asks []PriceLevel) []byte {
	dst = append(dst, e.TsRecv...)
	dst = append(dst, ',')
	dst = append(dst, e.TsEvent...)
	dst = append(dst, ",10,"...)
	dst = strconv.AppendUint(dst, uint64(e.PublisherID), 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, uint64(e.InstrumentID), 10)
	dst = append(dst, ',')
	dst = append(dst, byte(e.Action), ',', byte(e.Side), ',')
	dst = strconv.AppendInt(dst, int64(e.Depth), 10)
	dst = append(dst, ',')
	dst = appendPrice(dst, e.Price)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, uint64(e.Size), 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, uint64(e.Flags), 10)
	dst = append(dst, ',')
	dst = strconv.AppendInt(dst, int64(e.TsInDelta), 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, uint64(e.Sequence), 10)

	for _, lvl := range bids {
		dst = appendLevel(dst, lvl)
	}
	for _, lvl := range asks {
		dst = appendLevel(dst, lvl)
	}

	dst = append(dst, ',')
	dst = append(dst, e.Symbol...)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, e.OrderID, 10)
	return dst
}

func appendLevel(dst []byte, lvl PriceLevel) []byte {
	dst = append(dst, ',')
	dst = appendPrice(dst, lvl.Price)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, lvl.Size, 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, uint64(lvl.Count), 10)
	return dst
}

func appendPrice(dst []byte, p fpdecimal.Decimal) []byte {
	if p.Equal(PriceUndef) {
		return dst
	}
	return append(dst, p.String()...)
}
