package mbo

import (
	"fmt"
	"strings"
	"testing"

	"github.com/nikolaydubina/fpdecimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validLine = "1609160400000429831,1609160400000704060,160,1,5482,A,B,0,372.25,220,647784973705,128,165,851012,SPY,647784973705"

func TestParseEventValid(t *testing.T) {
	e, err := ParseEvent(validLine)
	require.NoError(t, err)

	assert.Equal(t, "1609160400000429831", e.TsRecv)
	assert.Equal(t, "1609160400000704060", e.TsEvent)
	assert.Equal(t, uint8(160), e.RType)
	assert.Equal(t, uint16(1), e.PublisherID)
	assert.Equal(t, uint32(5482), e.InstrumentID)
	assert.Equal(t, ActionAdd, e.Action)
	assert.Equal(t, Bid, e.Side)
	assert.Equal(t, 0, e.Depth)
	assert.True(t, e.Price.Equal(fpdecimal.FromFloat(372.25)))
	assert.Equal(t, uint32(220), e.Size)
	assert.Equal(t, uint8(128), e.Flags)
	assert.Equal(t, int32(165), e.TsInDelta)
	assert.Equal(t, uint32(851012), e.Sequence)
	assert.Equal(t, "SPY", e.Symbol)
	assert.Equal(t, uint64(647784973705), e.OrderID)
	assert.False(t, e.IsTOB())
}

func TestParseEventTrailingOrderIDWins(t *testing.T) {
	line := "t1,t2,160,1,5482,C,A,0,,5,111,0,-42,7,QQQ,222"
	e, err := ParseEvent(line)
	require.NoError(t, err)

	assert.Equal(t, uint64(222), e.OrderID)
	assert.Equal(t, int32(-42), e.TsInDelta)
	assert.True(t, e.Price.Equal(PriceUndef))
}

func TestParseEventTOBFlag(t *testing.T) {
	line := "t1,t2,160,1,5482,A,B,0,372.25,220,1,64,165,851012,SPY,1"
	e, err := ParseEvent(line)
	require.NoError(t, err)
	assert.True(t, e.IsTOB())
}

func TestParseEventMalformed(t *testing.T) {
	cases := map[string]string{
		"too few fields":     "a,b,c",
		"empty line":         "",
		"bad rtype":          "t1,t2,big,1,5482,A,B,0,372.25,220,1,128,165,851012,SPY,1",
		"oversized action":   "t1,t2,160,1,5482,AD,B,0,372.25,220,1,128,165,851012,SPY,1",
		"empty action":       "t1,t2,160,1,5482,,B,0,372.25,220,1,128,165,851012,SPY,1",
		"oversized side":     "t1,t2,160,1,5482,A,BS,0,372.25,220,1,128,165,851012,SPY,1",
		"bad price":          "t1,t2,160,1,5482,A,B,0,37x.25,220,1,128,165,851012,SPY,1",
		"bad size":           "t1,t2,160,1,5482,A,B,0,372.25,-220,1,128,165,851012,SPY,1",
		"bad flags":          "t1,t2,160,1,5482,A,B,0,372.25,220,1,1280,165,851012,SPY,1",
		"bad sequence":       "t1,t2,160,1,5482,A,B,0,372.25,220,1,128,165,seq,SPY,1",
		"bad mid order id":   "t1,t2,160,1,5482,A,B,0,372.25,220,id,128,165,851012,SPY,1",
		"bad trailing id":    "t1,t2,160,1,5482,A,B,0,372.25,220,1,128,165,851012,SPY,",
		"bad depth":          "t1,t2,160,1,5482,A,B,deep,372.25,220,1,128,165,851012,SPY,1",
		"bad publisher":      "t1,t2,160,65536,5482,A,B,0,372.25,220,1,128,165,851012,SPY,1",
		"bad ts_in_delta":    "t1,t2,160,1,5482,A,B,0,372.25,220,1,128,nan,851012,SPY,1",
		"bad instrument":     "t1,t2,160,1,-5482,A,B,0,372.25,220,1,128,165,851012,SPY,1",
	}

	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseEvent(line)
			assert.Error(t, err)
		})
	}
}

func TestPriceRoundTripExact(t *testing.T) {
	// Any price expressible at 1e-9 resolution survives decode and re-encode
	// with no precision loss.
	for _, s := range []string{
		"372.25",
		"0.000000001",
		"1234567.123456789",
		"100.5",
		"0.1",
	} {
		p, err := fpdecimal.FromString(s)
		require.NoError(t, err)

		formatted := FormatPrice(p)
		require.NotEmpty(t, formatted)

		back, err := fpdecimal.FromString(formatted)
		require.NoError(t, err)
		assert.True(t, back.Equal(p), "round trip of %s via %s", s, formatted)
	}
}

func TestFormatPriceUndef(t *testing.T) {
	assert.Equal(t, "", FormatPrice(PriceUndef))
}

func TestAppendUpdate(t *testing.T) {
	e, err := ParseEvent(validLine)
	require.NoError(t, err)

	bids := []PriceLevel{
		{Price: fpdecimal.FromFloat(372.25), Size: 220, Count: 1},
		{Price: PriceUndef},
	}
	asks := []PriceLevel{
		{Price: fpdecimal.FromFloat(372.5), Size: 40, Count: 2},
		{Price: PriceUndef},
	}

	got := string(AppendUpdate(nil, &e, bids, asks))

	expected := fmt.Sprintf(
		"1609160400000429831,1609160400000704060,10,1,5482,A,B,0,%s,220,128,165,851012,%s,220,1,,0,0,%s,40,2,,0,0,SPY,647784973705",
		FormatPrice(e.Price),
		FormatPrice(bids[0].Price),
		FormatPrice(asks[0].Price),
	)
	assert.Equal(t, expected, got)

	// One header block, both sides' rows, symbol and order id.
	fields := strings.Split(got, ",")
	assert.Len(t, fields, 13+3*len(bids)+3*len(asks)+2)
	assert.Equal(t, "10", fields[2])
}

func TestParseEventRoundTripThroughEncoder(t *testing.T) {
	// An event's echoed fields survive decode and encode verbatim.
	e, err := ParseEvent(validLine)
	require.NoError(t, err)

	got := string(AppendUpdate(nil, &e, nil, nil))
	fields := strings.Split(got, ",")
	require.Len(t, fields, 15)
	assert.Equal(t, "1609160400000429831", fields[0])
	assert.Equal(t, "A", fields[5])
	assert.Equal(t, "B", fields[6])
	assert.Equal(t, "SPY", fields[13])
	assert.Equal(t, "647784973705", fields[14])
}
