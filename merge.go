package agentfolio

// MergeTradeMarkers collapses the fills of one decision cycle into a single marker.
//
// Markers merge when they are consecutive and share their time and symbol. The
// merged quantity is the net signed quantity, its price is derived from the
// combined cash delta when both cash values are known, or is the quantity
// weighted average of the fill prices otherwise. Fills that cancel out leave
// no marker at all.
func MergeTradeMarkers(markers []TradeMarker) []TradeMarker {
	merged := make([]TradeMarker, 0, len(markers))
	for i := 0; i < len(markers); {
		acc := markers[i]
		j := i + 1
		for ; j < len(markers) && sameFill(&acc, &markers[j]); j++ {
			acc = mergeFill(acc, markers[j])
		}
		i = j
		if acc.Quantity.IsZero() {
			continue
		}
		merged = append(merged, acc)
	}
	return merged
}

func sameFill(a, b *TradeMarker) bool {
	return a.Symbol == b.Symbol && a.Time.Equal(b.Time)
}

// mergeFill merges the later fill b into a.
func mergeFill(a, b TradeMarker) TradeMarker {
	net := a.Signed().Add(b.Signed())
	m := TradeMarker{
		ID:               a.ID,
		Time:             a.Time,
		Symbol:           a.Symbol,
		Action:           Buy,
		Quantity:         net.Abs(),
		CashBefore:       a.CashBefore,
		CashAfter:        b.CashAfter,
		ValueBefore:      a.ValueBefore,
		ValueAfter:       b.ValueAfter,
		SharesAfterTrade: b.SharesAfterTrade,
	}
	if net.IsNegative() {
		m.Action = Sell
	}
	m.ExecutionPrice = executionPrice(m.Action, m.CashBefore, m.CashAfter, m.Quantity)
	if m.ExecutionPrice == nil {
		m.ExecutionPrice = weightedPrice(a, b)
	}
	return m
}

// weightedPrice returns the average price of a and b weighted by their quantities.
func weightedPrice(a, b TradeMarker) *Money {
	switch {
	case a.ExecutionPrice == nil || a.Quantity.IsZero():
		return b.ExecutionPrice
	case b.ExecutionPrice == nil || b.Quantity.IsZero():
		return a.ExecutionPrice
	}
	notional := a.ExecutionPrice.Mul(a.Quantity).Add(b.ExecutionPrice.Mul(b.Quantity))
	return notional.Div(a.Quantity.Add(b.Quantity)).ptr()
}
