package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalAttempts    int
	AcceptedCount    int
	RejectedCount    int
	UnitsAcquired    int
	UniqueBuyers     int
	UnitsByFamily    map[string]int // family → units acquired
	RejectionReason  map[string]int // reason → rejected attempts
	BroadcastsByKind map[string]int // kind → broadcasts recorded
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		UnitsByFamily:    make(map[string]int),
		RejectionReason:  make(map[string]int),
		BroadcastsByKind: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	buyers := make(map[string]bool)
	summary.TotalAttempts = len(st.Acquisitions)
	for _, a := range st.Acquisitions {
		if !a.Accepted {
			summary.RejectedCount++
			summary.RejectionReason[a.Reason]++
			continue
		}
		summary.AcceptedCount++
		summary.UnitsAcquired += a.Volume
		summary.UnitsByFamily[a.Family] += a.Volume
		buyers[a.Buyer] = true
	}
	summary.UniqueBuyers = len(buyers)

	for _, b := range st.Broadcasts {
		summary.BroadcastsByKind[b.Kind]++
	}

	return summary
}
