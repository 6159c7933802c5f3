package sim

import "time"

// FamilyReport is the end-of-run view of one family.
type FamilyReport struct {
	Name         string
	Available    bool
	Volume       int
	Buyers       int
	Transactions []Transaction
}

// Report is a snapshot of the ledger, families in release order.
type Report struct {
	Start    time.Time
	End      time.Time
	Ticks    int64
	Families []FamilyReport
}

// NewReport snapshots the ledger of w.
func NewReport(w *World) *Report {
	r := &Report{
		Start: w.StartTime(),
		End:   w.Time(),
		Ticks: w.Steps(),
	}
	for _, name := range w.ReleasedFamilies() {
		p, _ := w.Product(name)
		buyers := make(map[string]bool)
		for _, tx := range p.History {
			buyers[tx.Buyer] = true
		}
		r.Families = append(r.Families, FamilyReport{
			Name:         name,
			Available:    p.Available,
			Volume:       p.Volume,
			Buyers:       len(buyers),
			Transactions: p.History,
		})
	}
	return r
}

// TotalVolume sums the volume of every family.
func (r *Report) TotalVolume() int {
	total := 0
	for _, f := range r.Families {
		total += f.Volume
	}
	return total
}
