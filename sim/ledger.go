package sim

import "time"

// Transaction records one successful acquisition. Never mutated once created.
type Transaction struct {
	Buyer     string
	Family    string
	Volume    int
	Timestamp time.Time
}

// Product is the ledger record of one released family.
// Available only goes true -> false; Volume never decreases.
type Product struct {
	Name      string
	Available bool
	Volume    int
	History   []Transaction
}

// Ledger maps family names to products and remembers release order.
// Owned and mutated exclusively by the World.
type Ledger struct {
	products map[string]*Product
	order    []string
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{products: make(map[string]*Product)}
}

// release registers a new product. Returns false if the family already exists,
// in which case the existing record is left untouched.
func (l *Ledger) release(name string) bool {
	if _, ok := l.products[name]; ok {
		return false
	}
	l.products[name] = &Product{Name: name, Available: true}
	l.order = append(l.order, name)
	return true
}

// withdraw marks a product unavailable. Returns false for unknown families.
func (l *Ledger) withdraw(name string) bool {
	p, ok := l.products[name]
	if !ok {
		return false
	}
	p.Available = false
	return true
}

func (l *Ledger) record(tx Transaction) {
	p := l.products[tx.Family]
	p.Volume += tx.Volume
	p.History = append(p.History, tx)
}

// Get returns the product for name, or nil if it has not been released.
// The returned pointer must be treated as read-only.
func (l *Ledger) Get(name string) *Product {
	return l.products[name]
}

// Names returns released family names in release order.
func (l *Ledger) Names() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}
