package index

import (
	"strconv"

	"github.com/brianvoe/gofakeit/v6"
)

const (
	MaxAmount = 5000
	MinAmount = 1
)

var funds = []string{"General Fund", "Enterprise", "Special Revenue", "Capital Projects", "Trust"}

// Workload drives an Index with a random mix of inserts and removes. IDs are
// handed out sequentially and removed oldest first, so removes mostly hit
// records that exist.
type Workload struct {
	faker    *gofakeit.Faker
	counter  int
	removals int
	// InsertPercentage is the share of Act calls that insert.
	InsertPercentage int
}

// NewWorkload returns a workload seeded with seed. Equal seeds produce equal
// record streams.
func NewWorkload(seed int64) *Workload {
	return &Workload{
		faker:            gofakeit.New(seed),
		counter:          1,
		removals:         1,
		InsertPercentage: 50,
	}
}

func (w *Workload) randomBoolDistribution(truePercentage int) bool {
	return w.faker.Number(0, 99) < truePercentage
}

// GenerateRecord returns a fresh record with the next sequential id.
func (w *Workload) GenerateRecord() Record {
	id := strconv.Itoa(w.counter)
	w.counter++
	return Record{
		ID:     id,
		Title:  w.faker.Company() + " " + w.faker.BuzzWord(),
		Fund:   w.faker.RandomString(funds),
		Amount: w.faker.Price(MinAmount, MaxAmount),
	}
}

// Act performs one random operation against ix.
func (w *Workload) Act(ix Index) {
	if w.randomBoolDistribution(w.InsertPercentage) {
		ix.Insert(w.GenerateRecord())
		return
	}
	if w.removals >= w.counter {
		return
	}
	ix.Remove(strconv.Itoa(w.removals))
	w.removals++
}
