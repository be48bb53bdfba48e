package core

// CategoryAmount is an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Amount
}

// Summary is a per-category breakdown of a ledger with its grand total.
// Categories appear in first-seen ledger order.
type Summary struct {
	ByCategory []CategoryAmount
	Total      Amount
}

// Summarize aggregates entries by category. Entries with an empty category
// are grouped under fallback.
func Summarize(entries []Entry, fallback string) Summary {
	var s Summary
	index := make(map[string]int)
	for _, e := range entries {
		name := e.Category
		if name == "" {
			name = fallback
		}
		i, ok := index[name]
		if !ok {
			i = len(s.ByCategory)
			index[name] = i
			s.ByCategory = append(s.ByCategory, CategoryAmount{Name: name})
		}
		s.ByCategory[i].Amount = s.ByCategory[i].Amount.Add(e.Amount)
		s.Total = s.Total.Add(e.Amount)
	}
	return s
}

// TotalOn sums the amounts of entries dated on the given day.
func TotalOn(entries []Entry, day Date) Amount {
	var total Amount
	for _, e := range entries {
		if e.Date.SameDay(day) {
			total = total.Add(e.Amount)
		}
	}
	return total
}
