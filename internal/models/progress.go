package models

// Progress is a completed/total tally. Percent is rounded and clamped to 0..100.
type Progress struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Percent   int `json:"percent"`
}

func NewProgress(total, completed int) Progress {
	p := Progress{Total: total, Completed: completed}
	if total > 0 {
		pct := (completed*100 + total/2) / total
		p.Percent = max(0, min(100, pct))
	}
	return p
}

// Add combines two tallies and recomputes the percentage.
func (p Progress) Add(o Progress) Progress {
	return NewProgress(p.Total+o.Total, p.Completed+o.Completed)
}
