package domain

// Report is the outcome of one zone lookup. A nil section means the fetch
// failed and was reported in Notices.
type Report struct {
	Zone            string
	Prompt          string
	Notices         []string
	CarbonIntensity *CarbonIntensityReading
	Power           *PowerBreakdown
}

// Attempted reports whether any fetch was issued.
func (r Report) Attempted() bool { return r.Prompt == "" }
