package worker

// Events carries optional progress callbacks. Any field may be nil.
type Events struct {
	Progress         func(message string)
	CurrencyAnalyzed func(code string, missing, refresh int)
	RateAdded        func(code string, rate float64, date string)
}

func (e Events) progress(message string) {
	if e.Progress != nil {
		e.Progress(message)
	}
}

func (e Events) currencyAnalyzed(code string, missing, refresh int) {
	if e.CurrencyAnalyzed != nil {
		e.CurrencyAnalyzed(code, missing, refresh)
	}
}

func (e Events) rateAdded(code string, rate float64, date string) {
	if e.RateAdded != nil {
		e.RateAdded(code, rate, date)
	}
}
