package utils

type Metric struct {
	DatabaseRead       chan float64
	DatabaseWrite      chan float64
	MaterializeLatency chan float64
	ScrapeLatency      chan float64
	ScrapedEvents      chan float64
}

func NewMetric() *Metric {
	return &Metric{
		DatabaseRead:       make(chan float64),
		DatabaseWrite:      make(chan float64),
		MaterializeLatency: make(chan float64),
		ScrapeLatency:      make(chan float64),
		ScrapedEvents:      make(chan float64),
	}
}
