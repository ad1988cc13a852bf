package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK                 = "ok"
	outcomeInvalidPeriod      = "invalid_period"
	outcomeUnknownContentType = "unknown_contenttype"
	outcomeViewless           = "viewless"
	outcomeError              = "error"
)

var listingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "archives",
	Name:      "listing_requests_total",
	Help:      "Archive listing requests by outcome.",
}, []string{"outcome"})

func countListing(outcome string) {
	listingRequests.WithLabelValues(outcome).Inc()
}
