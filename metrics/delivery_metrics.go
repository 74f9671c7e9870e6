package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DeliveryMetricsCollector struct {
	Delivered prometheus.Counter
	Failed    prometheus.Counter
}

var deliveryCollector *DeliveryMetricsCollector

// GetDeliveryMetrics returns the process-wide reminder delivery counters
func GetDeliveryMetrics() *DeliveryMetricsCollector {
	if deliveryCollector == nil {
		deliveryCollector = &DeliveryMetricsCollector{
			Delivered: promauto.NewCounter(prometheus.CounterOpts{
				Name: "reminder_deliveries_total",
				Help: "The total number of reminder messages delivered",
			}),
			Failed: promauto.NewCounter(prometheus.CounterOpts{
				Name: "reminder_delivery_failures_total",
				Help: "The total number of reminder delivery failures",
			}),
		}
	}
	return deliveryCollector
}

func (d *DeliveryMetricsCollector) RecordDelivered() { d.Delivered.Inc() }
func (d *DeliveryMetricsCollector) RecordFailed()    { d.Failed.Inc() }
