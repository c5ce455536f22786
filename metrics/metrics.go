// Package metrics exports prometheus metrics for the ndsp handle layer.
package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Lundis/go-ndsp/ndsp"
)

const namespace = "ndsp"

// Metrics implements ndsp.Recorder.
type Metrics struct {
	serviceOwners       prometheus.Gauge
	channelAcquisitions *prometheus.CounterVec
	wavesQueued         *prometheus.CounterVec
	queueClears         *prometheus.CounterVec
}

var _ ndsp.Recorder = (*Metrics)(nil)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		serviceOwners: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "service_owners",
			Help:      "Number of live owners of the audio service.",
		}),
		channelAcquisitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "channel_acquisitions_total",
			Help:      "Channel handle requests by result.",
		}, []string{"channel", "result"}),
		wavesQueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "waves_queued_total",
			Help:      "Wave buffers submitted to a channel by result.",
		}, []string{"channel", "result"}),
		queueClears: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_clears_total",
			Help:      "Channel queue clears by reason.",
		}, []string{"channel", "reason"}),
	}

	for _, c := range []prometheus.Collector{m.serviceOwners, m.channelAcquisitions, m.wavesQueued, m.queueClears} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) ServiceOwners(n int) {
	m.serviceOwners.Set(float64(n))
}

func (m *Metrics) ChannelAcquired(id uint8, err error) {
	m.channelAcquisitions.WithLabelValues(channelLabel(id), result(err)).Inc()
}

func (m *Metrics) WaveQueued(id uint8, err error) {
	m.wavesQueued.WithLabelValues(channelLabel(id), result(err)).Inc()
}

func (m *Metrics) QueueCleared(id uint8, reason ndsp.ClearReason) {
	m.queueClears.WithLabelValues(channelLabel(id), string(reason)).Inc()
}

func channelLabel(id uint8) string {
	return strconv.Itoa(int(id))
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ndsp.ErrInvalidChannel):
		return "invalid_channel"
	case errors.Is(err, ndsp.ErrChannelInUse):
		return "in_use"
	case errors.Is(err, ndsp.ErrWaveBusy):
		return "busy"
	}
	return "error"
}
