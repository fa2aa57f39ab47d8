package status

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel/metric"
)

// MetricPrefix namespaces exported instrument names
const MetricPrefix = "racecar."

// Publish exposes every int, float and bool currently registered as an observable gauge
// Metrics registered after Publish are not exported; call it once wiring is complete
func Publish(reg *Registry, meter metric.Meter) (metric.Registration, error) {
	type intGauge struct {
		g   metric.Int64ObservableGauge
		ptr *atomic.Int64
	}
	type floatGauge struct {
		g   metric.Float64ObservableGauge
		ptr *AtomicFloat
	}
	type boolGauge struct {
		g   metric.Int64ObservableGauge
		ptr *atomic.Bool
	}
	var (
		ints   []intGauge
		floats []floatGauge
		bools  []boolGauge
	)
	var observables []metric.Observable

	var regErr error
	reg.Ints.Range(func(key string, ptr *atomic.Int64) {
		if regErr != nil {
			return
		}
		g, err := meter.Int64ObservableGauge(MetricPrefix + key)
		if err != nil {
			regErr = fmt.Errorf("gauge %s: %w", key, err)
			return
		}
		ints = append(ints, intGauge{g, ptr})
		observables = append(observables, g)
	})
	reg.Floats.Range(func(key string, ptr *AtomicFloat) {
		if regErr != nil {
			return
		}
		g, err := meter.Float64ObservableGauge(MetricPrefix + key)
		if err != nil {
			regErr = fmt.Errorf("gauge %s: %w", key, err)
			return
		}
		floats = append(floats, floatGauge{g, ptr})
		observables = append(observables, g)
	})
	reg.Bools.Range(func(key string, ptr *atomic.Bool) {
		if regErr != nil {
			return
		}
		g, err := meter.Int64ObservableGauge(MetricPrefix+key, metric.WithDescription("1 when set"))
		if err != nil {
			regErr = fmt.Errorf("gauge %s: %w", key, err)
			return
		}
		bools = append(bools, boolGauge{g, ptr})
		observables = append(observables, g)
	})
	if regErr != nil {
		return nil, regErr
	}
	if len(observables) == 0 {
		return nil, fmt.Errorf("no metrics registered")
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		for _, i := range ints {
			o.ObserveInt64(i.g, i.ptr.Load())
		}
		for _, f := range floats {
			o.ObserveFloat64(f.g, f.ptr.Get())
		}
		for _, b := range bools {
			var v int64
			if b.ptr.Load() {
				v = 1
			}
			o.ObserveInt64(b.g, v)
		}
		return nil
	}, observables...)
}
