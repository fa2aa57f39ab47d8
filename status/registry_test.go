package status

import (
	"sync"
	"testing"

	"go.opentelemetry.io/otel/metric/noop"
)

func TestMetricMapGetReturnsStablePointer(t *testing.T) {
	m := NewMetricMap[AtomicFloat]()
	a := m.Get("engine.rate")
	b := m.Get("engine.rate")
	if a != b {
		t.Error("Expected the same pointer for repeated Get")
	}
	if !m.Has("engine.rate") {
		t.Error("Expected key to be registered")
	}
	if m.Has("engine.missing") {
		t.Error("Expected unknown key to be absent")
	}
}

func TestMetricMapConcurrentGet(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg.Ints.Get("engine.ticks").Add(1)
		}()
	}
	wg.Wait()

	if got := reg.Ints.Get("engine.ticks").Load(); got != 32 {
		t.Errorf("Expected 32 ticks, got %d", got)
	}
	if reg.Ints.Count() != 1 {
		t.Errorf("Expected 1 registered int, got %d", reg.Ints.Count())
	}
}

func TestMetricMapKeysSorted(t *testing.T) {
	m := NewMetricMap[AtomicString]()
	m.Get("b")
	m.Get("c")
	m.Get("a")

	keys := m.Keys()
	want := []string{"a", "b", "c"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, keys)
		}
	}
}

func TestAtomicFloatAdd(t *testing.T) {
	var f AtomicFloat
	if f.Get() != 0 {
		t.Errorf("Expected zero value 0, got %v", f.Get())
	}
	f.Set(1.5)
	if got := f.Add(2.25); got != 3.75 {
		t.Errorf("Expected 3.75, got %v", got)
	}
}

func TestAtomicStringTruncates(t *testing.T) {
	var s AtomicString
	if s.Load() != "" {
		t.Error("Expected empty zero value")
	}
	s.Store("this label is definitely longer than twenty")
	if len(s.Load()) != MaxStringLen {
		t.Errorf("Expected length %d, got %d", MaxStringLen, len(s.Load()))
	}
}

func TestRegistryDump(t *testing.T) {
	reg := NewRegistry()
	reg.Ints.Get("engine.cycles").Store(3)
	reg.Floats.Get("engine.rate").Set(2)
	reg.Bools.Get("engine.paused").Store(true)
	reg.Strings.Get("engine.state").Store("paused")

	d := reg.Dump()
	if reg.TotalCount() != 4 || len(d) != 4 {
		t.Fatalf("Expected 4 metrics, got %d (%v)", reg.TotalCount(), d)
	}
	if d["engine.cycles"] != int64(3) {
		t.Errorf("Expected cycles 3, got %v", d["engine.cycles"])
	}
	if d["engine.rate"] != 2.0 {
		t.Errorf("Expected rate 2, got %v", d["engine.rate"])
	}
	if d["engine.paused"] != true {
		t.Errorf("Expected paused true, got %v", d["engine.paused"])
	}
}

func TestPublish(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	if _, err := Publish(NewRegistry(), meter); err == nil {
		t.Error("Expected error publishing an empty registry")
	}

	reg := NewRegistry()
	reg.Ints.Get("engine.ticks")
	reg.Floats.Get("engine.rate")
	reg.Bools.Get("engine.paused")

	registration, err := Publish(reg, meter)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if err := registration.Unregister(); err != nil {
		t.Errorf("Unregister failed: %v", err)
	}
}
