package logging

import "testing"

func TestNewProgressSampler(t *testing.T) {
	tests := []struct {
		name       string
		bucketSize float64
		wantSize   float64
	}{
		{"default bucket size for zero", 0, 10},
		{"default bucket size for negative", -1, 10},
		{"custom bucket size", 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressSampler(tt.bucketSize)
			if s.bucketSize != tt.wantSize {
				t.Errorf("bucketSize = %v, want %v", s.bucketSize, tt.wantSize)
			}
			if s.lastBucket != -1 {
				t.Errorf("lastBucket = %d, want -1", s.lastBucket)
			}
		})
	}
}

func TestProgressSampler_NilSampler(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(5, 10) {
		t.Error("ShouldLog on nil sampler should always return true")
	}
	s.Reset() // should not panic
}

func TestProgressSampler_Buckets(t *testing.T) {
	s := NewProgressSampler(10)
	const total = 100

	var emitted []int64
	for done := int64(0); done <= total; done++ {
		if s.ShouldLog(done, total) {
			emitted = append(emitted, done)
		}
	}

	want := []int64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	if len(emitted) != len(want) {
		t.Fatalf("emitted %v, want %v", emitted, want)
	}
	for i := range want {
		if emitted[i] != want[i] {
			t.Fatalf("emitted %v, want %v", emitted, want)
		}
	}
}

func TestProgressSampler_FinalEmitsOnce(t *testing.T) {
	s := NewProgressSampler(10)
	if !s.ShouldLog(3, 3) {
		t.Fatal("completion should log")
	}
	if s.ShouldLog(3, 3) {
		t.Fatal("completion should log only once")
	}
	s.Reset()
	if !s.ShouldLog(0, 0) {
		t.Fatal("empty total should log once after reset")
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(1, 4); got != 25 {
		t.Fatalf("Percent(1,4) = %v", got)
	}
	if got := Percent(0, 0); got != 100 {
		t.Fatalf("Percent(0,0) = %v", got)
	}
}
