package tle

import (
	"testing"
	"time"
)

func TestStoreEmpty(t *testing.T) {
	s := NewStore()
	if s.Get() != nil {
		t.Error("empty store Get() != nil")
	}
	if age := s.AgeSeconds(); age != -1 {
		t.Errorf("empty store AgeSeconds() = %v, want -1", age)
	}
}

func TestStoreSetGet(t *testing.T) {
	s := NewStore()
	es, err := ParseLines("ISS", issLine1, issLine2)
	if err != nil {
		t.Fatal(err)
	}

	ds := &Dataset{Source: "test", LoadedAt: time.Now(), Sets: []ElementSet{es}}
	s.Set(ds)

	got := s.Get()
	if got != ds {
		t.Fatal("Get() did not return the stored dataset")
	}
	if age := s.AgeSeconds(); age < 0 || age > 5 {
		t.Errorf("AgeSeconds() = %v, want small non-negative", age)
	}
}

func TestStoreSwap(t *testing.T) {
	s := NewStore()
	old := &Dataset{Source: "old", LoadedAt: time.Now().Add(-time.Hour)}
	s.Set(old)
	if age := s.AgeSeconds(); age < 3599 {
		t.Errorf("AgeSeconds() = %v, want about 3600", age)
	}

	s.Set(&Dataset{Source: "new", LoadedAt: time.Now()})
	if got := s.Get(); got.Source != "new" {
		t.Errorf("Get().Source = %q, want %q", got.Source, "new")
	}
}
