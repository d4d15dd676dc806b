package cache

import (
	"testing"
	"time"
)

type sample struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func TestPutGetRoundTrip(t *testing.T) {
	s, err := NewStore(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	in := sample{Name: "uv", Value: 4.2}
	if err := PutTyped(s, "weather", in); err != nil {
		t.Fatalf("PutTyped: %v", err)
	}
	out, ok := GetTyped[sample](s, "weather")
	if !ok {
		t.Fatal("GetTyped miss for freshly stored key")
	}
	if out != in {
		t.Fatalf("round trip: got %+v want %+v", out, in)
	}
}

func TestMissingKey(t *testing.T) {
	s, _ := NewStore(t.TempDir(), 0)
	if _, ok := GetTyped[sample](s, "nope"); ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestExpiredEntryIsRemoved(t *testing.T) {
	s, _ := NewStore(t.TempDir(), 0)
	if err := s.PutWithTTL("k", []byte(`{"name":"x"}`), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, ok := s.Get("k"); ok {
		t.Fatal("expired entry should miss")
	}
}

func TestSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s1, _ := NewStore(dir, 0)
	if err := PutTyped(s1, "persist", sample{Name: "keep"}); err != nil {
		t.Fatal(err)
	}
	s2, _ := NewStore(dir, 0)
	out, ok := GetTyped[sample](s2, "persist")
	if !ok || out.Name != "keep" {
		t.Fatalf("entry did not survive reopen: %+v ok=%v", out, ok)
	}
}

func TestDelete(t *testing.T) {
	s, _ := NewStore(t.TempDir(), 0)
	PutTyped(s, "gone", sample{})
	s.Delete("gone")
	if _, ok := s.Get("gone"); ok {
		t.Fatal("deleted key still present")
	}
}
