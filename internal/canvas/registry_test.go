package canvas

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestRegistryPutGetDelete(t *testing.T) {
	r := NewRegistry(8, time.Hour)

	sess := NewSession("sess_1", "idea", "custom", "gemini", "m")
	r.Put(sess)

	got, ok := r.Get("sess_1")
	if !ok || got != sess {
		t.Fatalf("Get(sess_1) = %v, %v", got, ok)
	}
	if _, ok := r.Get("sess_2"); ok {
		t.Fatalf("Get(sess_2) found a session")
	}

	if !r.Delete("sess_1") {
		t.Fatalf("Delete(sess_1) = false")
	}
	if r.Delete("sess_1") {
		t.Fatalf("second Delete(sess_1) = true")
	}
	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}
}

func TestRegistryBoundedSize(t *testing.T) {
	r := NewRegistry(4, time.Hour)
	for i := 0; i < 10; i++ {
		r.Put(NewSession(fmt.Sprintf("sess_%d", i), "idea", "custom", "gemini", "m"))
	}
	if r.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", r.Len())
	}
	// Oldest entries went first.
	if _, ok := r.Get("sess_0"); ok {
		t.Fatalf("sess_0 survived eviction")
	}
	if _, ok := r.Get("sess_9"); !ok {
		t.Fatalf("sess_9 evicted")
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry(128, time.Hour)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("sess_%d", i)
			r.Put(NewSession(id, "idea", "custom", "gemini", "m"))
			if _, ok := r.Get(id); !ok {
				t.Errorf("Get(%s) missed after Put", id)
			}
		}(i)
	}
	wg.Wait()
	if r.Len() != 16 {
		t.Fatalf("Len() = %d, want 16", r.Len())
	}
}

func TestRegistryNilReceiver(t *testing.T) {
	var r *Registry
	r.Put(NewSession("s", "idea", "custom", "gemini", "m"))
	if _, ok := r.Get("s"); ok {
		t.Fatalf("nil registry returned a session")
	}
	if r.Delete("s") {
		t.Fatalf("nil registry deleted a session")
	}
	if r.Len() != 0 {
		t.Fatalf("nil registry Len() != 0")
	}
}
