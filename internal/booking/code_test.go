package booking

import (
	"strings"
	"sync"
	"testing"
)

func TestNextBookingCodeUnique(t *testing.T) {
	const n = 200
	codes := make([]string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = nextBookingCode()
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, code := range codes {
		if !strings.HasPrefix(code, "RES-") {
			t.Fatalf("expected RES- prefix, got %q", code)
		}
		if seen[code] {
			t.Fatalf("duplicate booking code %q", code)
		}
		seen[code] = true
	}
}
