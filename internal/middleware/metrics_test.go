package middleware

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestVisitorTracker(t *testing.T) {
	t.Run("first sight is new, repeat is not", func(t *testing.T) {
		vt := NewVisitorTracker(100)

		if !vt.Track("fp-1") {
			t.Error("first Track() = false, want true")
		}
		if vt.Track("fp-1") {
			t.Error("repeat Track() = true, want false")
		}
		if got := vt.ActiveCount(time.Minute); got != 1 {
			t.Errorf("ActiveCount() = %d, want 1", got)
		}
	})

	t.Run("concurrent tracking and counting", func(t *testing.T) {
		vt := NewVisitorTracker(10000)

		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := 0; i < 200; i++ {
					vt.Track(fmt.Sprintf("fp-%d-%d", g, i))
					vt.ActiveCount(time.Minute)
				}
			}(g)
		}
		wg.Wait()

		if got := vt.ActiveCount(time.Minute); got != 8*200 {
			t.Errorf("ActiveCount() = %d, want %d", got, 8*200)
		}
	})
}
