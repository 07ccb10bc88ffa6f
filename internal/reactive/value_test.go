package reactive

import (
	"sync"
	"testing"
)

func TestValue(t *testing.T) {
	t.Run("Get returns initial and Set replaces", func(t *testing.T) {
		v := NewValue("a")
		if got := v.Get(); got != "a" {
			t.Fatalf("Get() = %q, want a", got)
		}
		v.Set("b")
		if got := v.Get(); got != "b" {
			t.Errorf("Get() = %q, want b", got)
		}
	})

	t.Run("subscribers notified in order with new value", func(t *testing.T) {
		v := NewValue(0)
		var seen []int
		v.Subscribe(func(n int) { seen = append(seen, n) })
		v.Subscribe(func(n int) { seen = append(seen, n*10) })

		v.Set(3)

		if len(seen) != 2 || seen[0] != 3 || seen[1] != 30 {
			t.Errorf("seen = %v, want [3 30]", seen)
		}
	})

	t.Run("unsubscribe stops notifications", func(t *testing.T) {
		v := NewValue(0)
		calls := 0
		unsubscribe := v.Subscribe(func(int) { calls++ })

		v.Set(1)
		unsubscribe()
		unsubscribe()
		v.Set(2)

		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("listener may read and write the same value", func(t *testing.T) {
		v := NewValue(0)
		v.Subscribe(func(n int) {
			if n < 3 {
				v.Set(v.Get() + 1)
			}
		})

		v.Set(1)

		if got := v.Get(); got != 3 {
			t.Errorf("Get() = %d, want 3", got)
		}
	})

	t.Run("concurrent Set and Get", func(t *testing.T) {
		v := NewValue(0)
		var mu sync.Mutex
		total := 0
		v.Subscribe(func(int) {
			mu.Lock()
			total++
			mu.Unlock()
		})

		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				v.Set(n)
				_ = v.Get()
			}(i)
		}
		wg.Wait()

		if total != 50 {
			t.Errorf("total notifications = %d, want 50", total)
		}
	})
}
