package log

import (
	"strings"
	"sync"
	"testing"
)

func TestBuffer_ConcurrentWrites(t *testing.T) {
	buf := &Buffer{}
	logger := NewLogger(buf)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("Posts loaded", "count", 3)
		}()
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "Posts loaded"); got != 8 {
		t.Errorf("expected 8 entries, got %d", got)
	}

	buf.Reset()
	if buf.String() != "" {
		t.Errorf("buffer should be empty after reset")
	}
}

func TestPanelHeight(t *testing.T) {
	tests := []struct {
		height int
		want   int
	}{
		{60, 15},
		{30, 10},
		{12, 4},
	}
	for _, tt := range tests {
		if got := PanelHeight(tt.height); got != tt.want {
			t.Errorf("PanelHeight(%d) = %d, want %d", tt.height, got, tt.want)
		}
	}
}
