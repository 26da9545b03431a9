package logger

import (
	"strconv"
	"strings"
	"sync"
)

const (
	defaultSampleNum = 1
	defaultSampleDen = 50
)

// eventSampler admits num of every den debug lines for each event name.
// Counting per event keeps a flood of one event, such as taps on stale
// keyboards, from starving the sampling of quieter ones.
type eventSampler struct {
	mu   sync.Mutex
	num  uint64
	den  uint64
	seen map[string]uint64
}

func newEventSampler() *eventSampler {
	return &eventSampler{num: defaultSampleNum, den: defaultSampleDen, seen: map[string]uint64{}}
}

// configure applies a LOG_DEBUG_SAMPLE value: "n/d", "d" (1 in d), or "0"
// to keep every line. Empty or malformed input restores the default.
func (s *eventSampler) configure(spec string) {
	num, den := parseSampleSpec(spec)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.num, s.den = num, den
	s.seen = map[string]uint64{}
}

func (s *eventSampler) allow(event string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.den == 0 {
		return true
	}
	n := s.seen[event]
	s.seen[event] = n + 1
	return n%s.den < s.num
}

func parseSampleSpec(spec string) (uint64, uint64) {
	spec = strings.TrimSpace(spec)
	if spec == "0" {
		return 0, 0
	}
	numStr, denStr, ratio := strings.Cut(spec, "/")
	if !ratio {
		numStr, denStr = "1", spec
	}
	num, err1 := strconv.ParseUint(strings.TrimSpace(numStr), 10, 32)
	den, err2 := strconv.ParseUint(strings.TrimSpace(denStr), 10, 32)
	if err1 != nil || err2 != nil || num == 0 || den == 0 {
		return defaultSampleNum, defaultSampleDen
	}
	return min(num, den), den
}
