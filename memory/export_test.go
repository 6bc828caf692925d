package memory

import "time"

// NewServiceForTest returns a copy of s reading the time from now.
func NewServiceForTest(s *Service, now func() time.Time) *Service {
	c := *s
	c.now = now
	return &c
}
