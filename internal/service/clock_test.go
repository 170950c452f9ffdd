package service

import "time"

// Test hooks for the services that read the clock.

func (s *TrainerService) SetNow(now func() time.Time)   { s.now = now }
func (s *BookingService) SetNow(now func() time.Time)   { s.now = now }
func (s *RecordingService) SetNow(now func() time.Time) { s.now = now }
