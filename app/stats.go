package app

import "sync/atomic"

type Stats struct {
	files      uint64
	errors     uint64
	vulnerable uint64
	good       uint64
	unknown    uint64
}

func (s *Stats) Files() uint64 {
	return atomic.LoadUint64(&s.files)
}

func (s *Stats) IncFile() {
	atomic.AddUint64(&s.files, 1)
}

func (s *Stats) Errors() uint64 {
	return atomic.LoadUint64(&s.errors)
}

func (s *Stats) IncError() {
	atomic.AddUint64(&s.errors, 1)
}

func (s *Stats) Vulnerable() uint64 {
	return atomic.LoadUint64(&s.vulnerable)
}

func (s *Stats) IncVulnerable() {
	atomic.AddUint64(&s.vulnerable, 1)
}

func (s *Stats) Good() uint64 {
	return atomic.LoadUint64(&s.good)
}

func (s *Stats) IncGood() {
	atomic.AddUint64(&s.good, 1)
}

func (s *Stats) Unknown() uint64 {
	return atomic.LoadUint64(&s.unknown)
}

func (s *Stats) IncUnknown() {
	atomic.AddUint64(&s.unknown, 1)
}
