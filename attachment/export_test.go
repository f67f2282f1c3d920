package attachment

// SetCandidateFunc replaces the function generating candidate file names.
func (s *StorageSink) SetCandidateFunc(fn func() string) {
	s.candidate = fn
}
