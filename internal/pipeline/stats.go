package pipeline

// RunStats counts how each file of a run ended.
type RunStats struct {
	Total        int
	Current      int
	Renamed      int
	DryRun       int
	Adjusted     int
	Skipped      int
	NoMatches    int
	AlreadyNamed int
	Failed       int
	Stopped      bool
}

// Processed returns the number of files that reached a terminal state.
func (s *RunStats) Processed() int {
	return s.Renamed + s.DryRun + s.Skipped + s.NoMatches + s.AlreadyNamed + s.Failed
}
