package domain

import "time"

// RawCandidate is what a site extractor emits for one anchor it liked.
// No identity guarantee; may repeat within or across extractor calls.
type RawCandidate struct {
	Source   string
	Company  string
	Title    string
	Location string
	URL      string
}

// JobPosting is the canonical record the pipeline works with.
// Key is derived from the five identity fields; DetectedAt never
// participates in key derivation.
type JobPosting struct {
	DetectedAt time.Time
	Source     string
	Company    string
	Title      string
	Location   string
	URL        string
	Key        string
}
