package domain

import "fmt"

// ErrorKind classifies a problem recorded during a sync run.
type ErrorKind string

const (
	// ErrorKindTransport covers listing pages, item fetches and media downloads.
	ErrorKindTransport ErrorKind = "transport"

	// ErrorKindShape covers items missing attributes the pipeline needs.
	ErrorKindShape ErrorKind = "shape"

	// ErrorKindCollision covers fields overwriting reserved attributes.
	ErrorKindCollision ErrorKind = "collision"

	// ErrorKindStorage covers cache and registry failures.
	ErrorKindStorage ErrorKind = "storage"
)

// Problem is the outcome of one failed unit of work that did not abort the run.
type Problem struct {
	Kind   ErrorKind
	Op     string
	Target string
	Err    error
}

func (p Problem) String() string {
	return fmt.Sprintf("%s %s %s: %v", p.Kind, p.Op, p.Target, p.Err)
}

// MediaStats counts media outcomes.
type MediaStats struct {
	Reused     int
	Downloaded int
	Failed     int
}

// SyncReport summarises one sync run.
type SyncReport struct {
	Listed   int
	Fetched  int
	Records  int
	Nodes    int
	Links    int
	Pruned   int
	Media    MediaStats
	Problems []Problem
}

// Add records a problem.
func (r *SyncReport) Add(p Problem) {
	r.Problems = append(r.Problems, p)
}

// ProblemsOf returns the problems of one kind.
func (r *SyncReport) ProblemsOf(kind ErrorKind) []Problem {
	var out []Problem
	for _, p := range r.Problems {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}
