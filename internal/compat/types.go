// Package compat models the RoaringApps compatibility dataset and fetches it.
package compat

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownStatus is returned for a status code outside the documented set.
var ErrUnknownStatus = errors.New("unknown compatibility status")

// OKLabel is the label of a status that works without problems.
const OKLabel = "OK"

// Record is one application entry of the remote dataset.
type Record struct {
	Title              string             `json:"title"`
	Status             LionStatus         `json:"status"`
	MountainLionStatus MountainLionStatus `json:"mtn_status"`
	URL                string             `json:"url"`
	DeveloperName      string             `json:"developer_name"`
	Icon               string             `json:"icon"`
}

// Dataset maps remote identifiers to records.
type Dataset map[string]Record

// IDs returns the dataset identifiers in a stable order. Numeric identifiers
// sort numerically ("9" before "10"), others lexically after them.
func (d Dataset) IDs() []string {
	ids := make([]string, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return lessID(ids[i], ids[j])
	})
	return ids
}

func lessID(a, b string) bool {
	an, bn := isDigits(a), isDigits(b)
	switch {
	case an && bn:
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	case an != bn:
		return an
	default:
		return a < b
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// LionStatus is the Mac OS X 10.7 (Lion) status code ("0".."4").
type LionStatus string

const (
	LionUnknown      LionStatus = "0"
	LionUntested     LionStatus = "1"
	LionOK           LionStatus = "2"
	LionSomeProblems LionStatus = "3"
	LionDoesNotWork  LionStatus = "4"
)

// Label returns the human label for the status.
func (s LionStatus) Label() (string, error) {
	switch s {
	case LionUnknown:
		return "Unknown", nil
	case LionUntested:
		return "Untested", nil
	case LionOK:
		return OKLabel, nil
	case LionSomeProblems:
		return "Some problems", nil
	case LionDoesNotWork:
		return "Does not work", nil
	}
	return "", fmt.Errorf("%w: lion status %q", ErrUnknownStatus, string(s))
}

// MountainLionStatus is the Mac OS X 10.8 (Mountain Lion) status code.
type MountainLionStatus string

const (
	MountainLionUnknown      MountainLionStatus = "unknown"
	MountainLionWorksFine    MountainLionStatus = "works_fine"
	MountainLionSomeProblems MountainLionStatus = "some_problems"
	MountainLionDoesNotWork  MountainLionStatus = "doesnt_work"
)

// Label returns the human label for the status.
func (s MountainLionStatus) Label() (string, error) {
	switch s {
	case MountainLionUnknown:
		return "Unknown", nil
	case MountainLionWorksFine:
		return OKLabel, nil
	case MountainLionSomeProblems:
		return "Some problems", nil
	case MountainLionDoesNotWork:
		return "Does not work", nil
	}
	return "", fmt.Errorf("%w: mountain lion status %q", ErrUnknownStatus, string(s))
}
