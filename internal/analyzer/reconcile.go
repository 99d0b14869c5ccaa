package analyzer

import (
	"fmt"

	"github.com/blackwell-systems/appcompat/internal/compat"
)

// BuildTitleIndex maps record titles to their identifiers. Identifiers are
// visited in Dataset.IDs order, so when several records share a title the
// last one in that order wins. Records without a title are not indexed.
func BuildTitleIndex(dataset compat.Dataset) map[string]string {
	index := make(map[string]string, len(dataset))
	for _, id := range dataset.IDs() {
		title := dataset[id].Title
		if title == "" {
			continue
		}
		index[title] = id
	}
	return index
}

// Reconcile matches installed application names against the dataset by
// title and classifies each match.
//
// For a matched application both status codes are translated to labels, and
// an axis is OK when its label is "OK". The application renders verbosely
// (it is considered compatible) when:
//   - ModeLionOnly and Lion is OK
//   - ModeMountainLionOnly and Mountain Lion is OK
//   - ModeAll and both are OK
//
// Every other match counts as incompatible. Unmatched applications yield a
// Result with Found == false and are not counted.
//
// An unrecognised status code aborts reconciliation: it means the remote
// schema changed.
func Reconcile(apps []string, dataset compat.Dataset, mode Mode) (*Report, error) {
	index := BuildTitleIndex(dataset)

	report := &Report{
		Mode:    mode,
		Results: make([]Result, 0, len(apps)),
	}

	for _, name := range apps {
		id, ok := index[name]
		if !ok {
			report.Results = append(report.Results, Result{Name: name})
			continue
		}

		record := dataset[id]
		verdict, err := Classify(record)
		if err != nil {
			return nil, fmt.Errorf("failed to classify %s (id %s): %w", name, id, err)
		}

		result := Result{
			Name:            name,
			Found:           true,
			ID:              id,
			Record:          record,
			Verdict:         verdict,
			RenderVerbosely: renderVerbosely(verdict, mode),
		}
		if !result.RenderVerbosely {
			report.Incompatible++
		}

		report.Results = append(report.Results, result)
	}

	return report, nil
}

// Classify translates a record's status codes into a Verdict.
func Classify(record compat.Record) (Verdict, error) {
	lion, err := record.Status.Label()
	if err != nil {
		return Verdict{}, err
	}

	mountainLion, err := record.MountainLionStatus.Label()
	if err != nil {
		return Verdict{}, err
	}

	return Verdict{
		Lion:           lion,
		LionOK:         lion == compat.OKLabel,
		MountainLion:   mountainLion,
		MountainLionOK: mountainLion == compat.OKLabel,
	}, nil
}

func renderVerbosely(v Verdict, mode Mode) bool {
	return (mode == ModeLionOnly && v.LionOK) ||
		(mode == ModeMountainLionOnly && v.MountainLionOK) ||
		(mode == ModeAll && v.LionOK && v.MountainLionOK)
}
