package inkwell

import "math"

// SchemaVersion is the current version of the persisted dataset.
// Version 2 introduced the 0-10 rating scale.
const SchemaVersion = 2

// RoundScore rounds a score to one decimal place, the precision cached
// on samples and works.
func RoundScore(score float64) float64 {
	return math.Round(score*10) / 10
}

// RecomputeScores rewrites every cached sample and work score as the
// rounded mean of the ratings for that target. A full rescan keeps the
// cached values from drifting regardless of edit history.
func (d *Dataset) RecomputeScores() {
	type acc struct {
		total float64
		count int
	}

	byTarget := make(map[string]*acc)
	key := func(t TargetType, id string) string { return string(t) + ":" + id }

	for _, r := range d.Ratings {
		k := key(r.TargetType, r.TargetID)
		if byTarget[k] == nil {
			byTarget[k] = &acc{}
		}
		byTarget[k].total += r.Score
		byTarget[k].count++
	}

	for i := range d.Samples {
		if a := byTarget[key(TargetSample, d.Samples[i].ID)]; a != nil {
			d.Samples[i].Score = RoundScore(a.total / float64(a.count))
		}
	}
	for i := range d.Works {
		if a := byTarget[key(TargetWork, d.Works[i].ID)]; a != nil {
			d.Works[i].Score = RoundScore(a.total / float64(a.count))
		}
	}
}

// MigrateLegacyScores rescales scores recorded on the legacy 100-point
// scale down to the 0-10 scale. It is a one-shot operation keyed on the
// schema version: datasets already at the current version are left
// untouched, so a future legitimate score above 10 can never be
// silently rescaled again. Returns true if anything changed.
func (d *Dataset) MigrateLegacyScores() bool {
	if d.SchemaVersion >= SchemaVersion {
		return false
	}

	changed := false
	for i := range d.Ratings {
		if d.Ratings[i].Score > 10 {
			d.Ratings[i].Score = RoundScore(d.Ratings[i].Score / 10)
			changed = true
		}
	}
	for i := range d.Samples {
		if d.Samples[i].Score > 10 {
			d.Samples[i].Score = RoundScore(d.Samples[i].Score / 10)
			changed = true
		}
	}
	for i := range d.Works {
		if d.Works[i].Score > 10 {
			d.Works[i].Score = RoundScore(d.Works[i].Score / 10)
			changed = true
		}
	}

	d.SchemaVersion = SchemaVersion
	return changed
}
