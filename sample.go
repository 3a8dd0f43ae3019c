package inkwell

// Sample is one handwritten character contributed by a user. The
// rendering payload (path, viewBox, thumbnail) is opaque to the data
// layer: it is produced by the capture pipeline and only carried here.
type Sample struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Char   string `json:"char"`

	SVGPath    string `json:"svgPath"`
	SVGViewBox string `json:"svgViewBox"`
	Thumbnail  string `json:"thumbnail"`

	// Rating is the owner's self-assessment (1-5), informational only.
	// Score is the community average, recomputed from ratings.
	Rating int     `json:"rating"`
	Score  float64 `json:"score,omitempty"`

	IsAdjusted bool `json:"isAdjusted,omitempty"`
	IsRefined  bool `json:"isRefined,omitempty"`

	CreatedAt int64    `json:"createdAt"`
	Tags      []string `json:"tags,omitempty"`
}

func (s Sample) Clone() Sample {
	clone := s
	if s.Tags != nil {
		clone.Tags = make([]string, len(s.Tags))
		copy(clone.Tags, s.Tags)
	}
	return clone
}

func CloneSamples(samples []Sample) []Sample {
	if samples == nil {
		return nil
	}
	clones := make([]Sample, len(samples))
	for i, s := range samples {
		clones[i] = s.Clone()
	}
	return clones
}
