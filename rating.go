package inkwell

// TargetType tells whether a rating applies to a sample or a work.
type TargetType string

const (
	TargetSample TargetType = "sample"
	TargetWork   TargetType = "work"
)

func (t TargetType) Valid() bool {
	return t == TargetSample || t == TargetWork
}

// Rating is one user's score for one target. The (UserID, TargetID,
// TargetType) triple is unique: re-rating replaces the row in place.
type Rating struct {
	UserID     string     `json:"userId"`
	TargetID   string     `json:"targetId"`
	TargetType TargetType `json:"targetType"`
	Score      float64    `json:"score"`
	CreatedAt  int64      `json:"createdAt"`
}
