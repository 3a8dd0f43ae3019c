package inkwell

// WorkStatus is the publication state of a work. Only public works go
// through moderation: private works are published on creation.
type WorkStatus string

const (
	StatusDraft     WorkStatus = "draft"
	StatusPending   WorkStatus = "pending"
	StatusPublished WorkStatus = "published"
	StatusRejected  WorkStatus = "rejected"
)

type GridType string

const (
	GridMi   GridType = "mi"
	GridTian GridType = "tian"
	GridHui  GridType = "hui"
	GridNone GridType = "none"
)

type Layout string

const (
	LayoutHorizontal Layout = "horizontal"
	LayoutVertical   Layout = "vertical"
)

// CharAdjustment fine-tunes how one character position is rendered.
type CharAdjustment struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// Work is a composed text. CharStyles maps a character position in
// Content to the id of the sample used to render it.
type Work struct {
	ID      string `json:"id"`
	UserID  string `json:"userId"`
	Title   string `json:"title"`
	Author  string `json:"author,omitempty"`
	Content string `json:"content"`

	CharStyles      map[int]string         `json:"charStyles,omitempty"`
	CharAdjustments map[int]CharAdjustment `json:"charAdjustments,omitempty"`

	Layout   Layout   `json:"layout,omitempty"`
	GridType GridType `json:"gridType,omitempty"`

	Visibility Visibility `json:"visibility,omitempty"`
	Status     WorkStatus `json:"status"`

	IsRefined bool    `json:"isRefined,omitempty"`
	Score     float64 `json:"score,omitempty"`

	// AuthorDeleted marks a public work whose author account is gone.
	AuthorDeleted bool `json:"authorDeleted,omitempty"`

	// OriginWorkID is set when this work was collected (cloned) from a
	// public work.
	OriginWorkID string `json:"originWorkId,omitempty"`

	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

func (w Work) Clone() Work {
	clone := w
	if w.CharStyles != nil {
		clone.CharStyles = make(map[int]string, len(w.CharStyles))
		for k, v := range w.CharStyles {
			clone.CharStyles[k] = v
		}
	}
	if w.CharAdjustments != nil {
		clone.CharAdjustments = make(map[int]CharAdjustment, len(w.CharAdjustments))
		for k, v := range w.CharAdjustments {
			clone.CharAdjustments[k] = v
		}
	}
	return clone
}

func CloneWorks(works []Work) []Work {
	if works == nil {
		return nil
	}
	clones := make([]Work, len(works))
	for i, w := range works {
		clones[i] = w.Clone()
	}
	return clones
}
