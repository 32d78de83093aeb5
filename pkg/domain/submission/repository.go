package submission

import "context"

// Filter restricts a dashboard listing to a verdict class.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterSafe      Filter = "safe"
	FilterMalicious Filter = "malicious"
)

// ListQuery describes a dashboard listing request.
type ListQuery struct {
	Filter Filter
	Search string
	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, entity *Submission) error
	List(ctx context.Context, query ListQuery) ([]Submission, int64, error)
}
