package classifier

import (
	"context"

	"mediatrace/pkg/domain"
)

// Filter decides, at request time, whether a request is ignored, rejected or
// tracked as a video candidate.
type Filter interface {
	Evaluate(rawURL string) domain.Decision
}

// Policy settles the verdict for a response that passed the status and MIME
// checks and whose host is not yet known.
type Policy interface {
	Name() string
	Decide(resp domain.Response) domain.Verdict
}

// Sink receives registry promotions made by the classifier. snapshot is the
// full sorted domain list of kind after the promotion.
//
//go:generate mockgen -package mockclassifier -source=interface.go -destination=mock/mockclassifier.go Sink
type Sink interface {
	Promoted(ctx context.Context, host string, kind domain.Kind, snapshot []string)
}
