package emailvalidation

import "context"

// Static returns the same verdict for every address. It backs
// EMAIL_VALIDATION_DISABLED=true.
type Static struct {
	Verdict Verdict
}

func (s Static) Validate(context.Context, string) (Verdict, error) {
	return s.Verdict, nil
}
