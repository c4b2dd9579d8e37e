// Package emailvalidation asks an abstractapi-compatible service whether an
// email address may be used to register.
package emailvalidation

// Verdict is the pass/fail outcome of the acceptance rule.
type Verdict int

const (
	Invalid Verdict = iota
	Valid
)

func (v Verdict) String() string {
	if v == Valid {
		return "valid"
	}
	return "invalid"
}

// Flag is one boolean check reported by the service.
type Flag struct {
	Value bool `json:"value"`
}

// Response holds only the flags Verdict reads; every other field of the
// payload is ignored so its shape cannot affect decoding. Flags are pointers
// so a flag missing from the payload can be told apart from false.
type Response struct {
	IsValidFormat     *Flag `json:"is_valid_format"`
	IsFreeEmail       *Flag `json:"is_free_email"`
	IsDisposableEmail *Flag `json:"is_disposable_email"`
	IsRoleEmail       *Flag `json:"is_role_email"`
	IsCatchallEmail   *Flag `json:"is_catchall_email"`
	IsMXFound         *Flag `json:"is_mx_found"`
	IsSMTPValid       *Flag `json:"is_smtp_valid"`
}

// Verdict accepts an address that is well formed, has MX records, passes
// the SMTP check and is a free-provider address, and rejects disposable,
// role and catch-all addresses. Any missing flag makes the address Invalid.
//
// Requiring is_free_email rejects corporate and custom-domain mailboxes.
// That is long-standing behavior and kept as is.
func (r *Response) Verdict() Verdict {
	if r == nil {
		return Invalid
	}
	flags := []*Flag{
		r.IsValidFormat, r.IsFreeEmail, r.IsDisposableEmail, r.IsRoleEmail,
		r.IsCatchallEmail, r.IsMXFound, r.IsSMTPValid,
	}
	for _, f := range flags {
		if f == nil {
			return Invalid
		}
	}

	if r.IsValidFormat.Value && r.IsMXFound.Value && r.IsSMTPValid.Value && r.IsFreeEmail.Value &&
		!r.IsDisposableEmail.Value && !r.IsRoleEmail.Value && !r.IsCatchallEmail.Value {
		return Valid
	}
	return Invalid
}
