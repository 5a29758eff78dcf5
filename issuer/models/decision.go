package models

import "errors"

var (
	ErrMissingAuthCode = errors.New("approved decision requires an authorization code")
	ErrMissingReason   = errors.New("declined decision requires a reason")
)

// IssuerDecision is the outcome of the issuer rule engine. Exactly one of
// reason and auth code is set; the fields are unexported so an inconsistent
// decision cannot be built outside the constructors.
type IssuerDecision struct {
	approved bool
	reason   string
	authCode string
}

func IssuerApproved(authCode string) (IssuerDecision, error) {
	if authCode == "" {
		return IssuerDecision{}, ErrMissingAuthCode
	}
	return IssuerDecision{approved: true, authCode: authCode}, nil
}

func IssuerDeclined(reason string) (IssuerDecision, error) {
	if reason == "" {
		return IssuerDecision{}, ErrMissingReason
	}
	return IssuerDecision{reason: reason}, nil
}

// MustIssuerApproved is for statically known auth codes; it panics on an
// empty code.
func MustIssuerApproved(authCode string) IssuerDecision {
	d, err := IssuerApproved(authCode)
	if err != nil {
		panic(err)
	}
	return d
}

func MustIssuerDeclined(reason string) IssuerDecision {
	d, err := IssuerDeclined(reason)
	if err != nil {
		panic(err)
	}
	return d
}

func (d IssuerDecision) Approved() bool   { return d.approved }
func (d IssuerDecision) Reason() string   { return d.reason }
func (d IssuerDecision) AuthCode() string { return d.authCode }

// LimitDecision is the outcome of the limits check. Same construction rules
// as IssuerDecision: an approval must carry a freshly generated code, a
// decline must carry a reason.
type LimitDecision struct {
	authorized bool
	reason     string
	authCode   string
}

func LimitApproved(authCode string) (LimitDecision, error) {
	if authCode == "" {
		return LimitDecision{}, ErrMissingAuthCode
	}
	return LimitDecision{authorized: true, authCode: authCode}, nil
}

func LimitDeclined(reason string) (LimitDecision, error) {
	if reason == "" {
		return LimitDecision{}, ErrMissingReason
	}
	return LimitDecision{reason: reason}, nil
}

func MustLimitApproved(authCode string) LimitDecision {
	d, err := LimitApproved(authCode)
	if err != nil {
		panic(err)
	}
	return d
}

func MustLimitDeclined(reason string) LimitDecision {
	d, err := LimitDeclined(reason)
	if err != nil {
		panic(err)
	}
	return d
}

func (d LimitDecision) Authorized() bool  { return d.authorized }
func (d LimitDecision) Reason() string    { return d.reason }
func (d LimitDecision) AuthCode() string  { return d.authCode }
