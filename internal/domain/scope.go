package domain

// Scope is one independently timed access area.
type Scope string

const (
	ScopeAdmin       Scope = "admin"
	ScopeLiveDisplay Scope = "live-display"
	ScopeDoctors     Scope = "doctors"
	ScopeInquiries   Scope = "inquiries"
	ScopeFinancials  Scope = "financials"
)

var AllScopes = []Scope{ScopeAdmin, ScopeLiveDisplay, ScopeDoctors, ScopeInquiries, ScopeFinancials}

func (s Scope) Valid() bool {
	for _, v := range AllScopes {
		if v == s {
			return true
		}
	}
	return false
}
