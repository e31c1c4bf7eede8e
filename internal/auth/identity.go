package auth

// Identity is what an OAuth provider tells us about the person who just
// signed in. Accounts are matched on Email.
type Identity struct {
	Provider       string
	ProviderUserID string // the provider's "sub"
	Email          string
	EmailVerified  bool
	GivenName      string
	FamilyName     string
}
