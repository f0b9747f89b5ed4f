package social

// Identity is the provider-asserted principal extracted from a social
// login credential.
type Identity struct {
	Provider  string
	Subject   string
	Email     string
	Name      string
	AvatarURL string
	Verified  bool
}
