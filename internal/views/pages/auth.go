package pages

// AuthPageData carries the state of the login and signup forms.
type AuthPageData struct {
	Username    string
	Message     string
	MessageKind string
}
