package labels

import "testing"

func TestFromName(t *testing.T) {
	cases := map[string]string{
		"":              "",
		"firstName":     "First Name",
		"FirstName":     "First Name",
		"first_name":    "First Name",
		"billing-email": "Billing Email",
		"UserID":        "User ID",
		"HTTPServer":    "HTTP Server",
		"address2":      "Address 2",
		"profile.bio":   "Profile Bio",
	}
	for input, want := range cases {
		if got := FromName(input); got != want {
			t.Errorf("FromName(%q) = %q, want %q", input, got, want)
		}
	}
}
