package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                              "/",
		"/metrics":                      "/metrics",
		"/v1/organisations":             "/v1/organisations",
		"/v1/organisations/abc":         "/v1/organisations/:id",
		"/v1/organisations/abc/extra":   "/v1/organisations/abc/extra",
		"/v1/organisations?status=x":    "/v1/organisations",
		"/v1/auth/login":                "/v1/auth/login",
		"/v1/organisations/abc?full=on": "/v1/organisations/:id",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
