package httpserver

import "net/http"

// IdentityResolver derives the voter/contributor identity used for the
// one-vote and one-contribution uniqueness keys. The default derives it
// from the requester's network address, which is spoofable; swapping in an
// authenticated-user resolver changes nothing in the gate logic.
type IdentityResolver func(r *http.Request) string

func RemoteIdentity(r *http.Request) string {
	ip := remoteIP(r)
	if ip == "" {
		return "unknown"
	}
	return ip
}
