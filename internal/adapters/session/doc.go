// Package session holds the browser-session adapters: the SessionStore
// implementations (in-process map or redis) and the signed cookie codec
// that carries a session ID between requests.
//
// Platform credentials never leave the server. The cookie only holds an
// HS256-signed session ID; the store maps that ID to a domain.SessionRecord.
package session
