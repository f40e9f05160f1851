// Package wintype defines the opaque window handle shared by the stack
// set and the layout engine, kept in its own package so neither has to
// import the other just to agree on the type.
package wintype

// Window is the server-assigned handle to a top-level client window.
// Equality is by identity; nothing in this codebase constructs one except
// the X server client.
type Window uint32
