// Package model defines stable boundary types for API layers.
//
// Domain identity (canonical module-set bytes and fingerprint CIDs) is
// unaffected by any projection. These structs are the only types intended for
// direct JSON serialization by consumers.
package model
