// Package mhracrawl crawls the MHRA medicines database and materializes
// the letter → substance → product → document hierarchy into a set of
// derived JSON views plus a run summary certificate.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, sqlite/, goquery/).
package mhracrawl
