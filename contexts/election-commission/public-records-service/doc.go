// Package publicrecords keeps the commission's public record: announcements
// posted to approved channels and an audit trail of official, blocked, and
// unauthorized activity with traceable case references.
package publicrecords
