// Package header provides the header table of an email message or message
// part and the parser that builds it.
//
// Header field names are case-insensitive and are stored lowercased. Each name
// maps to one or more values, kept in the order they appeared. Folded
// continuation lines are rejoined onto the field that was open when they were
// found.
//
// The generic getters never fail: Get() returns an empty string for a missing
// field. Only the accessors for fields a caller genuinely requires (Subject,
// From, and To) report a missing field, with ErrHeaderNotFound.
package header
