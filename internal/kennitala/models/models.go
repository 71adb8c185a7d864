package models

import (
	"time"

	"kennitala/pkg/kennitala"
)

// Inspection is the outcome of checking a single code. An invalid code is a
// successful inspection with Valid false; only Cleaned is populated then.
type Inspection struct {
	Cleaned     string
	Hyphenated  string
	Valid       bool
	Kind        kennitala.Kind
	Birthdate   string // ISO date, people only
	Age         int
	InspectedAt time.Time
}

// GenerateRequest asks for one code for a given date.
// For KindCompany the date is the founding date.
type GenerateRequest struct {
	Day   int
	Month int
	Year  int
	Kind  kennitala.Kind
}

// Generated is a freshly generated code.
type Generated struct {
	Kennitala  string
	Hyphenated string
	Kind       kennitala.Kind
	Birthdate  string
}
