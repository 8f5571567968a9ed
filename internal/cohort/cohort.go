// Package cohort classifies participants into intake cohorts from their
// institutional e-mail address.
//
// A student e-mail local part starts with the student id, whose first two
// digits are the intake generation and whose next two digits are the
// department code, e.g. 21070001@it.kmitl.ac.th is generation 21 of
// department 07.
package cohort

import (
	"errors"
	"strconv"
	"strings"
)

type Cohort int

const (
	Unknown Cohort = iota
	Senior
	Sophomore
	Freshman
)

const (
	SophomoreGeneration = 20
	FreshmanGeneration  = 21
)

var (
	ErrMalformedIdentifier   = errors.New("malformed student identifier")
	ErrUnsupportedGeneration = errors.New("unsupported generation")
	ErrNotInstitutional      = errors.New("not an institutional account")
)

func (c Cohort) String() string {
	switch c {
	case Senior:
		return "senior"
	case Sophomore:
		return "sophomore"
	case Freshman:
		return "freshman"
	default:
		return "unknown"
	}
}

// StudentID returns the local part of the e-mail with surrounding spaces
// removed. It does not validate the result.
func StudentID(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return local
}

// Generation parses the first two digits of the student id.
func Generation(email string) (int, error) {
	id := StudentID(email)
	if len(id) < 4 || !isDigit(id[0]) || !isDigit(id[1]) {
		return 0, ErrMalformedIdentifier
	}
	gen, err := strconv.Atoi(id[:2])
	if err != nil {
		return 0, ErrMalformedIdentifier
	}
	return gen, nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func Classify(email string) (Cohort, error) {
	gen, err := Generation(email)
	if err != nil {
		return Unknown, err
	}
	switch {
	case gen < SophomoreGeneration:
		return Senior, nil
	case gen == SophomoreGeneration:
		return Sophomore, nil
	case gen == FreshmanGeneration:
		return Freshman, nil
	default:
		return Unknown, ErrUnsupportedGeneration
	}
}

// CheckInstitutional is the sign-in filter: the address must belong to domain
// and the department code must sit at offsets 2..4 of the local part.
func CheckInstitutional(email, domain, department string) error {
	local, host, ok := strings.Cut(strings.ToLower(strings.TrimSpace(email)), "@")
	if !ok || host != strings.ToLower(domain) {
		return ErrNotInstitutional
	}
	if len(local) < 4 || local[2:4] != department {
		return ErrNotInstitutional
	}
	if _, err := Generation(email); err != nil {
		return err
	}
	return nil
}

type Predicate func(Cohort) bool

func IsFreshman(c Cohort) bool {
	return c == Freshman
}

func IsSophomoreOrOlder(c Cohort) bool {
	switch c {
	case Sophomore, Senior:
		return true
	case Freshman, Unknown:
		return false
	}
	return false
}
