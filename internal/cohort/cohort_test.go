package cohort

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		email string
		want  Cohort
		err   error
	}{
		{"21070001@it.kmitl.ac.th", Freshman, nil},
		{"20070042@it.kmitl.ac.th", Sophomore, nil},
		{"19070100@it.kmitl.ac.th", Senior, nil},
		{"05070100@it.kmitl.ac.th", Senior, nil},
		{" 21070001@it.kmitl.ac.th ", Freshman, nil},
		{"22070001@it.kmitl.ac.th", Unknown, ErrUnsupportedGeneration},
		{"ab070001@it.kmitl.ac.th", Unknown, ErrMalformedIdentifier},
		{"21@it.kmitl.ac.th", Unknown, ErrMalformedIdentifier},
		{"+1070001@it.kmitl.ac.th", Unknown, ErrMalformedIdentifier},
		{"-0070001@it.kmitl.ac.th", Unknown, ErrMalformedIdentifier},
		{"", Unknown, ErrMalformedIdentifier},
	}
	for _, tc := range cases {
		got, err := Classify(tc.email)
		if !errors.Is(err, tc.err) {
			t.Errorf("Classify(%q) err = %v, want %v", tc.email, err, tc.err)
		}
		if got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.email, got, tc.want)
		}
	}
}

func TestCheckInstitutional(t *testing.T) {
	const domain, dept = "it.kmitl.ac.th", "07"
	cases := []struct {
		email string
		ok    bool
	}{
		{"21070001@it.kmitl.ac.th", true},
		{"21070001@IT.KMITL.AC.TH", true},
		{"21010001@it.kmitl.ac.th", false},
		{"21070001@gmail.com", false},
		{"21070001", false},
		{"xx07@it.kmitl.ac.th", false},
		{"+1070001@it.kmitl.ac.th", false},
		{"-0070001@it.kmitl.ac.th", false},
	}
	for _, tc := range cases {
		err := CheckInstitutional(tc.email, domain, dept)
		if (err == nil) != tc.ok {
			t.Errorf("CheckInstitutional(%q) = %v, want ok=%v", tc.email, err, tc.ok)
		}
	}
}

func TestPredicates(t *testing.T) {
	if !IsFreshman(Freshman) || IsFreshman(Sophomore) || IsFreshman(Senior) {
		t.Error("IsFreshman accepts only freshmen")
	}
	if IsSophomoreOrOlder(Freshman) || IsSophomoreOrOlder(Unknown) {
		t.Error("IsSophomoreOrOlder must reject freshmen and unknown")
	}
	if !IsSophomoreOrOlder(Sophomore) || !IsSophomoreOrOlder(Senior) {
		t.Error("IsSophomoreOrOlder must accept sophomores and seniors")
	}
}

func TestStudentID(t *testing.T) {
	if got := StudentID("21070001@it.kmitl.ac.th"); got != "21070001" {
		t.Errorf("StudentID = %q", got)
	}
}
