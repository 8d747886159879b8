// internal/core/domain/resolution_test.go
package domain

import (
	"testing"

	"subsift/internal/testutil"
)

func TestRRSet_Empty(t *testing.T) {
	testutil.AssertTrue(t, RRSet{}.Empty(), "zero value is empty")
	testutil.AssertTrue(t, RRSet{CNAME: []string{"cdn.example.net"}}.Empty(), "cname alone is empty")
	testutil.AssertFalse(t, RRSet{A: []string{"9.9.9.9"}}.Empty(), "A record")
	testutil.AssertFalse(t, RRSet{AAAA: []string{"2001:db8::1"}}.Empty(), "AAAA record")
}

func TestRRSet_Addresses(t *testing.T) {
	rrset := RRSet{
		A:    []string{"1.2.3.4", "5.6.7.8"},
		AAAA: []string{"2001:db8::1"},
	}

	addrs := rrset.Addresses()
	testutil.AssertLen(t, addrs, 3, "merged addresses")
	testutil.AssertEqual(t, addrs[0], "1.2.3.4", "A records first")
	testutil.AssertEqual(t, addrs[2], "2001:db8::1", "AAAA records last")
}

func TestNewResolution(t *testing.T) {
	c := NewCandidate("api.example.com", "thc")
	res := NewResolution(c, ResolutionResolved, RRSet{A: []string{"9.9.9.9"}})

	testutil.AssertEqual(t, res.Name, "api.example.com", "name")
	testutil.AssertEqual(t, res.Source, "thc", "source")
	testutil.AssertTrue(t, res.Resolved(), "resolved")
}

func TestResolution_Resolved(t *testing.T) {
	c := NewCandidate("x.example.com", "thc")

	testutil.AssertTrue(t, NewResolution(c, ResolutionResolved, RRSet{}).Resolved(), "resolved status")
	testutil.AssertFalse(t, NewResolution(c, ResolutionUnresolved, RRSet{}).Resolved(), "unresolved status")
	testutil.AssertFalse(t, NewResolution(c, ResolutionWildcardShadowed, RRSet{}).Resolved(), "shadowed status")
}

func TestResolution_String(t *testing.T) {
	c := NewCandidate("api.example.com", "thc")

	withAddrs := NewResolution(c, ResolutionResolved, RRSet{A: []string{"9.9.9.9"}})
	testutil.AssertContains(t, withAddrs.String(), "9.9.9.9", "addresses shown")

	without := NewResolution(c, ResolutionUnresolved, RRSet{})
	testutil.AssertContains(t, without.String(), "unresolved", "status shown")
}

func TestWildcardBaseline_Absorb(t *testing.T) {
	baseline := NewWildcardBaseline()
	testutil.AssertFalse(t, baseline.Detected, "starts undetected")

	baseline.Absorb(RRSet{})
	testutil.AssertFalse(t, baseline.Detected, "empty probe changes nothing")

	baseline.Absorb(RRSet{A: []string{"10.0.0.1", "10.0.0.2"}})
	testutil.AssertTrue(t, baseline.Detected, "probe answer marks detection")
	testutil.AssertEqual(t, baseline.Addresses.Cardinality(), 2, "addresses collected")

	baseline.Absorb(RRSet{A: []string{"10.0.0.2", "10.0.0.3"}})
	testutil.AssertEqual(t, baseline.Addresses.Cardinality(), 3, "union of probes")
}

func TestWildcardBaseline_Covers(t *testing.T) {
	baseline := NewWildcardBaseline()
	baseline.Absorb(RRSet{A: []string{"10.0.0.1", "10.0.0.2"}})

	tests := []struct {
		name    string
		records RRSet
		covered bool
	}{
		{"exact match", RRSet{A: []string{"10.0.0.1", "10.0.0.2"}}, true},
		{"strict subset", RRSet{A: []string{"10.0.0.1"}}, true},
		{"distinct address", RRSet{A: []string{"192.0.2.1"}}, false},
		{"partial overlap", RRSet{A: []string{"10.0.0.1", "192.0.2.1"}}, false},
		{"empty answer", RRSet{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, baseline.Covers(tt.records), tt.covered, "coverage")
		})
	}
}

func TestWildcardBaseline_Covers_NotDetected(t *testing.T) {
	baseline := NewWildcardBaseline()

	covered := baseline.Covers(RRSet{A: []string{"10.0.0.1"}})
	testutil.AssertFalse(t, covered, "undetected baseline covers nothing")
}

func TestWildcardBaseline_Snapshot(t *testing.T) {
	baseline := NewWildcardBaseline()
	baseline.Absorb(RRSet{A: []string{"10.0.0.9", "10.0.0.1"}})

	snap := baseline.Snapshot()
	testutil.AssertLen(t, snap, 2, "snapshot size")
	testutil.AssertEqual(t, snap[0], "10.0.0.1", "sorted order")
}
