package graph

import (
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/neurix/backend/pkg/common"

	"golang.org/x/text/cases"
)

// MatchPolicy decides how keyword values are compared when the edge rule
// intersects two keyword sets.
type MatchPolicy string

const (
	// MatchExact compares keywords byte for byte, exactly as the extractor
	// produced them.
	MatchExact MatchPolicy = "exact"
	// MatchFold compares keywords after Unicode case folding.
	MatchFold MatchPolicy = "fold"
)

// ParseMatchPolicy converts a configuration value into a MatchPolicy.
// The empty string selects MatchExact.
func ParseMatchPolicy(value string) (MatchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(MatchExact):
		return MatchExact, nil
	case string(MatchFold):
		return MatchFold, nil
	default:
		return "", fmt.Errorf("unknown keyword match policy %q", value)
	}
}

// Key returns the form of keyword used for set membership under the policy.
func (p MatchPolicy) Key(keyword string) string {
	if p == MatchFold {
		return cases.Fold().String(keyword)
	}
	return keyword
}

// Links reports whether the keyword sets of a and b intersect under the
// policy. It is the only definition of relatedness between two nodes.
func (p MatchPolicy) Links(a, b common.Node) bool {
	if len(a.Keys) == 0 || len(b.Keys) == 0 {
		return false
	}

	set := make(map[string]struct{}, len(a.Keys))
	for _, k := range a.Keys {
		set[p.Key(k)] = struct{}{}
	}
	for _, k := range b.Keys {
		if _, ok := set[p.Key(k)]; ok {
			return true
		}
	}
	return false
}

// Links reports whether a and b share at least one keyword, compared
// exactly.
func Links(a, b common.Node) bool {
	return MatchExact.Links(a, b)
}
