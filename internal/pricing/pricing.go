// Package pricing holds the fixed session price table and the station-count
// options each booking mode offers. Everything here is a pure lookup.
package pricing

import (
	"slices"

	"github.com/casccoach/platform/backend/internal/domain"
)

// Currency is the ISO code every price in the table is expressed in.
const Currency = "GBP"

type key struct {
	mode        domain.Mode
	sessionType domain.SessionType
	groupSize   int
	stations    int
}

// Group rows key on group size and leave sessionType empty; individual rows
// key on sessionType and leave groupSize zero.
var table = map[key]int{
	{domain.ModeIndividual, domain.SessionTypeMock, 0, 4}:     200,
	{domain.ModeIndividual, domain.SessionTypeMock, 0, 8}:     350,
	{domain.ModeIndividual, domain.SessionTypeLearning, 0, 1}: 60,
	{domain.ModeIndividual, domain.SessionTypeLearning, 0, 2}: 110,
	{domain.ModeIndividual, domain.SessionTypeLearning, 0, 3}: 150,
	{domain.ModeGroup, "", 2, 1}:                              45,
	{domain.ModeGroup, "", 2, 2}:                              80,
	{domain.ModeGroup, "", 2, 3}:                              110,
	{domain.ModeGroup, "", 3, 1}:                              35,
	{domain.ModeGroup, "", 3, 2}:                              60,
	{domain.ModeGroup, "", 3, 3}:                              85,
}

var (
	mockStations     = []int{4, 8}
	standardStations = []int{1, 2, 3}
	groupSizes       = []int{2, 3}
)

// Price returns the price of a session, or 0 when the inputs are incomplete
// or the combination is not offered. 0 means "not yet quotable".
//
// sessionType only applies to individual sessions and groupSize only to group
// sessions; the other parameter is ignored.
func Price(mode domain.Mode, sessionType domain.SessionType, groupSize, stations int) int {
	k := key{mode: mode, stations: stations}
	switch mode {
	case domain.ModeIndividual:
		k.sessionType = sessionType
	case domain.ModeGroup:
		k.groupSize = groupSize
	default:
		return 0
	}
	return table[k]
}

// PriceOf returns the price of a persisted booking.
func PriceOf(b domain.Booking) int {
	return Price(b.SessionMode.Mode(), b.SessionType, b.GroupSize, b.Stations)
}

// StationOptions returns the station counts a candidate may pick, in display
// order. Individual mock exams come in 4 or 8 stations; every other session
// offers 1 to 3.
func StationOptions(mode domain.Mode, sessionType domain.SessionType) []int {
	if mode == domain.ModeIndividual && sessionType == domain.SessionTypeMock {
		return slices.Clone(mockStations)
	}
	return slices.Clone(standardStations)
}

// GroupSizes returns the group sizes on offer, including the booking candidate.
func GroupSizes() []int {
	return slices.Clone(groupSizes)
}

// ValidGroupSize reports whether n is a group size on offer.
func ValidGroupSize(n int) bool {
	return slices.Contains(groupSizes, n)
}

// ValidStationCount reports whether n is one of StationOptions(mode, sessionType).
func ValidStationCount(mode domain.Mode, sessionType domain.SessionType, n int) bool {
	return slices.Contains(StationOptions(mode, sessionType), n)
}
