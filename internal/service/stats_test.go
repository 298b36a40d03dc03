package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
)

func TestComputeStatistics_EmptyTrip(t *testing.T) {
	stats := service.ComputeStatistics(domain.Trip{})

	assert.Zero(t, stats.Stops)
	assert.Zero(t, stats.PointsOfInterest)
	assert.Zero(t, stats.TotalDays)
	assert.Equal(t, "0h 0m", stats.TotalDrivingTime)
	assert.Equal(t, "0h 0m", stats.AvgDrivingTime)
	assert.Equal(t, "0 km", stats.TotalDistance)
	assert.Equal(t, "0 km", stats.AvgDistance)
}

func TestComputeStatistics_SumsRoutes(t *testing.T) {
	trip := domain.Trip{
		Locations: []domain.Stop{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		TotalDays: 5,
		Routes: []domain.DrivingRoute{
			{DrivingTime: "1 h 30 m", Distance: "80 km"},
			{DrivingTime: "45 m", Distance: "20.5 km"},
		},
	}

	stats := service.ComputeStatistics(trip)

	assert.Equal(t, 3, stats.Stops)
	assert.Equal(t, 5, stats.TotalDays)
	assert.Equal(t, "2h 15m", stats.TotalDrivingTime)
	assert.Equal(t, "100.5 km", stats.TotalDistance)
	// 135 minutes over 2 routes rounds to 68 minutes.
	assert.Equal(t, "1h 8m", stats.AvgDrivingTime)
	assert.Equal(t, "50.25 km", stats.AvgDistance)
}

func TestComputeStatistics_ParsesProviderFormatting(t *testing.T) {
	// The OSRM adapter emits long-form units; parsing keys on the leading
	// letter so both spellings work.
	trip := domain.Trip{
		Routes: []domain.DrivingRoute{
			{DrivingTime: "2 hours 15 mins", Distance: "184 km"},
			{DrivingTime: "1 hour", Distance: "52.4 km"},
			{DrivingTime: "45 mins", Distance: "30 km"},
		},
	}

	stats := service.ComputeStatistics(trip)

	assert.Equal(t, "4h 0m", stats.TotalDrivingTime)
	assert.Equal(t, "266.4 km", stats.TotalDistance)
	assert.Equal(t, "1h 20m", stats.AvgDrivingTime)
	assert.Equal(t, "88.8 km", stats.AvgDistance)
}

func TestComputeStatistics_UnparseableComponentsCountAsZero(t *testing.T) {
	trip := domain.Trip{
		Routes: []domain.DrivingRoute{
			{DrivingTime: "unknown", Distance: "n/a"},
			{DrivingTime: "30 mins", Distance: "10 km"},
		},
	}

	stats := service.ComputeStatistics(trip)

	assert.Equal(t, "0h 30m", stats.TotalDrivingTime)
	assert.Equal(t, "10 km", stats.TotalDistance)
}

func TestComputeStatistics_CountsOnlyContentBearingPOIs(t *testing.T) {
	trip := domain.Trip{
		PointsOfInterest: []domain.PointOfInterest{
			{ID: "p1", Name: "MoMA"},
			{ID: "p2", Name: "   "},
			{ID: "p3", Name: ""},
			{ID: "p4", Name: "Fenway"},
		},
	}

	stats := service.ComputeStatistics(trip)

	assert.Equal(t, 2, stats.PointsOfInterest)
}
