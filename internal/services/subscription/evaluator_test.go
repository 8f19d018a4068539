package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/caseconnect/casetracker/internal/models"
)

var testNow = time.Date(2025, 8, 28, 12, 0, 0, 0, time.UTC)

func subEnding(end time.Time) *models.UserSubscription {
	return &models.UserSubscription{
		StartDate: end.AddDate(0, -3, 0),
		EndDate:   end,
	}
}

func TestIsSubscriptionActive(t *testing.T) {
	tests := []struct {
		name string
		role string
		sub  *models.UserSubscription
		want bool
	}{
		{"client without subscription", models.RoleClient, nil, true},
		{"superadmin without subscription", models.RoleSuperAdmin, nil, true},
		{"client with expired subscription", models.RoleClient, subEnding(testNow.AddDate(0, -1, 0)), true},
		{"advocate without subscription", models.RoleAdvocate, nil, false},
		{"advocate with future end date", models.RoleAdvocate, subEnding(testNow.AddDate(0, 1, 0)), true},
		{"advocate expiring exactly now", models.RoleAdvocate, subEnding(testNow), false},
		{"advocate with past end date", models.RoleAdvocate, subEnding(testNow.AddDate(0, 0, -1)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSubscriptionActive(tt.role, tt.sub, testNow))
		})
	}
}

func TestDaysRemaining(t *testing.T) {
	tests := []struct {
		name string
		sub  *models.UserSubscription
		want int
	}{
		{"no subscription", nil, 0},
		{"expired", subEnding(testNow.Add(-time.Hour)), 0},
		{"expiring exactly now", subEnding(testNow), 0},
		{"one hour left rounds up to one day", subEnding(testNow.Add(time.Hour)), 1},
		{"exactly one day", subEnding(testNow.Add(24 * time.Hour)), 1},
		{"one day and one hour rounds up to two", subEnding(testNow.Add(25 * time.Hour)), 2},
		{"thirty days", subEnding(testNow.Add(30 * 24 * time.Hour)), 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysRemaining(tt.sub, testNow))
		})
	}
}

func TestHasFuturePlan(t *testing.T) {
	tests := []struct {
		name string
		sub  *models.UserSubscription
		want bool
	}{
		{"no subscription", nil, false},
		{"started in the past", &models.UserSubscription{StartDate: testNow.AddDate(0, 0, -10)}, false},
		{"starts exactly now", &models.UserSubscription{StartDate: testNow}, false},
		{"starts in the future", &models.UserSubscription{StartDate: testNow.AddDate(0, 0, 10)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasFuturePlan(tt.sub, testNow))
		})
	}
}

func TestCanPurchaseNewPlan(t *testing.T) {
	tests := []struct {
		name          string
		active        bool
		daysRemaining int
		want          bool
	}{
		{"inactive subscription", false, 0, true},
		{"active with more than a week left", true, 30, false},
		{"active with exactly a week left", true, 7, true},
		{"active expiring tomorrow", true, 1, true},
		{"active with eight days left", true, 8, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanPurchaseNewPlan(tt.active, tt.daysRemaining))
		})
	}
}
