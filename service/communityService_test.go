package service

import (
	"context"
	"testing"
	"time"

	"github.com/joeyave/campus-hub/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommunityService_Catalogue(t *testing.T) {
	svc := NewCommunityService()

	committees := svc.Committees()
	require.Len(t, committees, 4)
	assert.Equal(t, "Tech Committee", committees[0].Name)

	badges := svc.Badges()
	require.Len(t, badges, 8)
	ids := map[string]bool{}
	for _, b := range badges {
		ids[b.ID] = true
	}
	assert.Len(t, ids, 8)

	assert.Equal(t, "John Doe", svc.Profile().Name)
}

func TestCommunityService_UserBadges(t *testing.T) {
	badges := NewCommunityService().UserBadges("u7")
	assert.Equal(t, "u7", badges.UserID)
	assert.Equal(t, []string{"1", "2"}, badges.Badges)
	assert.Equal(t, 2, badges.TotalBadges)
}

func TestCommunityService_AwardBadge(t *testing.T) {
	svc := NewCommunityService()

	award, err := svc.AwardBadge(context.Background(), entity.BadgeAward{UserID: "u1", BadgeID: "3", Reason: "five events"})
	require.NoError(t, err)
	assert.Equal(t, "five events", award.Reason)

	_, err = svc.AwardBadge(context.Background(), entity.BadgeAward{UserID: "u1"})
	msgs := fieldMessages(t, err)
	assert.Contains(t, msgs, "badgeId")
	assert.NotContains(t, msgs, "userId")
}

func TestCommunityService_DashboardStats(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewCommunityService()
	svc.now = func() time.Time { return now }

	stats := svc.DashboardStats()
	require.Len(t, stats.RecentActivity, 3)
	assert.Equal(t, now, stats.RecentActivity[0].Timestamp)
	assert.Equal(t, now.Add(-4*time.Hour), stats.RecentActivity[1].Timestamp)
	assert.Equal(t, now.Add(-6*time.Hour), stats.RecentActivity[2].Timestamp)

	assert.Equal(t, 156, svc.MessageStats().TotalMessages)

	events := svc.EventStats()
	assert.Equal(t, 89, events.TotalRegistrations)
	require.Len(t, events.PopularEvents, 3)
	assert.Equal(t, "Tech Workshop", events.PopularEvents[0].Title)
}
