package service

import (
	"context"
	"time"

	"github.com/joeyave/campus-hub/entity"
	"github.com/joeyave/campus-hub/helpers"
	"github.com/rs/zerolog"
)

// CommunityService serves the static community catalogue: committees, badges,
// the member profile and the admin dashboards.
type CommunityService struct {
	now func() time.Time
}

func NewCommunityService() *CommunityService {
	return &CommunityService{now: time.Now}
}

func (s *CommunityService) Committees() []*entity.Committee {
	return []*entity.Committee{
		{
			ID:          "1",
			Name:        "Tech Committee",
			Description: "Responsible for organizing tech events, workshops, and hackathons. We focus on promoting technology and innovation within the community.",
			MemberCount: 15,
			Category:    "Technology",
		},
		{
			ID:          "2",
			Name:        "Cultural Committee",
			Description: "Organizes cultural events, festivals, and performances. We celebrate diversity and promote cultural awareness.",
			MemberCount: 22,
			Category:    "Culture",
		},
		{
			ID:          "3",
			Name:        "Sports Committee",
			Description: "Manages sports events, tournaments, and fitness activities. We promote healthy living and team spirit.",
			MemberCount: 18,
			Category:    "Sports",
		},
		{
			ID:          "4",
			Name:        "Social Welfare Committee",
			Description: "Organizes community service activities, charity events, and social awareness campaigns.",
			MemberCount: 12,
			Category:    "Social",
		},
	}
}

func (s *CommunityService) Profile() *entity.Profile {
	return &entity.Profile{
		ID:               "1",
		Name:             "John Doe",
		Email:            "john.doe@example.com",
		Role:             "Committee Member",
		Avatar:           "https://i.pravatar.cc/150?img=1",
		Phone:            "+1 234 567 8900",
		Bio:              "Active member of the tech committee, passionate about web development and event organization.",
		EventsAttended:   12,
		CommitteesJoined: 2,
		Achievements:     5,
	}
}

func (s *CommunityService) Badges() []*entity.Badge {
	return []*entity.Badge{
		{ID: "1", Name: "First Event", Description: "Attended your first event", Icon: "event", Requirement: "Attend any event to earn this badge", Category: "Participation"},
		{ID: "2", Name: "Committee Member", Description: "Joined your first committee", Icon: "groups", Requirement: "Join any committee to earn this badge", Category: "Community"},
		{ID: "3", Name: "Active Participant", Description: "Participated in 5 events", Icon: "star", Requirement: "Attend 5 events to earn this badge", Category: "Participation"},
		{ID: "4", Name: "Team Player", Description: "Joined 3 committees", Icon: "people", Requirement: "Join 3 committees to earn this badge", Category: "Community"},
		{ID: "5", Name: "Social Butterfly", Description: "Sent 10 messages", Icon: "chat", Requirement: "Send 10 messages to earn this badge", Category: "Communication"},
		{ID: "6", Name: "Profile Complete", Description: "Completed your profile", Icon: "person", Requirement: "Complete all profile fields to earn this badge", Category: "Profile"},
		{ID: "7", Name: "Event Organizer", Description: "Helped organize an event", Icon: "event_available", Requirement: "Be assigned as event organizer by admin", Category: "Leadership"},
		{ID: "8", Name: "Volunteer", Description: "Volunteered for community service", Icon: "volunteer_activism", Requirement: "Participate in volunteer activities", Category: "Service"},
	}
}

// AwardBadge acknowledges an award. Awards are not persisted yet.
func (s *CommunityService) AwardBadge(ctx context.Context, award entity.BadgeAward) (*entity.BadgeAward, error) {
	if err := helpers.Validate(award); err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("userId", award.UserID).Str("badgeId", award.BadgeID).Msg("Badge awarded")
	return &award, nil
}

func (s *CommunityService) UserBadges(userID string) *entity.UserBadges {
	badges := []string{"1", "2"}
	return &entity.UserBadges{
		UserID:      userID,
		Badges:      badges,
		TotalBadges: len(badges),
	}
}

func (s *CommunityService) DashboardStats() *entity.DashboardStats {
	now := s.now().UTC()
	return &entity.DashboardStats{
		TotalEvents:      12,
		NewMembers:       8,
		TotalImpressions: 15420,
		BadgesAwarded:    25,
		MessagesSent:     156,
		ActiveCommittees: 4,
		RecentActivity: []*entity.Activity{
			{ID: "1", Type: "event_created", Message: `New event "Tech Workshop" created`, Timestamp: now, Icon: "event"},
			{ID: "2", Type: "member_joined", Message: "New member John Doe joined", Timestamp: now.Add(-4 * time.Hour), Icon: "person_add"},
			{ID: "3", Type: "badge_awarded", Message: `Badge "First Event" awarded to Jane Smith`, Timestamp: now.Add(-6 * time.Hour), Icon: "emoji_events"},
		},
	}
}

func (s *CommunityService) MessageStats() *entity.MessageStats {
	return &entity.MessageStats{
		TotalMessages:       156,
		AvgResponseTime:     12,
		ActiveConversations: 8,
		UnreadMessages:      3,
	}
}

func (s *CommunityService) EventStats() *entity.EventStats {
	return &entity.EventStats{
		TotalEvents:        12,
		UpcomingEvents:     5,
		TotalRegistrations: 89,
		PopularEvents: []*entity.PopularEvent{
			{ID: "1", Title: "Tech Workshop", Registrations: 45},
			{ID: "2", Title: "Cultural Night", Registrations: 32},
			{ID: "3", Title: "Sports Tournament", Registrations: 28},
		},
	}
}
