package entity

import "time"

type Committee struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MemberCount int    `json:"memberCount"`
	Category    string `json:"category"`
}

type Profile struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	Avatar           string `json:"avatar"`
	Phone            string `json:"phone"`
	Bio              string `json:"bio"`
	EventsAttended   int    `json:"eventsAttended"`
	CommitteesJoined int    `json:"committeesJoined"`
	Achievements     int    `json:"achievements"`
}

type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Requirement string `json:"requirement"`
	Category    string `json:"category"`
}

type BadgeAward struct {
	UserID  string `json:"userId" validate:"required"`
	BadgeID string `json:"badgeId" validate:"required"`
	Reason  string `json:"reason"`
}

type UserBadges struct {
	UserID      string   `json:"userId"`
	Badges      []string `json:"badges"`
	TotalBadges int      `json:"totalBadges"`
}

type Activity struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Icon      string    `json:"icon"`
}

type DashboardStats struct {
	TotalEvents      int         `json:"totalEvents"`
	NewMembers       int         `json:"newMembers"`
	TotalImpressions int         `json:"totalImpressions"`
	BadgesAwarded    int         `json:"badgesAwarded"`
	MessagesSent     int         `json:"messagesSent"`
	ActiveCommittees int         `json:"activeCommittees"`
	RecentActivity   []*Activity `json:"recentActivity"`
}

type MessageStats struct {
	TotalMessages       int `json:"totalMessages"`
	AvgResponseTime     int `json:"avgResponseTime"`
	ActiveConversations int `json:"activeConversations"`
	UnreadMessages      int `json:"unreadMessages"`
}

type PopularEvent struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Registrations int    `json:"registrations"`
}

type EventStats struct {
	TotalEvents        int             `json:"totalEvents"`
	UpcomingEvents     int             `json:"upcomingEvents"`
	TotalRegistrations int             `json:"totalRegistrations"`
	PopularEvents      []*PopularEvent `json:"popularEvents"`
}
