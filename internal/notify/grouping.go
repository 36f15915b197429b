package notify

import (
	"fmt"
	"math"
	"sort"
	"time"

	"performance-prime/internal/models"
)

// DefaultGroupWindowHours is the grouping window.
const DefaultGroupWindowHours = 24

var groupableTypes = map[string]bool{
	models.TypeNewBooking:       true,
	models.TypeBookingConfirmed: true,
	models.TypeBookingCancelled: true,
	models.TypeNewClient:        true,
	models.TypeNewReview:        true,
}

// FeedEntry is either a single notification or a group of them. Exactly
// one of Single and Group is set.
type FeedEntry struct {
	Single *models.LiveNotification  `json:"single,omitempty"`
	Group  *models.NotificationGroup `json:"group,omitempty"`
}

// Group bundles feed notifications of the same type created within
// windowHours of the anchor notification. The scan is forward only, so
// the first notification of a burst anchors its group. Non-groupable
// types and singletons pass through unchanged.
func Group(notifications []models.LiveNotification, windowHours int) []FeedEntry {
	if len(notifications) == 0 {
		return nil
	}
	if windowHours <= 0 {
		windowHours = DefaultGroupWindowHours
	}

	result := make([]FeedEntry, 0, len(notifications))
	processed := make(map[string]bool, len(notifications))

	for i := range notifications {
		anchor := notifications[i]
		if processed[anchor.ID] {
			continue
		}

		if !groupableTypes[anchor.Type] {
			processed[anchor.ID] = true
			result = append(result, FeedEntry{Single: &notifications[i]})
			continue
		}

		members := []models.LiveNotification{anchor}
		for j := i + 1; j < len(notifications); j++ {
			other := notifications[j]
			if processed[other.ID] || other.Type != anchor.Type {
				continue
			}
			if hoursApart(anchor.CreatedAt, other.CreatedAt) <= windowHours {
				members = append(members, other)
				processed[other.ID] = true
			}
		}
		processed[anchor.ID] = true

		if len(members) == 1 {
			result = append(result, FeedEntry{Single: &notifications[i]})
			continue
		}

		sortNewestFirst(members)
		group := &models.NotificationGroup{
			ID:     fmt.Sprintf("group-%s-%d", anchor.Type, anchor.CreatedAt.Unix()),
			Type:   anchor.Type,
			Title:  GroupTitle(anchor.Type, len(members)),
			Count:  len(members),
			IsRead: allRead(members),
			Latest: members[0].CreatedAt,
			Items:  members,
		}
		result = append(result, FeedEntry{Group: group})
	}

	return result
}

// hoursApart mirrors a whole-hours difference: 24h01m apart is 24 hours
// and still inside the default window.
func hoursApart(a, b time.Time) int {
	return int(math.Abs(a.Sub(b).Hours()))
}

func sortNewestFirst(members []models.LiveNotification) {
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].CreatedAt.After(members[j].CreatedAt)
	})
}

func allRead(members []models.LiveNotification) bool {
	for _, m := range members {
		if !m.IsRead {
			return false
		}
	}
	return true
}

// GroupTitle builds the pluralized Italian title for a group.
func GroupTitle(notificationType string, count int) string {
	switch notificationType {
	case models.TypeNewBooking:
		return fmt.Sprintf("%d nuove prenotazioni", count)
	case models.TypeBookingConfirmed:
		return fmt.Sprintf("%d prenotazioni confermate", count)
	case models.TypeBookingCancelled:
		return fmt.Sprintf("%d prenotazioni cancellate", count)
	case models.TypeNewClient:
		return fmt.Sprintf("%d nuovi clienti", count)
	case models.TypeNewReview:
		return fmt.Sprintf("%d nuove recensioni", count)
	default:
		return fmt.Sprintf("%d notifiche", count)
	}
}
