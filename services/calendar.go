package services

import (
	"context"
	"fmt"
	"time"

	"meetly/db"
	"meetly/models"

	"golang.org/x/sync/errgroup"
)

// Palette used for friend coloring. Assignment is positional: the i-th friend
// in the (unordered) query result gets palette[i%len]. Nothing pins a friend
// to a color across reloads.
var friendPalette = []string{
	"#e57373", "#64b5f6", "#81c784", "#ffd54f",
	"#ba68c8", "#4db6ac", "#f06292", "#a1887f",
}

// FriendEvents groups one friend's meetings with the positional color.
type FriendEvents struct {
	FriendID string           `json:"friend_id"`
	Color    string           `json:"color"`
	Meetings []models.Meeting `json:"meetings"`
}

// CalendarData is the aggregate for the authenticated calendar screen.
type CalendarData struct {
	OwnMeetings  []models.Meeting `json:"own_meetings"`
	FriendEvents []FriendEvents   `json:"friend_events"`
}

// CalendarDay is one merged cell of the month grid.
type CalendarDay struct {
	Date    string           `json:"date"`
	Own     []models.Meeting `json:"own"`
	Friends []FriendEvents   `json:"friends,omitempty"`
}

type CalendarService struct {
	friendships *FriendshipService
}

func NewCalendarService() *CalendarService {
	return &CalendarService{friendships: NewFriendshipService()}
}

// Aggregate runs the two reads the calendar screen needs as parallel
// independent queries: the user's own meetings, and the union of meetings
// owned by any accepted friend. Results are merged at render time only.
func (cs *CalendarService) Aggregate(ctx context.Context, session *Session) (*CalendarData, error) {
	coordinator := NewMeetingCoordinator(session)
	data := &CalendarData{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		own, err := coordinator.GetUserMeetings(gctx)
		if err != nil {
			return err
		}
		data.OwnMeetings = own
		return nil
	})
	g.Go(func() error {
		friends, err := cs.friendMeetings(gctx, session.UID)
		if err != nil {
			return err
		}
		data.FriendEvents = friends
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

func (cs *CalendarService) friendMeetings(ctx context.Context, uid string) ([]FriendEvents, error) {
	friendIDs, err := cs.friendships.AcceptedFriendIDs(ctx, uid)
	if err != nil {
		return nil, err
	}
	if len(friendIDs) == 0 {
		return []FriendEvents{}, nil
	}

	var meetings []models.Meeting
	err = db.GetReadOnlyDB(ctx).Where("user_id IN (?)", friendIDs).Find(&meetings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get friend meetings: %w", err)
	}

	byFriend := make(map[string][]models.Meeting, len(friendIDs))
	for _, m := range meetings {
		byFriend[m.UserID] = append(byFriend[m.UserID], m)
	}

	events := make([]FriendEvents, 0, len(friendIDs))
	for i, friendID := range friendIDs {
		events = append(events, FriendEvents{
			FriendID: friendID,
			Color:    friendPalette[i%len(friendPalette)],
			Meetings: byFriend[friendID],
		})
	}
	return events, nil
}

// MonthGrid lays the aggregate out over one month. Placement is exact
// date-string equality against the stored YYYY-MM-DD value; no timezone
// normalization is applied.
func MonthGrid(data *CalendarData, year int, month time.Month) []CalendarDay {
	daysIn := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	grid := make([]CalendarDay, 0, daysIn)

	for day := 1; day <= daysIn; day++ {
		date := fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
		cell := CalendarDay{Date: date}

		for _, m := range data.OwnMeetings {
			if m.Date == date {
				cell.Own = append(cell.Own, m)
			}
		}
		for _, fe := range data.FriendEvents {
			var matched []models.Meeting
			for _, m := range fe.Meetings {
				if m.Date == date {
					matched = append(matched, m)
				}
			}
			if len(matched) > 0 {
				cell.Friends = append(cell.Friends, FriendEvents{
					FriendID: fe.FriendID,
					Color:    fe.Color,
					Meetings: matched,
				})
			}
		}
		grid = append(grid, cell)
	}
	return grid
}
