package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"meetly/api/middleware"
	"meetly/services"

	ical "github.com/arran4/golang-ical"
	"github.com/gin-gonic/gin"
)

var calendarService = services.NewCalendarService()

// GetCalendar returns the month grid: own meetings and accepted friends'
// meetings, fetched in parallel and merged by date.
func GetCalendar(c *gin.Context) {
	session := middleware.SessionFromContext(c)

	now := time.Now()
	year := now.Year()
	month := int(now.Month())
	if y := c.Query("year"); y != "" {
		if parsed, err := strconv.Atoi(y); err == nil && parsed > 0 {
			year = parsed
		}
	}
	if m := c.Query("month"); m != "" {
		if parsed, err := strconv.Atoi(m); err == nil && parsed >= 1 && parsed <= 12 {
			month = parsed
		}
	}

	data, err := calendarService.Aggregate(c.Request.Context(), session)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	grid := services.MonthGrid(data, year, time.Month(month))
	c.JSON(http.StatusOK, gin.H{
		"year":  year,
		"month": month,
		"days":  grid,
	})
}

// ExportCalendar serves the caller's meetings as an iCalendar file.
func ExportCalendar(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	coordinator := services.NewMeetingCoordinator(session)

	meetings, err := coordinator.GetUserMeetings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//meetly//calendar//EN")

	for _, m := range meetings {
		event := cal.AddEvent(fmt.Sprintf("%s@meetly", m.ID))
		event.SetCreatedTime(m.CreatedAt)
		event.SetSummary(m.Title)
		if m.Location != "" {
			event.SetLocation(m.Location)
		}

		start, serr := time.Parse("2006-01-02 15:04", m.Date+" "+m.StartTime)
		end, eerr := time.Parse("2006-01-02 15:04", m.Date+" "+m.EndTime)
		if serr != nil || eerr != nil {
			// Times are free-form strings; fall back to an all-day event.
			day, derr := time.Parse("2006-01-02", m.Date)
			if derr != nil {
				continue
			}
			event.SetAllDayStartAt(day)
			event.SetAllDayEndAt(day.AddDate(0, 0, 1))
		} else {
			event.SetStartAt(start)
			event.SetEndAt(end)
		}
	}

	c.Header("Content-Disposition", `attachment; filename="meetly.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
}
