package dashboard

import "time"

// MaxActivityItems bounds the recent activity feed.
const MaxActivityItems = 5

// perKindActivity is how many scans and how many logs feed the activity list.
const perKindActivity = 3

// Config holds runtime knobs for the dashboard service.
type Config struct {
	DefaultTimezone string
}

// Request carries the optional query parameters of the dashboard endpoints.
type Request struct {
	Timezone string `form:"tz" json:"timezone"`
	Limit    int    `form:"limit" json:"limit"`
}

// Stats is the dashboard summary card.
type Stats struct {
	TotalScans          int `json:"totalScans"`
	TotalLogs           int `json:"totalLogs"`
	TotalReminders      int `json:"totalReminders"`
	TotalConsultations  int `json:"totalConsultations"`
	EczemaDetectedCount int `json:"eczemaDetectedCount"`
	DayStreak           int `json:"dayStreak"`
	ImprovementPercent  int `json:"improvementPercent"`
	LogsThisMonth       int `json:"logsThisMonth"`
}

// ActivityType tags a recent activity item.
type ActivityType string

const (
	ActivityScan ActivityType = "scan"
	ActivityLog  ActivityType = "log"
)

// ActivityStatus drives the badge colour of an activity item.
type ActivityStatus string

const (
	StatusSuccess ActivityStatus = "success"
	StatusInfo    ActivityStatus = "info"
	StatusWarning ActivityStatus = "warning"
)

// Activity is one entry of the recent activity feed.
type Activity struct {
	ID          string         `json:"id"`
	Type        ActivityType   `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Time        string         `json:"time"`
	Status      ActivityStatus `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
}
