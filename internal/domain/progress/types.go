package progress

import "time"

// Defaults used when Options leaves a knob at zero.
const (
	DefaultFlareUpThreshold = 7
	DefaultFlareUpMonths    = 5
	DefaultReminderMonths   = 6
	MaxTriggerCategories    = 6
)

// Request is the query accepted by Service.Metrics.
type Request struct {
	Period   int    `form:"period" json:"period"`
	Timezone string `form:"tz" json:"timezone"`
}

// Options tunes Compute.
type Options struct {
	Period           Period
	FlareUpThreshold int
	FlareUpMonths    int
	ReminderMonths   int
}

// DerivedMetrics is the chart-ready progress view. It is never persisted.
type DerivedMetrics struct {
	Period                 Period          `json:"period"`
	Timezone               string          `json:"timezone"`
	GeneratedAt            time.Time       `json:"generatedAt"`
	LogCount               int             `json:"logCount"`
	AverageItchiness       float64         `json:"averageItchiness"`
	ItchinessChangePercent *int            `json:"itchinessChangePercent"`
	CurrentStreakDays      int             `json:"currentStreakDays"`
	DaysLoggedCount        int             `json:"daysLoggedCount"`
	DaysLoggedPercent      int             `json:"daysLoggedPercent"`
	FlareUpsThisMonth      int             `json:"flareUpsThisMonth"`
	ImprovementPercent     int             `json:"improvementPercent"`
	UniqueTriggers         int             `json:"uniqueTriggers"`
	ItchinessTrend         []TrendPoint    `json:"itchinessTrend"`
	MonthlyFlareUps        []MonthlyCount  `json:"monthlyFlareUps"`
	TriggerBreakdown       []TriggerShare  `json:"triggerBreakdown"`
	ReminderSeries         []ReminderMonth `json:"reminderSeries"`
	ReminderStats          ReminderStats   `json:"reminderStats"`
	Achievements           []Achievement   `json:"achievements"`
}

// TrendPoint is one log on the itchiness chart.
type TrendPoint struct {
	Date  string `json:"date"`
	Level int    `json:"level"`
}

// MonthlyCount is a per-month counter. Month is the short English name,
// Key is YYYY-MM.
type MonthlyCount struct {
	Month string `json:"month"`
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// TriggerShare is one slice of the trigger pie chart.
type TriggerShare struct {
	Category string `json:"name"`
	Percent  int    `json:"value"`
	Count    int    `json:"count"`
	Color    string `json:"color"`
}

// ReminderMonth splits reminders created in a month by active state.
type ReminderMonth struct {
	Month    string `json:"month"`
	Key      string `json:"key"`
	Total    int    `json:"total"`
	Active   int    `json:"active"`
	Inactive int    `json:"inactive"`
}

// ReminderStats totals reminders by state and type.
type ReminderStats struct {
	Total    int            `json:"total"`
	Active   int            `json:"active"`
	Inactive int            `json:"inactive"`
	ByType   ReminderByType `json:"byType"`
}

// ReminderByType counts reminders per records.ReminderType.
type ReminderByType struct {
	Medication  int `json:"medication"`
	Appointment int `json:"appointment"`
	Custom      int `json:"custom"`
}

// Achievement is a milestone badge with progress towards Target.
type Achievement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Earned      bool       `json:"earned"`
	Progress    int        `json:"progress"`
	Target      int        `json:"target"`
	EarnedAt    *time.Time `json:"earnedAt,omitempty"`
}
