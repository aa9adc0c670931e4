package progress

// Config holds runtime knobs for the progress service.
type Config struct {
	DefaultPeriod    Period
	DefaultTimezone  string
	FlareUpThreshold int
	FlareUpMonths    int
	ReminderMonths   int
}

func (c Config) options(period Period) Options {
	return Options{
		Period:           period,
		FlareUpThreshold: c.FlareUpThreshold,
		FlareUpMonths:    c.FlareUpMonths,
		ReminderMonths:   c.ReminderMonths,
	}
}
