package records

import "time"

// ReminderType enumerates the reminder categories the backend accepts.
type ReminderType string

const (
	ReminderMedication  ReminderType = "medication"
	ReminderAppointment ReminderType = "appointment"
	ReminderCustom      ReminderType = "custom"
)

// SymptomLog is a single symptom entry. Read-only in this service.
type SymptomLog struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId,omitempty"`
	ItchinessLevel   int       `json:"itchinessLevel"`
	AffectedArea     string    `json:"affectedArea,omitempty"`
	PossibleTriggers string    `json:"possibleTriggers,omitempty"`
	AdditionalNotes  string    `json:"additionalNotes,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Reminder is a medication, appointment or custom reminder.
type Reminder struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId,omitempty"`
	Title     string       `json:"title,omitempty"`
	Type      ReminderType `json:"type"`
	IsActive  bool         `json:"isActive"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Scan is a skin photo together with its analysis outcome.
type Scan struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId,omitempty"`
	Prediction string    `json:"prediction,omitempty"`
	Eczema     bool      `json:"eczemaDetected"`
	Severity   string    `json:"severity,omitempty"`
	Confidence float64   `json:"confidence"`
	Analyzed   bool      `json:"analyzed"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Scan predictions produced by the analysis model.
const (
	PredictionEczema    = "Eczema"
	PredictionNormal    = "Normal"
	PredictionUncertain = "Uncertain"
)

// EffectivePrediction returns the three-state prediction, deriving it from
// the legacy eczema flag for scans analysed before predictions existed.
func (s Scan) EffectivePrediction() string {
	if s.Prediction != "" {
		return s.Prediction
	}
	if s.Eczema {
		return PredictionEczema
	}
	return PredictionNormal
}

// Consultation is a booked doctor consultation.
type Consultation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	Type      string    `json:"consultationType,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Principal identifies whose records are read. Token is the caller's bearer
// token, forwarded to sources that call the backend on the user's behalf.
type Principal struct {
	UserID string
	Token  string
}

// Snapshot is every record of one user as fetched at FetchedAt.
type Snapshot struct {
	UserID        string         `json:"userId"`
	Logs          []SymptomLog   `json:"logs"`
	Reminders     []Reminder     `json:"reminders"`
	Scans         []Scan         `json:"scans"`
	Consultations []Consultation `json:"consultations"`
	FetchedAt     time.Time      `json:"fetchedAt"`
}
