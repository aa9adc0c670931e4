package eczemaapi

import (
	"strings"
	"time"

	"github.com/yanqian/eczema-insights/internal/domain/records"
)

// Documents may carry either "id" or the raw Mongo "_id".
type apiID struct {
	ID      string `json:"id"`
	MongoID string `json:"_id"`
}

func (a apiID) value() string {
	if a.ID != "" {
		return a.ID
	}
	return a.MongoID
}

type apiLog struct {
	apiID
	ItchinessLevel   int       `json:"itchinessLevel"`
	AffectedArea     string    `json:"affectedArea"`
	PossibleTriggers string    `json:"possibleTriggers"`
	AdditionalNotes  string    `json:"additionalNotes"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (l apiLog) toRecord(userID string) records.SymptomLog {
	return records.SymptomLog{
		ID:               l.value(),
		UserID:           userID,
		ItchinessLevel:   l.ItchinessLevel,
		AffectedArea:     l.AffectedArea,
		PossibleTriggers: l.PossibleTriggers,
		AdditionalNotes:  l.AdditionalNotes,
		CreatedAt:        l.CreatedAt,
	}
}

type apiReminder struct {
	apiID
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r apiReminder) toRecord(userID string) records.Reminder {
	return records.Reminder{
		ID:        r.value(),
		UserID:    userID,
		Title:     r.Title,
		Type:      records.ReminderType(strings.ToLower(strings.TrimSpace(r.Type))),
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
	}
}

type apiAnalysis struct {
	Prediction     string  `json:"prediction"`
	EczemaDetected bool    `json:"eczema_detected"`
	Confidence     float64 `json:"confidence"`
	Severity       string  `json:"severity"`
}

type apiImage struct {
	apiID
	Analyzed       bool         `json:"analyzed"`
	AnalysisResult *apiAnalysis `json:"analysisResult"`
	CreatedAt      time.Time    `json:"createdAt"`
}

func (i apiImage) toRecord(userID string) records.Scan {
	scan := records.Scan{
		ID:        i.value(),
		UserID:    userID,
		Analyzed:  i.Analyzed || i.AnalysisResult != nil,
		CreatedAt: i.CreatedAt,
	}
	if a := i.AnalysisResult; a != nil {
		scan.Prediction = a.Prediction
		scan.Eczema = a.EczemaDetected
		scan.Confidence = a.Confidence
		scan.Severity = a.Severity
	}
	return scan
}

type apiConsultation struct {
	apiID
	ConsultationType string    `json:"consultationType"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (c apiConsultation) toRecord(userID string) records.Consultation {
	return records.Consultation{
		ID:        c.value(),
		UserID:    userID,
		Type:      c.ConsultationType,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
	}
}
