package eczemaapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/eczema-insights/internal/domain/records"
	"github.com/yanqian/eczema-insights/pkg/requestid"
)

func newBackend(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"message":"No token provided"}`))
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientListsRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.Header.Get(requestid.Header) != "req-123" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch r.URL.Path {
		case "/api/logs":
			_, _ = w.Write([]byte(`{"success":true,"message":"Logs retrieved successfully","data":{"logs":[
				{"_id":"l1","itchinessLevel":7,"affectedArea":"Arms","possibleTriggers":"stress, dust","createdAt":"2024-07-14T09:00:00.000Z"}
			]}}`))
		case "/api/reminders":
			_, _ = w.Write([]byte(`{"success":true,"data":{"reminders":[
				{"id":"r1","title":"Cream","type":"Medication","isActive":true,"createdAt":"2024-07-01T08:00:00Z"}
			]}}`))
		case "/api/images":
			_, _ = w.Write([]byte(`{"success":true,"data":[
				{"_id":"s1","createdAt":"2024-07-10T08:00:00Z","analysisResult":{"eczema_detected":true,"confidence":0.91,"severity":"Mild"}},
				{"_id":"s2","createdAt":"2024-07-11T08:00:00Z"}
			]}`))
		case "/api/consultations":
			_, _ = w.Write([]byte(`{"success":true,"data":{"consultations":[]}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/api/", time.Second)
	ctx := requestid.WithContext(context.Background(), "req-123")
	p := records.Principal{UserID: "u1", Token: "tok"}

	logs, err := client.ListSymptomLogs(ctx, p)
	require.NoError(t, err)
	require.Equal(t, []records.SymptomLog{{
		ID:               "l1",
		UserID:           "u1",
		ItchinessLevel:   7,
		AffectedArea:     "Arms",
		PossibleTriggers: "stress, dust",
		CreatedAt:        time.Date(2024, time.July, 14, 9, 0, 0, 0, time.UTC),
	}}, logs)

	reminders, err := client.ListReminders(ctx, p)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	require.Equal(t, records.ReminderMedication, reminders[0].Type)

	scans, err := client.ListScans(ctx, p)
	require.NoError(t, err)
	require.Len(t, scans, 2)
	require.Equal(t, records.PredictionEczema, scans[0].EffectivePrediction())
	require.Equal(t, "Mild", scans[0].Severity)
	require.True(t, scans[0].Analyzed)
	require.False(t, scans[1].Analyzed)

	consultations, err := client.ListConsultations(ctx, p)
	require.NoError(t, err)
	require.NotNil(t, consultations)
	require.Empty(t, consultations)
}

func TestClientUnauthorized(t *testing.T) {
	srv := newBackend(t, map[string]string{"/logs": `{"success":true,"data":{"logs":[]}}`})
	client := NewClient(srv.URL, time.Second)

	_, err := client.ListSymptomLogs(context.Background(), records.Principal{UserID: "u1", Token: "wrong"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnauthorized))
	require.ErrorIs(t, err, records.ErrUnauthorized)
}

func TestClientCapsResponseBody(t *testing.T) {
	huge := "[" + strings.Repeat(" ", maxResponseBytes) + "]"
	srv := newBackend(t, map[string]string{"/logs": huge})
	client := NewClient(srv.URL, 5*time.Second)

	_, err := client.ListSymptomLogs(context.Background(), records.Principal{UserID: "u1", Token: "tok"})
	require.ErrorIs(t, err, errResponseTooLarge)
}

func TestClientUpstreamFailure(t *testing.T) {
	srv := newBackend(t, map[string]string{
		"/reminders": `{"success":false,"message":"database unavailable"}`,
	})
	client := NewClient(srv.URL, time.Second)
	p := records.Principal{UserID: "u1", Token: "tok"}

	_, err := client.ListReminders(context.Background(), p)
	require.ErrorContains(t, err, "database unavailable")

	_, err = client.ListScans(context.Background(), p)
	require.ErrorContains(t, err, "status=404")
}

func TestDecodeListShapes(t *testing.T) {
	tests := map[string]string{
		"bare array":     `[{"id":"a"}]`,
		"data array":     `{"success":true,"data":[{"id":"a"}]}`,
		"data keyed":     `{"success":true,"data":{"logs":[{"id":"a"}]}}`,
		"data nested":    `{"data":{"data":[{"id":"a"}]}}`,
		"top level keys": `{"success":true,"logs":[{"id":"a"}]}`,
	}
	for name, body := range tests {
		items, err := decodeList[apiLog]([]byte(body), "logs")
		require.NoError(t, err, name)
		require.Len(t, items, 1, name)
		require.Equal(t, "a", items[0].value(), name)
	}

	empty, err := decodeList[apiLog]([]byte(`{"success":true,"data":null}`), "logs")
	require.NoError(t, err)
	require.Empty(t, empty)

	_, err = decodeList[apiLog]([]byte(`{not json`), "logs")
	require.Error(t, err)
}
