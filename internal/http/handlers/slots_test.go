package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smiledental/clinic-platform/internal/clinicdata"
)

func slotsFor(t *testing.T, h *SlotsHandler, target string) []string {
	t.Helper()
	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, target, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var slots []string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &slots))
	return slots
}

func TestSlotsFullTableWithoutParams(t *testing.T) {
	h := NewSlotsHandler(clinicdata.NewStore(&clinicdata.Document{}))

	slots := slotsFor(t, h, "/api/available-slots")
	assert.Len(t, slots, 13)
	assert.Equal(t, "09:00 AM", slots[0])
	assert.Equal(t, "05:00 PM", slots[12])
}

func TestSlotsExcludeConfirmedBookings(t *testing.T) {
	h := NewSlotsHandler(clinicdata.NewStore(&clinicdata.Document{Appointments: []clinicdata.Appointment{
		{ID: 1, Date: "2024-03-01", Doctor: "Dr. Sarah Wilson", Time: "10:00 AM", Status: clinicdata.StatusConfirmed},
		{ID: 2, Date: "2024-03-01", Doctor: "Dr. Sarah Wilson", Time: "02:30 PM", Status: clinicdata.StatusPending},
		{ID: 3, Date: "2024-03-01", Doctor: "Dr. Anjali Sharma", Time: "03:00 PM", Status: clinicdata.StatusConfirmed},
		{ID: 4, Date: "2024-03-02", Doctor: "Dr. Sarah Wilson", Time: "04:00 PM", Status: clinicdata.StatusConfirmed},
	}}))

	slots := slotsFor(t, h, "/api/available-slots?date=2024-03-01&doctor=Dr.+Sarah+Wilson")
	assert.Len(t, slots, 12)
	assert.NotContains(t, slots, "10:00 AM", "confirmed booking blocks the slot")
	assert.Contains(t, slots, "02:30 PM", "pending bookings do not block")
	assert.Contains(t, slots, "03:00 PM", "other doctors do not block")
	assert.Contains(t, slots, "04:00 PM", "other dates do not block")
}
