package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/opdqueue/config"
	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/Domenick1991/opdqueue/internal/events"
	"github.com/Domenick1991/opdqueue/internal/live"
	"github.com/Domenick1991/opdqueue/internal/repository"
	"github.com/Domenick1991/opdqueue/internal/service/booking"
	"github.com/Domenick1991/opdqueue/internal/service/queue"
	"github.com/Domenick1991/opdqueue/internal/service/report"
	"github.com/Domenick1991/opdqueue/internal/service/roster"
	"github.com/Domenick1991/opdqueue/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	router *gin.Engine
	clock  time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ts := &testServer{clock: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)}
	prev := now
	now = func() time.Time { return ts.clock }
	t.Cleanup(func() { now = prev })

	store := repository.NewMemoryStore()
	hub := live.NewHub(time.Hour, zap.NewNop())
	bus := events.NewBus(events.WithListener(hub))
	guard := session.NewGuard(session.NewMemoryStore(), map[domain.Scope]session.Policy{
		domain.ScopeAdmin:       {Secret: "admin123", Timeout: 30 * time.Minute},
		domain.ScopeDoctors:     {Secret: "admin123", Timeout: 30 * time.Minute},
		domain.ScopeInquiries:   {Secret: "admin123", Timeout: 30 * time.Minute},
		domain.ScopeFinancials:  {Secret: "admin123", Timeout: 30 * time.Minute},
		domain.ScopeLiveDisplay: {Secret: "hall", Timeout: time.Hour},
	}, session.WithClock(func() time.Time { return ts.clock }))

	rosterSvc := roster.NewService(store, bus)
	bookingSvc := booking.NewBookingService(store.Doctors(), store.Bookings(), bus)
	projector := queue.NewProjector(store.Doctors(), store.Bookings())

	ts.router = NewRouter(config.HTTPConfig{}, guard, Handlers{
		Sessions:  NewSessionHandler(guard),
		Bookings:  NewBookingHandler(bookingSvc),
		Doctors:   NewDoctorHandler(rosterSvc),
		Inquiries: NewInquiryHandler(rosterSvc),
		Queue:     NewQueueHandler(projector, hub, queue.Limits{Waiting: 4, Absent: 3}),
		Reports:   NewReportHandler(report.NewService(store.Bookings())),
		Admin:     NewAdminHandler(rosterSvc),
	}, zap.NewNop())
	return ts
}

func (ts *testServer) do(method, path, holder string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if holder != "" {
		req.Header.Set(SessionHeader, holder)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) login(t *testing.T, scope domain.Scope, password string) string {
	t.Helper()
	w := ts.do("POST", "/api/sessions/"+string(scope), "", loginRequest{Password: password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Active)
	assert.Contains(t, w.Header().Get("Set-Cookie"), SessionCookie+"="+resp.Holder)
	return resp.Holder
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestRouter_BookingFlow(t *testing.T) {
	ts := newTestServer(t)

	doctors := decode[[]domain.Doctor](t, ts.do("GET", "/api/doctors", "", nil))
	require.Len(t, doctors, 6)

	av := decode[booking.Availability](t, ts.do("GET", "/api/doctors/1/availability?date=2024-01-10", "", nil))
	require.NotEmpty(t, av.Slots)
	slot := av.Slots[0].Time

	req := booking.CreateBookingInput{
		PatientName: "Asha", PatientPhone: "98765 43210", DoctorID: "1",
		Date: "2024-01-10", Slot: slot, PaymentMode: domain.PaymentOnline,
	}
	w := ts.do("POST", "/api/bookings", "", req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[bookingResponse](t, w)
	assert.Equal(t, 1, created.TokenNumber)

	w = ts.do("POST", "/api/bookings", "", req)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "SLOT_TAKEN")

	// Staff routes need the admin scope.
	w = ts.do("POST", "/api/bookings/"+created.ID+"/call", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	admin := ts.login(t, domain.ScopeAdmin, "admin123")
	w = ts.do("POST", "/api/bookings/"+created.ID+"/call", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	board := decode[queue.Board](t, ts.do("GET", "/api/queue/1", admin, nil))
	require.NotNil(t, board.Current)
	assert.Equal(t, created.ID, board.Current.ID)

	w = ts.do("POST", "/api/bookings/"+created.ID+"/finish", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.do("POST", "/api/bookings/"+created.ID+"/absent", admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TRANSITION")

	// Other scopes are not implied by admin.
	w = ts.do("GET", "/api/reports?type=day&value=2024-01-10", admin, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	fin := ts.login(t, domain.ScopeFinancials, "admin123")
	r := decode[report.Report](t, ts.do("GET", "/api/reports?type=month&value=2024-01", fin, nil))
	assert.Equal(t, int64(500), r.Summary.Revenue)
	assert.Equal(t, int64(500), r.Summary.Online)

	w = ts.do("GET", "/api/reports/export?type=year&value=2024", fin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="OPD_Report_2024-01-10.xls"`, w.Header().Get("Content-Disposition"))
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Booking ID,Token,Patient Name"))
}

func TestRouter_SessionExpiry(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.login(t, domain.ScopeAdmin, "admin123")

	w := ts.do("GET", "/api/bookings", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	ts.clock = ts.clock.Add(31 * time.Minute)
	w = ts.do("GET", "/api/bookings", admin, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_ERROR")

	st := decode[sessionResponse](t, ts.do("GET", "/api/sessions/admin", admin, nil))
	assert.False(t, st.Active)
}

func TestRouter_Sessions(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do("POST", "/api/sessions/admin", "", loginRequest{Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do("POST", "/api/sessions/root", "", loginRequest{Password: "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	holder := ts.login(t, domain.ScopeDoctors, "admin123")
	w = ts.do("POST", "/api/sessions/inquiries", holder, loginRequest{Password: "admin123"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, holder, decode[sessionResponse](t, w).Holder)

	w = ts.do("DELETE", "/api/sessions/doctors", holder, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do("DELETE", "/api/doctors/1", holder, nil).Code)
	assert.Equal(t, http.StatusOK, ts.do("GET", "/api/inquiries", holder, nil).Code)

	w = ts.do("DELETE", "/api/sessions", holder, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do("GET", "/api/inquiries", holder, nil).Code)
}

func TestRouter_DoctorsAndInquiries(t *testing.T) {
	ts := newTestServer(t)
	staff := ts.login(t, domain.ScopeDoctors, "admin123")

	w := ts.do("POST", "/api/doctors", staff, domain.Doctor{Name: "Dr. New", Specialty: "ENT", Timing: "10:00-12:00", Fee: 400})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[domain.Doctor](t, w)
	assert.True(t, created.IsActive)

	w = ts.do("PATCH", "/api/doctors/"+created.ID+"/active", staff, map[string]bool{"active": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[domain.Doctor](t, w).IsActive)

	w = ts.do("POST", "/api/bookings", "", booking.CreateBookingInput{
		PatientName: "A", PatientPhone: "9876543210", DoctorID: created.ID,
		Date: "2024-01-10", Slot: "10:00", PaymentMode: domain.PaymentCash,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do("POST", "/api/doctors", staff, domain.Doctor{Name: "", Specialty: "ENT", Timing: "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name", decode[errorResponse](t, w).Field)

	assert.Equal(t, http.StatusNoContent, ts.do("DELETE", "/api/doctors/"+created.ID, staff, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do("GET", "/api/doctors/"+created.ID, "", nil).Code)

	w = ts.do("POST", "/api/inquiries", "", domain.ContactInquiry{Name: "A", Email: "a@b.co", Subject: "Hello"})
	require.Equal(t, http.StatusCreated, w.Code)
	inq := decode[domain.ContactInquiry](t, w)

	desk := ts.login(t, domain.ScopeInquiries, "admin123")
	list := decode[[]domain.ContactInquiry](t, ts.do("GET", "/api/inquiries", desk, nil))
	assert.Len(t, list, 1)
	assert.Equal(t, http.StatusNoContent, ts.do("DELETE", "/api/inquiries/"+inq.ID, desk, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do("DELETE", "/api/inquiries/"+inq.ID, desk, nil).Code)
}

func TestRouter_HallAndReset(t *testing.T) {
	ts := newTestServer(t)
	_ = ts.do("GET", "/api/doctors", "", nil)

	for i, slot := range []string{"09:00", "09:10", "09:20", "09:30", "09:40", "09:50"} {
		w := ts.do("POST", "/api/bookings", "", booking.CreateBookingInput{
			PatientName: "P", PatientPhone: "9876543210", DoctorID: "1",
			Date: "2024-01-10", Slot: slot, PaymentMode: domain.PaymentCash,
		})
		require.Equal(t, http.StatusCreated, w.Code, "booking %d: %s", i, w.Body.String())
	}

	assert.Equal(t, http.StatusUnauthorized, ts.do("GET", "/api/hall", "", nil).Code)
	display := ts.login(t, domain.ScopeLiveDisplay, "hall")
	hall := decode[queue.Hall](t, ts.do("GET", "/api/hall", display, nil))
	assert.Equal(t, "2024-01-10", hall.Date)
	require.Len(t, hall.Boards, 6)
	assert.Len(t, hall.Boards[0].Waiting, 4)

	// Live display outlasts the 30 minute scopes.
	ts.clock = ts.clock.Add(45 * time.Minute)
	assert.Equal(t, http.StatusOK, ts.do("GET", "/api/hall", display, nil).Code)

	admin := ts.login(t, domain.ScopeAdmin, "admin123")
	assert.Equal(t, http.StatusNoContent, ts.do("POST", "/api/admin/reset", admin, nil).Code)
	bookings := decode[[]bookingResponse](t, ts.do("GET", "/api/bookings", admin, nil))
	assert.Empty(t, bookings)
}

func TestCorsConfig(t *testing.T) {
	open := corsConfig(config.HTTPConfig{})
	assert.True(t, open.AllowAllOrigins)
	assert.False(t, open.AllowCredentials)

	locked := corsConfig(config.HTTPConfig{AllowedOrigins: []string{"https://clinic.example"}})
	assert.Equal(t, []string{"https://clinic.example"}, locked.AllowOrigins)
	assert.True(t, locked.AllowCredentials)
}
