package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/Domenick1991/opdqueue/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sample() []domain.Booking {
	return []domain.Booking{
		{ID: "1", TokenNumber: 1, PatientName: "Ravi Kumar", PatientPhone: "9876543210", DoctorID: "a", DoctorName: "Dr. A", Date: "2024-01-05", Slot: "09:00", Fee: 500, PaymentMode: domain.PaymentCash, Status: domain.BookingStatusCompleted},
		{ID: "2", TokenNumber: 1, PatientName: "Meera Shah", PatientPhone: "9123456780", DoctorID: "b", DoctorName: "Dr. B", Date: "2024-01-20", Slot: "10:00", Fee: 800, PaymentMode: domain.PaymentOnline, Status: domain.BookingStatusWaiting},
		{ID: "3", TokenNumber: 2, PatientName: "Anil", PatientPhone: "9000000001", DoctorID: "a", DoctorName: "Dr. A", Date: "2024-02-01", Slot: "09:30", Fee: 500, PaymentMode: domain.PaymentOnline, Status: domain.BookingStatusAbsent},
		{ID: "4", TokenNumber: 1, PatientName: "Kiran", PatientPhone: "9000000002", DoctorID: "a", DoctorName: "Dr. A", Date: "2023-12-31", Slot: "11:00", Fee: 300, PaymentMode: domain.PaymentCash, Status: domain.BookingStatusCompleted},
	}
}

func TestBuild_MonthReport(t *testing.T) {
	r := Build(sample(), Filter{Type: FilterMonth, Value: "2024-01"}, "")

	assert.Equal(t, Totals{Revenue: 1300, Cash: 500, Online: 800, Patients: 2}, r.Summary)
	require.Len(t, r.DoctorWise, 2)
	assert.Equal(t, "Dr. A", r.DoctorWise[0].Name)
	assert.Equal(t, Totals{Revenue: 500, Cash: 500, Patients: 1}, r.DoctorWise[0].Totals)
	assert.Equal(t, "Dr. B", r.DoctorWise[1].Name)
	assert.Len(t, r.Rows, 2)
}

func TestBuild_Filters(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		search string
		ids    []string
	}{
		{"day", Filter{Type: FilterDay, Value: "2024-02-01"}, "", []string{"3"}},
		{"year", Filter{Type: FilterYear, Value: "2024"}, "", []string{"1", "2", "3"}},
		{"range inclusive", Filter{Type: FilterRange, From: "2023-12-31", To: "2024-01-05"}, "", []string{"1", "4"}},
		{"name search ignores case", Filter{Type: FilterYear, Value: "2024"}, "MEERA", []string{"2"}},
		{"phone search", Filter{Type: FilterYear, Value: "2024"}, "0000", []string{"3"}},
		{"no match", Filter{Type: FilterDay, Value: "2024-03-01"}, "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Build(sample(), tt.filter, tt.search)
			ids := []string{}
			for _, b := range r.Rows {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestBuild_Additivity(t *testing.T) {
	filters := []Filter{
		{Type: FilterYear, Value: "2024"},
		{Type: FilterYear, Value: "2023"},
		{Type: FilterMonth, Value: "2024-02"},
		{Type: FilterRange, From: "2000-01-01", To: "2099-12-31"},
	}
	for _, f := range filters {
		r := Build(sample(), f, "")
		assert.Equal(t, r.Summary.Revenue, r.Summary.Cash+r.Summary.Online)

		var revenue int64
		var patients int
		for _, d := range r.DoctorWise {
			revenue += d.Revenue
			patients += d.Patients
			assert.Equal(t, d.Revenue, d.Cash+d.Online)
		}
		assert.Equal(t, r.Summary.Revenue, revenue)
		assert.Equal(t, r.Summary.Patients, patients)
		assert.Equal(t, len(r.Rows), r.Summary.Patients)
	}
}

func TestFilter_Validate(t *testing.T) {
	valid := []Filter{
		{Type: FilterDay, Value: "2024-01-10"},
		{Type: FilterMonth, Value: "2024-01"},
		{Type: FilterYear, Value: "2024"},
		{Type: FilterRange, From: "2024-01-01", To: "2024-01-01"},
	}
	for _, f := range valid {
		assert.NoError(t, f.Validate(), f)
	}

	invalid := []Filter{
		{Type: FilterDay, Value: "2024-01"},
		{Type: FilterMonth, Value: "2024-13"},
		{Type: FilterYear, Value: "24"},
		{Type: FilterRange, From: "2024-02-01", To: "2024-01-01"},
		{Type: FilterRange, From: "2024-02-01"},
		{Type: "week", Value: "1"},
	}
	for _, f := range invalid {
		assert.ErrorIs(t, f.Validate(), domain.ErrValidation, f)
	}
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	return nil, args.Error(1)
}

func (m *MockBookingRepository) Append(ctx context.Context, booking *domain.Booking) error {
	return m.Called(ctx, booking).Error(0)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, status)
	return nil, args.Error(1)
}

func TestService_Report(t *testing.T) {
	repo := &MockBookingRepository{}
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("List", ctx, repository.BookingFilter{}).Return(sample(), nil).Once()
	r, err := svc.Report(ctx, Filter{Type: FilterMonth, Value: "2024-01"}, "  ravi ")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Summary.Patients)

	_, err = svc.Report(ctx, Filter{Type: FilterDay}, "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	repo.On("List", ctx, repository.BookingFilter{}).Return(nil, errors.New("db down")).Once()
	_, err = svc.Report(ctx, Filter{Type: FilterYear, Value: "2024"}, "")
	assert.ErrorContains(t, err, "db down")

	repo.AssertExpectations(t)
}

func TestService_Patients(t *testing.T) {
	repo := &MockBookingRepository{}
	svc := NewService(repo)
	ctx := context.Background()

	var docA []domain.Booking
	for _, b := range sample() {
		if b.DoctorID == "a" {
			docA = append(docA, b)
		}
	}
	repo.On("List", ctx, repository.BookingFilter{DoctorID: "a"}).Return(docA, nil).Once()

	rows, err := svc.Patients(ctx, "a", Filter{Type: FilterYear, Value: "2024"}, "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0].ID)
	assert.Equal(t, "3", rows[1].ID)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	bookings := sample()[:1]
	bookings[0].PatientName = "Kumar, Ravi"
	require.NoError(t, WriteCSV(&buf, bookings))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, exportHeader, records[0])
	assert.Equal(t, []string{"1", "1", "Kumar, Ravi", "Dr. A", "2024-01-05", "09:00", "500", "Cash", "Completed"}, records[1])
}

func TestXLSX(t *testing.T) {
	data, err := XLSX(sample())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("OPD Report")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, "Meera Shah", rows[2][2])
	assert.Equal(t, "800", rows[2][6])
}

func TestFileName(t *testing.T) {
	day := time.Date(2024, 1, 10, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "OPD_Report_2024-01-10.xls", FileName(FormatCSV, day))
	assert.Equal(t, "OPD_Report_2024-01-10.xlsx", FileName(FormatXLSX, day))
}
