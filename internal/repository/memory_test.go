package repository

import (
	"context"
	"testing"

	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Doctors(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := store.Doctors()

	require.NoError(t, repo.Save(ctx, &domain.Doctor{ID: "1", Name: "A"}))
	require.NoError(t, repo.Save(ctx, &domain.Doctor{ID: "2", Name: "B"}))
	require.NoError(t, repo.Save(ctx, &domain.Doctor{ID: "1", Name: "A2"}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A2", list[0].Name)

	d, err := repo.GetByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "B", d.Name)

	require.NoError(t, repo.Delete(ctx, "1"))
	_, err = repo.GetByID(ctx, "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "1"), domain.ErrDoctorNotFound)
}

func TestMemoryStore_Bookings(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := store.Bookings()

	a := domain.Booking{ID: "a", DoctorID: "d", Date: "2024-01-10", Slot: "09:00", TokenNumber: 1, Status: domain.BookingStatusWaiting}
	b := domain.Booking{ID: "b", DoctorID: "d", Date: "2024-01-11", Slot: "09:00", TokenNumber: 1, Status: domain.BookingStatusWaiting}
	require.NoError(t, repo.Append(ctx, &a))
	require.NoError(t, repo.Append(ctx, &b))

	day, err := repo.List(ctx, BookingFilter{DoctorID: "d", Date: "2024-01-10"})
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, "a", day[0].ID)

	all, err := repo.List(ctx, BookingFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	updated, err := repo.UpdateStatus(ctx, "a", domain.BookingStatusAbsent)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusAbsent, updated.Status)

	_, err = repo.UpdateStatus(ctx, "missing", domain.BookingStatusAbsent)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestMemoryStore_AppendRejectsRaces(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStore().Bookings()

	first := domain.Booking{ID: "a", DoctorID: "d", Date: "2024-01-10", Slot: "09:00", TokenNumber: 1, Status: domain.BookingStatusWaiting}
	require.NoError(t, repo.Append(ctx, &first))

	sameToken := domain.Booking{ID: "b", DoctorID: "d", Date: "2024-01-10", Slot: "09:30", TokenNumber: 1, Status: domain.BookingStatusWaiting}
	assert.ErrorIs(t, repo.Append(ctx, &sameToken), domain.ErrBookingInProgress)

	sameSlot := domain.Booking{ID: "c", DoctorID: "d", Date: "2024-01-10", Slot: "09:00", TokenNumber: 2, Status: domain.BookingStatusWaiting}
	assert.ErrorIs(t, repo.Append(ctx, &sameSlot), domain.ErrSlotTaken)

	_, err := repo.UpdateStatus(ctx, "a", domain.BookingStatusAbsent)
	require.NoError(t, err)
	assert.NoError(t, repo.Append(ctx, &sameSlot))

	// Status updates are plain overwrites: reviving "a" into the rebooked slot is allowed.
	revived, err := repo.UpdateStatus(ctx, "a", domain.BookingStatusWaiting)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusWaiting, revived.Status)
}

func TestMemoryStore_InquiriesAndReset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Inquiries().Append(ctx, &domain.ContactInquiry{ID: "i1"}))
	require.NoError(t, store.Doctors().Save(ctx, &domain.Doctor{ID: "1"}))
	require.NoError(t, store.Bookings().Append(ctx, &domain.Booking{ID: "b1", TokenNumber: 1}))

	assert.ErrorIs(t, store.Inquiries().Delete(ctx, "nope"), domain.ErrInquiryNotFound)

	require.NoError(t, store.ResetAll(ctx))
	docs, _ := store.Doctors().List(ctx)
	bookings, _ := store.Bookings().List(ctx, BookingFilter{})
	inquiries, _ := store.Inquiries().List(ctx)
	assert.Empty(t, docs)
	assert.Empty(t, bookings)
	assert.Empty(t, inquiries)
}
