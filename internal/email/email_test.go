package email

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/opdqueue/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Deliver(ctx context.Context, msg Message) error {
	return m.Called(ctx, msg).Error(0)
}

func created() kafka.ChangeEvent {
	return kafka.ChangeEvent{
		Type: kafka.EventBookingCreated, ID: "b1", DoctorName: "Dr. A", Date: "2024-01-10",
		Slot: "09:30", TokenNumber: 7, PatientName: "Asha", PatientEmail: "asha@example.com",
	}
}

func TestSender_Send(t *testing.T) {
	transport := &MockTransport{}
	sender := NewSender(transport, nil)
	ctx := context.Background()

	transport.On("Deliver", ctx, mock.MatchedBy(func(m Message) bool {
		return m.ToEmail == "asha@example.com" && m.Subject == "OPD token #7 confirmed for 2024-01-10"
	})).Return(nil).Once()

	assert.NoError(t, sender.Send(ctx, created()))
	transport.AssertExpectations(t)
}

func TestSender_SkipsOtherEvents(t *testing.T) {
	transport := &MockTransport{}
	sender := NewSender(transport, nil)

	noEmail := created()
	noEmail.PatientEmail = ""
	status := created()
	status.Type = kafka.EventBookingStatus

	assert.NoError(t, sender.Send(context.Background(), noEmail))
	assert.NoError(t, sender.Send(context.Background(), status))
	transport.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

func TestSender_DeliveryError(t *testing.T) {
	transport := &MockTransport{}
	sender := NewSender(transport, nil)
	transport.On("Deliver", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	err := sender.Send(context.Background(), created())

	assert.ErrorContains(t, err, "booking b1")
	assert.ErrorContains(t, err, "smtp down")
}

func TestConfirmation(t *testing.T) {
	msg := Confirmation(created())
	assert.Equal(t, "Asha", msg.ToName)
	assert.Contains(t, msg.Text, "Dr. A on 2024-01-10 at 09:30")
	assert.Contains(t, msg.Text, "token number is 7")
}

func TestLogTransport(t *testing.T) {
	assert.NoError(t, NewLogTransport(zap.NewNop()).Deliver(context.Background(), Confirmation(created())))
}
