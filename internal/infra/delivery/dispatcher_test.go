package delivery

import (
	"context"
	"errors"
	"io"
	"testing"

	"case_notification_service/internal/domain/notification"
	"case_notification_service/internal/domain/push"
	"case_notification_service/internal/infra/ws"

	"github.com/go-redis/redismock/v8"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPermissions struct {
	states map[int64]notification.PermissionState
}

func (s *stubPermissions) Status(subscriberID int64) notification.PermissionState {
	if state, ok := s.states[subscriberID]; ok {
		return state
	}
	return notification.PermissionDefault
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newDispatcherFixture(states map[int64]notification.PermissionState) (*Dispatcher, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	logger := testLogger()
	return NewDispatcher(
		NewWorkerChannel(db),
		NewPageChannel(ws.NewHub(logger)),
		&stubPermissions{states: states},
		logger,
	), mock
}

func TestDispatcher_NonGrantedRecipientIsSilentNoop(t *testing.T) {
	d, mock := newDispatcherFixture(map[int64]notification.PermissionState{
		42: notification.PermissionDenied,
	})

	err := d.Deliver(context.Background(), notification.Message{TaskID: 1, Recipient: 42})

	require.NoError(t, err)
	// No channel was touched at all.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatcher_PrefersWorkerPathWhenActive(t *testing.T) {
	d, mock := newDispatcherFixture(map[int64]notification.PermissionState{
		42: notification.PermissionGranted,
	})

	msg := notification.Message{
		ID:        "n-1",
		TaskID:    1,
		Kind:      notification.KindDueDate,
		Tier:      notification.TierWarning,
		Title:     "عنوان",
		Body:      "نص",
		URL:       "/tasks/1",
		Recipient: 42,
	}
	raw, err := push.Payload{
		Title:     msg.Title,
		Body:      msg.Body,
		URL:       msg.URL,
		Recipient: msg.Recipient,
		Kind:      string(msg.Kind),
		Tier:      string(msg.Tier),
	}.Encode()
	require.NoError(t, err)

	mock.ExpectExists(push.HeartbeatKey).SetVal(1)
	mock.ExpectPublish(push.Channel, raw).SetVal(1)

	require.NoError(t, d.Deliver(context.Background(), msg))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatcher_FallsBackToPageWhenWorkerInactive(t *testing.T) {
	d, mock := newDispatcherFixture(map[int64]notification.PermissionState{
		42: notification.PermissionGranted,
	})

	mock.ExpectExists(push.HeartbeatKey).SetVal(0)

	// The recipient has no live websocket either, so the page path errors.
	err := d.Deliver(context.Background(), notification.Message{TaskID: 1, Recipient: 42})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ws.ErrNotConnected))
}

func TestDispatcher_FirmWideMessageSkipsPermissionCheck(t *testing.T) {
	// Recipient 0 is the firm-wide channel; no permission state exists for it,
	// yet delivery is still attempted.
	d, mock := newDispatcherFixture(nil)

	mock.ExpectExists(push.HeartbeatKey).SetVal(0)

	err := d.Deliver(context.Background(), notification.Message{TaskID: 1, Recipient: 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ws.ErrNotConnected))
}
