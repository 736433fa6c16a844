package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/creator-bot/pkg/logger"
)

type mockAnswerer struct {
	mock.Mock
}

func (m *mockAnswerer) AnswerCallback(ctx context.Context, callbackID string) error {
	args := m.Called(ctx, callbackID)
	return args.Error(0)
}

type capturingHandler struct {
	ctx     context.Context
	updates []telebot.Update
}

func (h *capturingHandler) Handle(ctx context.Context, update telebot.Update) error {
	h.ctx = ctx
	h.updates = append(h.updates, update)
	return nil
}

func TestProcessor_AnswersCallbacksBeforeDispatch(t *testing.T) {
	answerer := &mockAnswerer{}
	answerer.On("AnswerCallback", mock.Anything, "cb-1").Return(errUpstream).Once()
	handler := &capturingHandler{}

	p := NewProcessor(handler, answerer, nil)
	require.NoError(t, p.Process(context.Background(), callbackUpdate(testChatID, "stats")))

	answerer.AssertExpectations(t)
	require.Len(t, handler.updates, 1)
	assert.NotEmpty(t, logger.CorrelationIDFromContext(handler.ctx))
}

func TestProcessor_KeepsExistingCorrelationID(t *testing.T) {
	answerer := &mockAnswerer{}
	handler := &capturingHandler{}

	ctx := logger.WithCorrelationID(context.Background(), "req-1")
	p := NewProcessor(handler, answerer, nil)
	require.NoError(t, p.Process(ctx, textUpdate(testChatID, "/start")))

	answerer.AssertNotCalled(t, "AnswerCallback", mock.Anything, mock.Anything)
	assert.Equal(t, "req-1", logger.CorrelationIDFromContext(handler.ctx))
}
