package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"carfinder-be/internal/dto"
	"carfinder-be/internal/entity"
	"carfinder-be/internal/pkg/apperror"
	"carfinder-be/pkg/ai"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatServiceForTest(aiHandler http.HandlerFunc) (IChatService, *fakeFactory, *httptest.Server) {
	factory := newFakeFactory()
	srv := httptest.NewServer(aiHandler)
	client := ai.NewClient(srv.URL, "test-key")
	return NewChatService(factory, client, nopLogger{}), factory, srv
}

func staticAiReply(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestStartSessionDefaultsName(t *testing.T) {
	svc, _, srv := newChatServiceForTest(staticAiReply(`{"answer":"hi"}`))
	defer srv.Close()

	session, err := svc.StartSession(context.Background(), uuid.New(), &dto.StartSessionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "New Chat", session.Name)

	named, err := svc.StartSession(context.Background(), uuid.New(), &dto.StartSessionRequest{Name: "Sedan hunt"})
	require.NoError(t, err)
	assert.Equal(t, "Sedan hunt", named.Name)
}

func TestSendMessageRenamesNewSession(t *testing.T) {
	svc, _, srv := newChatServiceForTest(staticAiReply(`{"answer":"sure"}`))
	defer srv.Close()
	ctx := context.Background()
	userId := uuid.New()

	session, err := svc.StartSession(ctx, userId, &dto.StartSessionRequest{})
	require.NoError(t, err)

	res, err := svc.SendMessage(ctx, userId, &dto.SendMessageRequest{
		SessionId: session.Id,
		Message:   "What SUV should I buy under 20k?",
	})
	require.NoError(t, err)
	assert.True(t, res.IsSuccess)
	assert.Equal(t, "What SUV should I buy under 20k?", res.SessionName)
	require.NotNil(t, res.UserMessage)
	require.NotNil(t, res.AiMessage)
	assert.Equal(t, entity.ChatSenderUser, res.UserMessage.Sender)
	assert.Equal(t, entity.ChatSenderAi, res.AiMessage.Sender)

	// A second message does not rename again
	res2, err := svc.SendMessage(ctx, userId, &dto.SendMessageRequest{
		SessionId: session.Id,
		Message:   "Something else entirely",
	})
	require.NoError(t, err)
	assert.Equal(t, "What SUV should I buy under 20k?", res2.SessionName)
}

func TestSendMessageTruncatesLongFirstMessage(t *testing.T) {
	svc, _, srv := newChatServiceForTest(staticAiReply(`{"answer":"ok"}`))
	defer srv.Close()
	ctx := context.Background()
	userId := uuid.New()

	session, err := svc.StartSession(ctx, userId, &dto.StartSessionRequest{})
	require.NoError(t, err)

	long := strings.Repeat("a", 250)
	res, err := svc.SendMessage(ctx, userId, &dto.SendMessageRequest{SessionId: session.Id, Message: long})
	require.NoError(t, err)
	assert.Len(t, res.SessionName, 100)
	assert.Equal(t, long[:100], res.SessionName)
}

func TestSendMessagePersistsNormalizedAiReply(t *testing.T) {
	svc, _, srv := newChatServiceForTest(staticAiReply(`{"answer":"sedan picks: Camry, Accord"}`))
	defer srv.Close()
	ctx := context.Background()
	userId := uuid.New()

	session, err := svc.StartSession(ctx, userId, &dto.StartSessionRequest{})
	require.NoError(t, err)

	res, err := svc.SendMessage(ctx, userId, &dto.SendMessageRequest{SessionId: session.Id, Message: "recommend sedans"})
	require.NoError(t, err)
	require.True(t, res.IsSuccess)

	// The reply is stored colon-truncated
	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(res.AiMessage.Message), &parsed))
	assert.Equal(t, "sedan picks", parsed["answer"])

	history, err := svc.GetChatHistory(ctx, userId, session.Id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, res.AiMessage.Message, history[1].Message)
}

func TestSendMessageCrossUserDeniedInBody(t *testing.T) {
	svc, _, srv := newChatServiceForTest(staticAiReply(`{"answer":"hi"}`))
	defer srv.Close()
	ctx := context.Background()
	owner := uuid.New()
	intruder := uuid.New()

	session, err := svc.StartSession(ctx, owner, &dto.StartSessionRequest{})
	require.NoError(t, err)

	res, err := svc.SendMessage(ctx, intruder, &dto.SendMessageRequest{SessionId: session.Id, Message: "hello"})
	require.NoError(t, err)
	assert.False(t, res.IsSuccess)
	assert.Equal(t, "You don't have access to this chat session", res.Error)
	assert.Nil(t, res.UserMessage)
	assert.Nil(t, res.AiMessage)

	// Nothing was persisted for the intruder's attempt
	history, err := svc.GetChatHistory(ctx, owner, session.Id)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSendMessageAiFailureFallsBack(t *testing.T) {
	svc, _, srv := newChatServiceForTest(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer srv.Close()
	ctx := context.Background()
	userId := uuid.New()

	session, err := svc.StartSession(ctx, userId, &dto.StartSessionRequest{})
	require.NoError(t, err)

	res, err := svc.SendMessage(ctx, userId, &dto.SendMessageRequest{SessionId: session.Id, Message: "hello"})
	require.NoError(t, err)
	assert.False(t, res.IsSuccess)
	assert.Equal(t, "AI service is unavailable", res.Error)
	require.NotNil(t, res.AiMessage)
	assert.Equal(t, "Sorry, I'm having trouble responding right now. Please try again in a moment.", res.AiMessage.Message)

	// Both the user message and the fallback are in the history
	history, err := svc.GetChatHistory(ctx, userId, session.Id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "hello", history[0].Message)
	assert.Equal(t, res.AiMessage.Message, history[1].Message)
}

func TestSendMessageLazilyCreatesSession(t *testing.T) {
	svc, _, srv := newChatServiceForTest(staticAiReply(`{"answer":"hi"}`))
	defer srv.Close()
	ctx := context.Background()
	userId := uuid.New()

	// No session id at all: a session is started on the fly
	res, err := svc.SendMessage(ctx, userId, &dto.SendMessageRequest{Message: "Find me a sedan under 20k"})
	require.NoError(t, err)
	assert.True(t, res.IsSuccess)
	assert.NotEqual(t, uuid.Nil, res.SessionId)
	assert.Equal(t, "Find me a sedan under 20k", res.SessionName)

	history, err := svc.GetChatHistory(ctx, userId, res.SessionId)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	// An id the store has never seen also starts a session, under that id
	unknown := uuid.New()
	res2, err := svc.SendMessage(ctx, userId, &dto.SendMessageRequest{SessionId: unknown, Message: "hello"})
	require.NoError(t, err)
	assert.Equal(t, unknown, res2.SessionId)
}

func TestGetSessionsNewestFirst(t *testing.T) {
	svc, _, srv := newChatServiceForTest(staticAiReply(`{"answer":"hi"}`))
	defer srv.Close()
	ctx := context.Background()
	userId := uuid.New()

	first, err := svc.StartSession(ctx, userId, &dto.StartSessionRequest{Name: "First"})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := svc.StartSession(ctx, userId, &dto.StartSessionRequest{Name: "Second"})
	require.NoError(t, err)

	// Another user's sessions never show up
	_, err = svc.StartSession(ctx, uuid.New(), &dto.StartSessionRequest{Name: "Other"})
	require.NoError(t, err)

	page, err := svc.GetSessions(ctx, userId, &dto.PaginationQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.TotalCount)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, second.Id, page.Items[0].Id)
	assert.Equal(t, first.Id, page.Items[1].Id)

	// Page size 1 splits the list
	single, err := svc.GetSessions(ctx, userId, &dto.PaginationQuery{Page: 2, PageSize: 1})
	require.NoError(t, err)
	require.Len(t, single.Items, 1)
	assert.Equal(t, first.Id, single.Items[0].Id)
	assert.Equal(t, 2, single.TotalPages)
}

func TestSearchSessionsByKeyword(t *testing.T) {
	svc, _, srv := newChatServiceForTest(staticAiReply(`{"answer":"hi"}`))
	defer srv.Close()
	ctx := context.Background()
	userId := uuid.New()

	_, err := svc.StartSession(ctx, userId, &dto.StartSessionRequest{Name: "Sedan advice"})
	require.NoError(t, err)
	_, err = svc.StartSession(ctx, userId, &dto.StartSessionRequest{Name: "SUV comparison"})
	require.NoError(t, err)

	results, err := svc.SearchSessions(ctx, userId, "sedan", &dto.PaginationQuery{})
	require.NoError(t, err)
	require.Len(t, results.Items, 1)
	assert.Equal(t, "Sedan advice", results.Items[0].Name)

	none, err := svc.SearchSessions(ctx, userId, "truck", &dto.PaginationQuery{})
	require.NoError(t, err)
	assert.Empty(t, none.Items)

	// Blank keyword falls back to the full listing
	all, err := svc.SearchSessions(ctx, userId, "  ", &dto.PaginationQuery{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
}

func TestRenameSession(t *testing.T) {
	svc, _, srv := newChatServiceForTest(staticAiReply(`{"answer":"hi"}`))
	defer srv.Close()
	ctx := context.Background()
	userId := uuid.New()

	session, err := svc.StartSession(ctx, userId, &dto.StartSessionRequest{})
	require.NoError(t, err)

	renamed, err := svc.RenameSession(ctx, userId, session.Id, "My car search")
	require.NoError(t, err)
	assert.Equal(t, "My car search", renamed.Name)

	_, err = svc.RenameSession(ctx, userId, session.Id, "   ")
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidationFailed, apperror.KindOf(err))

	_, err = svc.RenameSession(ctx, uuid.New(), session.Id, "hijack")
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidSessionAccess, apperror.KindOf(err))
}

func TestDeleteSessionCascadesMessages(t *testing.T) {
	svc, factory, srv := newChatServiceForTest(staticAiReply(`{"answer":"hi"}`))
	defer srv.Close()
	ctx := context.Background()
	userId := uuid.New()

	session, err := svc.StartSession(ctx, userId, &dto.StartSessionRequest{})
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, userId, &dto.SendMessageRequest{SessionId: session.Id, Message: "hello"})
	require.NoError(t, err)

	// Ownership is enforced before deletion
	err = svc.DeleteSession(ctx, uuid.New(), session.Id)
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidSessionAccess, apperror.KindOf(err))

	require.NoError(t, svc.DeleteSession(ctx, userId, session.Id))

	factory.store.mu.Lock()
	sessionCount := len(factory.store.sessions)
	messageCount := len(factory.store.messages)
	factory.store.mu.Unlock()
	assert.Zero(t, sessionCount)
	assert.Zero(t, messageCount)

	_, err = svc.GetChatHistory(ctx, userId, session.Id)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
