package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMessage_WireShape(t *testing.T) {
	b, err := json.Marshal(NewMessage(RoleUser, "hello"))
	require.NoError(t, err)
	require.JSONEq(t, `{"role":"user","parts":[{"text":"hello"}]}`, string(b))
}

func TestMessageText(t *testing.T) {
	require.Equal(t, "hi", NewMessage(RoleModel, "hi").Text())
	require.Equal(t, "", Message{Role: RoleModel}.Text())
	require.Equal(t, "ab", Message{Parts: []Part{{Text: "a"}, {Text: "b"}}}.Text())
}

func TestChatRequest_WireShape(t *testing.T) {
	req := ChatRequest{
		SessionID: "s-1",
		History:   []Message{},
		Body:      ChatBody{Text: "hello"},
	}
	b, err := json.Marshal(req)
	require.NoError(t, err)
	require.JSONEq(t, `{"sessionId":"s-1","history":[],"body":{"text":"hello"}}`, string(b))
}

func TestFeedbackRecord_ThumbsDownShape(t *testing.T) {
	b, err := json.Marshal(NewThumbsDown("too vague", "What is stress?", "It depends."))
	require.NoError(t, err)
	require.JSONEq(t, `{
		"thumbsdown": true,
		"reason": "too vague",
		"originalQuestion": "What is stress?",
		"aiAnswer": "It depends."
	}`, string(b))
}

func TestFeedbackRecord_ThumbsUpShape(t *testing.T) {
	b, err := json.Marshal(NewThumbsUp("q", "a"))
	require.NoError(t, err)
	require.JSONEq(t, `{"thumbsup":true,"originalQuestion":"q","aiAnswer":"a"}`, string(b))
}

func TestFeedbackRecord_Validate(t *testing.T) {
	cases := []struct {
		name     string
		rec      FeedbackRecord
		wantErr  bool
		polarity Polarity
	}{
		{name: "up", rec: FeedbackRecord{ThumbsUp: true}, polarity: PolarityUp},
		{name: "down", rec: FeedbackRecord{ThumbsDown: true, Reason: "x"}, polarity: PolarityDown},
		{name: "both", rec: FeedbackRecord{ThumbsUp: true, ThumbsDown: true}, wantErr: true, polarity: PolarityUp},
		{name: "neither", rec: FeedbackRecord{Reason: "x"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rec.Validate()
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tc.polarity, tc.rec.Polarity())
		})
	}
}
