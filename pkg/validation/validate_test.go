package validation

import (
	"strings"
	"testing"

	"convodb/pkg/models"
)

func TestValidateMessage(t *testing.T) {
	SetRules(Rules{MaxTextBytes: 16, MaxImageBytes: 64})
	t.Cleanup(func() { SetRules(Rules{}) })

	ok := models.Message{Sender: "a@x.com", Type: models.MessageText, Content: "hi"}
	if err := ValidateMessage(ok); err != nil {
		t.Fatalf("valid text rejected: %v", err)
	}

	img := models.Message{Sender: "a@x.com", Type: models.MessageImage, Content: "data:image/png;base64,AAAA"}
	if err := ValidateMessage(img); err != nil {
		t.Fatalf("valid image rejected: %v", err)
	}

	cases := []struct {
		name string
		m    models.Message
		want string
	}{
		{"missing sender", models.Message{Type: models.MessageText, Content: "hi"}, "sender is required"},
		{"missing content", models.Message{Sender: "a@x.com", Type: models.MessageText}, "content is required"},
		{"unknown type", models.Message{Sender: "a@x.com", Type: "video", Content: "x"}, "unknown message type"},
		{"oversize text", models.Message{Sender: "a@x.com", Type: models.MessageText, Content: strings.Repeat("x", 17)}, "exceeds 16 bytes"},
		{"image not data url", models.Message{Sender: "a@x.com", Type: models.MessageImage, Content: "http://x/y.png"}, "data URL"},
		{"oversize image", models.Message{Sender: "a@x.com", Type: models.MessageImage, Content: "data:" + strings.Repeat("x", 64)}, "exceeds 64 bytes"},
	}
	for _, tc := range cases {
		err := ValidateMessage(tc.m)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: error %q does not mention %q", tc.name, err, tc.want)
		}
	}
}

func TestValidateMessageUnboundedByDefault(t *testing.T) {
	SetRules(Rules{})
	long := models.Message{Sender: "a@x.com", Type: models.MessageText, Content: strings.Repeat("x", 1<<16)}
	if err := ValidateMessage(long); err != nil {
		t.Fatalf("zero rules should not bound content: %v", err)
	}
}
