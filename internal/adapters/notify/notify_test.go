package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"consumer_trends/internal/domain"
)

func alertTable() *domain.Table {
	t := domain.NewTable("category", "delta")
	t.Append(map[string]string{"category": "air_fryer", "delta": "0.35"})
	return t
}

func TestNewMailer_Validates(t *testing.T) {
	if _, err := NewMailer("", 587, "", "", "a@b.c", []string{"x@y.z"}); err == nil {
		t.Fatal("expected error for empty host")
	}
	if _, err := NewMailer("smtp.example.com", 587, "", "", "", nil); err == nil {
		t.Fatal("expected error without sender and recipients")
	}
	m, err := NewMailer("smtp.example.com", 587, "bot@example.com", "pw", "", []string{"ops@example.com"})
	if err != nil {
		t.Fatalf("new mailer: %v", err)
	}
	if m.from != "bot@example.com" {
		t.Fatalf("sender should default to the smtp user, got %q", m.from)
	}
}

func TestMailer_MessageWithAttachment(t *testing.T) {
	m, err := NewMailer("smtp.example.com", 587, "", "", "bot@example.com", []string{"ops@example.com"})
	if err != nil {
		t.Fatalf("new mailer: %v", err)
	}
	msg, err := m.message("Rapid Sentiment Spike Alert", "Please find the attached sentiment spike report.", alertTable())
	if err != nil {
		t.Fatalf("message: %v", err)
	}
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Rapid Sentiment Spike Alert", "ops@example.com", AttachmentName} {
		if !strings.Contains(out, want) {
			t.Fatalf("message missing %q:\n%s", want, out)
		}
	}
}

func TestMailer_MessageWithoutAttachment(t *testing.T) {
	m, _ := NewMailer("smtp.example.com", 587, "", "", "bot@example.com", []string{"ops@example.com"})
	msg, err := m.message("Rapid Sentiment Update", "No major weekly rapid sentiment spikes or trend shifts detected.", domain.NewTable("category"))
	if err != nil {
		t.Fatalf("message: %v", err)
	}
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if strings.Contains(buf.String(), AttachmentName) {
		t.Fatal("empty table should not be attached")
	}
}

func TestEncodeCSV(t *testing.T) {
	b, err := EncodeCSV(alertTable())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := string(b); got != "category,delta\nair_fryer,0.35\n" {
		t.Fatalf("unexpected csv %q", got)
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := LogNotifier{L: zerolog.New(&buf)}
	if err := n.Send(context.Background(), "Reddit Data Failed", "boom", alertTable()); err != nil {
		t.Fatalf("send: %v", err)
	}
	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if ev["subject"] != "Reddit Data Failed" || ev["rows"] != float64(1) {
		t.Fatalf("unexpected log event %v", ev)
	}
}
