package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewJSONCarriesServiceField(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug", "json")
	log.Info().Str("component", "test").Msg("hello")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["service"] != "classroom-backend" {
		t.Errorf("service = %v", entry["service"])
	}
	if entry["message"] != "hello" {
		t.Errorf("message = %v", entry["message"])
	}
}

func TestNewFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	_ = New(&buf, "nonsense", "json")
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("global level = %v, want info", zerolog.GlobalLevel())
	}
}
