package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, false, true)
	defer Setup(&bytes.Buffer{}, false, true)

	log.Debug().Msg("hidden")
	log.Info().Int("count", 3).Msg("[test] shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %s", out)
	}
	if !strings.Contains(out, `"count":3`) || !strings.Contains(out, `"message":"[test] shown"`) {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestSetupVerbose(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, true, false)
	defer Setup(&bytes.Buffer{}, false, true)

	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("level = %s, want debug", zerolog.GlobalLevel())
	}
	log.Debug().Msg("[test] detail")
	if !strings.Contains(buf.String(), "[test] detail") {
		t.Errorf("debug line missing: %q", buf.String())
	}
}

func TestNewRun(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, false, true)
	defer Setup(&bytes.Buffer{}, false, true)

	id, logger := NewRun()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("run id %q: %v", id, err)
	}
	logger.Info().Msg("tagged")
	if !strings.Contains(buf.String(), `"run":"`+id+`"`) {
		t.Errorf("run field missing: %s", buf.String())
	}
}
