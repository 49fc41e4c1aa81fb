package logger

import (
	"bytes"
	"strings"
	"testing"
)

type bufferCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufferCloser) Close() error {
	b.closed = true
	return nil
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		input string
		level Level
		ok    bool
	}{
		{"trace", LevelTrace, true},
		{"DBG", LevelDebug, true},
		{"info", LevelInfo, true},
		{"wrn", LevelWarn, true},
		{"error", LevelError, true},
		{"critical", LevelCritical, true},
		{"off", LevelOff, true},
		{"verbose", LevelInfo, false},
	}
	for _, test := range tests {
		level, ok := LevelFromString(test.input)
		if level != test.level || ok != test.ok {
			t.Errorf("LevelFromString(%q): got (%s, %t), want (%s, %t)",
				test.input, level, ok, test.level, test.ok)
		}
	}
}

func TestBackendFiltersByWriterLevel(t *testing.T) {
	backend := NewBackendWithFlags(0)
	infoWriter := &bufferCloser{}
	errorWriter := &bufferCloser{}
	if err := backend.AddLogWriter(infoWriter, LevelInfo); err != nil {
		t.Fatalf("AddLogWriter: %s", err)
	}
	if err := backend.AddLogWriter(errorWriter, LevelError); err != nil {
		t.Fatalf("AddLogWriter: %s", err)
	}
	if err := backend.Run(); err != nil {
		t.Fatalf("Run: %s", err)
	}
	if err := backend.AddLogWriter(&bufferCloser{}, LevelInfo); err == nil {
		t.Fatalf("AddLogWriter: expected an error once the backend is running")
	}

	log := backend.Logger("TEST")
	log.SetLevel(LevelDebug)
	log.Tracef("dropped by the logger level")
	log.Debugf("dropped by the writer level")
	log.Infof("block %d assembled", 7)
	log.Errorf("something failed")
	backend.Close()

	infoOutput := infoWriter.String()
	if strings.Contains(infoOutput, "dropped") {
		t.Errorf("unexpected filtered line in output: %s", infoOutput)
	}
	if !strings.Contains(infoOutput, "[INF] TEST: block 7 assembled\n") {
		t.Errorf("missing info line in output: %s", infoOutput)
	}
	if strings.Contains(errorWriter.String(), "assembled") {
		t.Errorf("error writer got an info line: %s", errorWriter.String())
	}
	if !strings.Contains(errorWriter.String(), "[ERR] TEST: something failed") {
		t.Errorf("missing error line in output: %s", errorWriter.String())
	}
	if !infoWriter.closed || !errorWriter.closed {
		t.Errorf("writers were not closed with the backend")
	}
}

func TestLoggerWithoutRunningBackend(t *testing.T) {
	backend := NewBackendWithFlags(0)
	log := backend.Logger("IDLE")
	for i := 0; i < 2*logsBuffer; i++ {
		log.Infof("line %d", i)
	}
}

func TestParseAndSetDebugLevels(t *testing.T) {
	defer SetLogLevels("info")

	if err := ParseAndSetDebugLevels("debug"); err != nil {
		t.Fatalf("ParseAndSetDebugLevels: %s", err)
	}
	for _, subsystem := range SupportedSubsystems() {
		log, _ := Get(subsystem)
		if log.Level() != LevelDebug {
			t.Errorf("subsystem %s: got level %s, want %s", subsystem, log.Level(), LevelDebug)
		}
	}

	if err := ParseAndSetDebugLevels("POWS=trace,CHGN=warn"); err != nil {
		t.Fatalf("ParseAndSetDebugLevels: %s", err)
	}
	powLog, _ := Get(SubsystemTags.POWS)
	if powLog.Level() != LevelTrace {
		t.Errorf("POWS: got level %s, want %s", powLog.Level(), LevelTrace)
	}

	invalid := []string{"loud", "POWS", "NOPE=info", "POWS=loud"}
	for _, debugLevel := range invalid {
		if err := ParseAndSetDebugLevels(debugLevel); err == nil {
			t.Errorf("ParseAndSetDebugLevels(%q): expected an error", debugLevel)
		}
	}
}
