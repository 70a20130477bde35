package logger

import "testing"

func TestNewReturnsLogger(t *testing.T) {
	for _, env := range []string{"dev", "production", ""} {
		t.Setenv("APP_ENV", env)
		log := New("test")
		if log == nil {
			t.Fatalf("nil logger for APP_ENV=%q", env)
		}
		// Smoke the full interface.
		log.Debugf("debug %d", 1)
		log.Debugw("debug", map[string]any{"k": "v"})
		log.Infof("info")
		log.Warnf("warn")
		log.Errorf("error")
	}
}

func TestNopLogger(t *testing.T) {
	var log Logger = NopLogger{}
	log.Debugf("ignored")
	log.Debugw("ignored", nil)
	log.Infof("ignored")
	log.Warnf("ignored")
	log.Errorf("ignored")
}
