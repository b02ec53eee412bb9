package timeouts

import (
	"testing"
	"time"
)

func TestConfigureKeepsZeroFields(t *testing.T) {
	t.Cleanup(Reset)

	Configure(Config{Short: 7 * time.Second})

	if Short() != 7*time.Second {
		t.Errorf("Short = %v, want 7s", Short())
	}
	if Medium() != DefaultMedium {
		t.Errorf("Medium = %v, want default %v", Medium(), DefaultMedium)
	}
}

func TestConfigureFromEnv(t *testing.T) {
	t.Cleanup(Reset)
	t.Setenv("CAREHUB_TIMEOUT_UPLOAD", "45s")
	t.Setenv("CAREHUB_TIMEOUT_PING", "bogus")
	t.Setenv("CAREHUB_TIMEOUT_LONG", "-1s")

	if n := ConfigureFromEnv(); n != 1 {
		t.Fatalf("ConfigureFromEnv applied %d values, want 1", n)
	}
	if Upload() != 45*time.Second {
		t.Errorf("Upload = %v, want 45s", Upload())
	}
	if Ping() != DefaultPing {
		t.Errorf("Ping = %v, want default", Ping())
	}
	if Long() != DefaultLong {
		t.Errorf("Long = %v, want default", Long())
	}
}
