package timeouts

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	Reset()
	if Ping() != DefaultPing || Short() != DefaultShort || Medium() != DefaultMedium {
		t.Errorf("unexpected defaults: %+v", Current())
	}
}

func TestConfigure_IgnoresZero(t *testing.T) {
	Reset()
	defer Reset()

	Configure(Config{Short: 7 * time.Second})
	if Short() != 7*time.Second {
		t.Errorf("Short() = %v, want 7s", Short())
	}
	if Ping() != DefaultPing {
		t.Errorf("Ping() changed to %v", Ping())
	}
}

func TestConfigureFromEnv(t *testing.T) {
	Reset()
	defer Reset()

	t.Setenv("TIMEOUT_PING", "500ms")
	t.Setenv("TIMEOUT_SHORT", "bogus")
	t.Setenv("TIMEOUT_MEDIUM", "-1s")

	if n := ConfigureFromEnv(); n != 1 {
		t.Errorf("ConfigureFromEnv() = %d, want 1", n)
	}
	if Ping() != 500*time.Millisecond {
		t.Errorf("Ping() = %v, want 500ms", Ping())
	}
	if Short() != DefaultShort {
		t.Errorf("Short() = %v, want default", Short())
	}
}
