package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "")
	t.Setenv("BOOKING_OPEN_HOUR", "")
	t.Setenv("BOOKING_CLOSE_HOUR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Timezone != "Europe/Paris" {
		t.Fatalf("expected default timezone, got %q", cfg.App.Timezone)
	}
	if cfg.App.Location().String() != "Europe/Paris" {
		t.Fatalf("expected resolved location, got %s", cfg.App.Location())
	}
	if cfg.Booking.Enabled() {
		t.Fatal("opening hours should be disabled by default")
	}
	if cfg.Notification.QueueKey == "" {
		t.Fatal("expected a default queue key")
	}
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Mars/Olympus")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestLoadBookingHours(t *testing.T) {
	tests := []struct {
		name    string
		open    string
		close   string
		wantErr bool
	}{
		{"office hours", "8", "20", false},
		{"inverted", "20", "8", true},
		{"past midnight", "8", "25", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_TIMEZONE", "UTC")
			t.Setenv("BOOKING_OPEN_HOUR", tt.open)
			t.Setenv("BOOKING_CLOSE_HOUR", tt.close)
			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !cfg.Booking.Enabled() {
				t.Fatal("expected opening hours enabled")
			}
		})
	}
}

func TestRequestTimeout(t *testing.T) {
	if (AppConfig{RequestTimeoutSeconds: 0}).RequestTimeout() != 0 {
		t.Fatal("zero seconds should disable the timeout")
	}
	if got := (AppConfig{RequestTimeoutSeconds: 5}).RequestTimeout().Seconds(); got != 5 {
		t.Fatalf("expected 5s, got %v", got)
	}
}

func TestLoadAuthThrottleAndPostgresName(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("APP_NAME", "rooms-test")
	t.Setenv("AUTH_LOGIN_PER_MINUTE", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.LoginPerMinute != 0 {
		t.Fatalf("expected throttle disabled, got %d", cfg.Auth.LoginPerMinute)
	}
	if cfg.Postgres.ApplicationName != "rooms-test" {
		t.Fatalf("application name = %q", cfg.Postgres.ApplicationName)
	}
}
