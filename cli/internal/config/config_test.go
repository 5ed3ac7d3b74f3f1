package config

import "testing"

func TestCheckVersion(t *testing.T) {
	cfg := &Config{RequiredVersion: ">= 0.2.0, < 1.0.0"}

	if err := cfg.CheckVersion("0.2.0"); err != nil {
		t.Errorf("0.2.0 should satisfy the constraint: %v", err)
	}
	if err := cfg.CheckVersion("0.9.3"); err != nil {
		t.Errorf("0.9.3 should satisfy the constraint: %v", err)
	}
	if err := cfg.CheckVersion("0.1.0"); err == nil {
		t.Error("0.1.0 must be rejected")
	}
	if err := cfg.CheckVersion("1.0.0"); err == nil {
		t.Error("1.0.0 must be rejected")
	}

	empty := &Config{}
	if err := empty.CheckVersion("0.0.1"); err != nil {
		t.Errorf("no constraint means any version: %v", err)
	}

	bad := &Config{RequiredVersion: "not-a-constraint"}
	if err := bad.CheckVersion("0.2.0"); err == nil {
		t.Error("invalid constraint must error")
	}
}

func TestDriverName(t *testing.T) {
	cases := map[string]string{
		"postgresql": "postgres",
		"postgres":   "postgres",
		"mysql":      "mysql",
		"sqlite":     "sqlite3",
	}
	for dialect, want := range cases {
		cfg := &Config{Dialect: dialect}
		got, err := cfg.DriverName()
		if err != nil {
			t.Errorf("DriverName(%q) failed: %v", dialect, err)
			continue
		}
		if got != want {
			t.Errorf("DriverName(%q) = %q, want %q", dialect, got, want)
		}
	}

	if _, err := (&Config{Dialect: "mssql"}).DriverName(); err == nil {
		t.Error("unsupported dialect must error")
	}
}
