package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MILELOG_MAPBOX_ACCESS_TOKEN", "")
	t.Setenv("MAPBOX_TOKEN", "")

	cfg, err := Load("milelog-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Map.Width != 600 || cfg.Map.Height != 400 {
		t.Errorf("map size = %dx%d, want 600x400", cfg.Map.Width, cfg.Map.Height)
	}
	if cfg.Map.PaddingPx != 48 || cfg.Map.TileSizePx != 512 {
		t.Errorf("padding/tile = %d/%d, want 48/512", cfg.Map.PaddingPx, cfg.Map.TileSizePx)
	}
	f := cfg.Map.Fitter()
	if f.MinZoom != 2 || f.MaxZoom != 16 || f.DefaultZoom != 12 {
		t.Errorf("fitter = %+v, want {2 16 12}", f)
	}
	if cfg.Mapbox.AccessToken != "" {
		t.Errorf("access token should have no default, got %q", cfg.Mapbox.AccessToken)
	}
	if cfg.Telemetry.ServiceName != "milelog-test" {
		t.Errorf("service name = %q", cfg.Telemetry.ServiceName)
	}
}

func TestLoad_TokenFromEnv(t *testing.T) {
	t.Setenv("MILELOG_MAPBOX_ACCESS_TOKEN", "pk.prefixed")
	cfg, err := Load("milelog-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Mapbox.AccessToken != "pk.prefixed" {
		t.Errorf("token = %q, want pk.prefixed", cfg.Mapbox.AccessToken)
	}
}

func TestLoad_TokenFromProviderEnv(t *testing.T) {
	t.Setenv("MILELOG_MAPBOX_ACCESS_TOKEN", "")
	t.Setenv("MAPBOX_TOKEN", "pk.bare")
	cfg, err := Load("milelog-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Mapbox.AccessToken != "pk.bare" {
		t.Errorf("token = %q, want pk.bare", cfg.Mapbox.AccessToken)
	}
}

func TestValidate_MapGeometry(t *testing.T) {
	t.Setenv("MILELOG_MAP_PADDING_PX", "300")
	_, err := Load("milelog-test")
	if err == nil {
		t.Fatal("expected validation error for padding larger than half the image")
	}
	if !strings.Contains(err.Error(), "map:") {
		t.Errorf("error should mention map section: %v", err)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Config{
		Server: ServerConfig{Port: 0, ReadTimeout: 0, WriteTimeout: 10},
		Map:    MapConfig{Width: 600, Height: 400, PaddingPx: 48, TileSizePx: 512, MinZoom: 2, MaxZoom: 16, DefaultZoom: 12},
		Mapbox: MapboxConfig{BaseURL: "https://api.mapbox.com", LightStyle: "l", DarkStyle: "d", TimeoutSeconds: 5},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"server.port", "server.read_timeout"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}
