package update_test

import (
	"encoding/json"
	"testing"

	"github.com/tectonix/geoplot/pkg/update"
)

func TestNewer(t *testing.T) {
	tests := []struct {
		name string // description of this test case
		// Named input parameters for target function.
		latest  string
		current string
		want    bool
	}{
		{
			name:    "patch release ahead",
			latest:  "v1.2.1",
			current: "v1.2.0",
			want:    true,
		},
		{
			name:    "same version",
			latest:  "v1.2.0",
			current: "v1.2.0",
			want:    false,
		},
		{
			name:    "running a dev build ahead of the release",
			latest:  "v1.2.0",
			current: "v1.3.0",
			want:    false,
		},
		{
			name:    "malformed latest tag",
			latest:  "release-5",
			current: "v1.2.0",
			want:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := update.Newer(tt.latest, tt.current); got != tt.want {
				t.Errorf("Newer(%q, %q) = %v, want %v", tt.latest, tt.current, got, tt.want)
			}
		})
	}
}

func TestReleaseDecode(t *testing.T) {
	payload := `{
		"html_url": "https://github.com/tectonix/geoplot/releases/tag/v1.4.0",
		"tag_name": "v1.4.0",
		"name": "v1.4.0",
		"prerelease": false,
		"published_at": "2026-05-01T12:00:00Z",
		"body": "notes",
		"assets": [{
			"name": "geoplot-linux-amd64",
			"content_type": "application/octet-stream",
			"size": 123,
			"browser_download_url": "https://example.com/geoplot"
		}]
	}`
	var r update.Release
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		t.Fatal(err)
	}
	if r.TagName != "v1.4.0" {
		t.Errorf("tag = %q", r.TagName)
	}
	if len(r.Assets) != 1 || r.Assets[0].Name != "geoplot-linux-amd64" {
		t.Errorf("assets = %+v", r.Assets)
	}
}
