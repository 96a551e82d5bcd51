package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFillFrom(t *testing.T) {
	saved := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = saved[0], saved[1], saved[2] })

	tests := []struct {
		name                     string
		preset                   [3]string
		info                     debug.BuildInfo
		wantVer, wantSHA, wantAt string
	}{
		{
			name:   "module version and vcs stamp",
			preset: [3]string{"dev", "none", "unknown"},
			info: debug.BuildInfo{
				Main: debug.Module{Version: "v1.4.0"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc123"},
					{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
				},
			},
			wantVer: "v1.4.0", wantSHA: "abc123", wantAt: "2026-01-02T03:04:05Z",
		},
		{
			name:    "devel build keeps dev",
			preset:  [3]string{"dev", "none", "unknown"},
			info:    debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			wantVer: "dev", wantSHA: "none", wantAt: "unknown",
		},
		{
			name:   "ldflags win",
			preset: [3]string{"v2.0.0", "fff", "today"},
			info: debug.BuildInfo{
				Main:     debug.Module{Version: "v1.4.0"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
			},
			wantVer: "v2.0.0", wantSHA: "fff", wantAt: "today",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, Commit, Date = tt.preset[0], tt.preset[1], tt.preset[2]
			fillFrom(&tt.info)
			if Version != tt.wantVer || Commit != tt.wantSHA || Date != tt.wantAt {
				t.Errorf("got %s/%s/%s, want %s/%s/%s", Version, Commit, Date, tt.wantVer, tt.wantSHA, tt.wantAt)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	if !strings.HasPrefix(Template(), "{{.Name}} version ") {
		t.Errorf("Template() = %q", Template())
	}
	if !strings.Contains(String(), "commit: ") {
		t.Errorf("String() = %q", String())
	}
}
