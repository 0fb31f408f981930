package models

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultScanConfig(t *testing.T) {
	cfg := DefaultScanConfig("/photos")

	if !cfg.IncludeSubdirectories {
		t.Error("expected subdirectories to be included by default")
	}
	if cfg.SimilarityThreshold != 90 {
		t.Errorf("threshold = %v, want 90", cfg.SimilarityThreshold)
	}
	if cfg.Algorithm != AlgorithmBoth {
		t.Errorf("algorithm = %q, want both", cfg.Algorithm)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestNormalize(t *testing.T) {
	dir := t.TempDir()
	cfg := ScanConfig{
		ScanPath:           dir,
		ExcludedFolders:    []string{filepath.Join(dir, "raw") + "/", ""},
		ExcludedExtensions: []string{".GIF", " png ", ""},
	}

	got, err := cfg.Normalize()
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if len(got.ExcludedFolders) != 1 || got.ExcludedFolders[0] != filepath.Join(dir, "raw") {
		t.Errorf("excluded folders = %v", got.ExcludedFolders)
	}
	if len(got.ExcludedExtensions) != 2 || !got.IsExcludedExtension("gif") || !got.IsExcludedExtension("png") {
		t.Errorf("excluded extensions = %v", got.ExcludedExtensions)
	}
	if got.Algorithm != AlgorithmBoth {
		t.Errorf("empty algorithm should default to both, got %q", got.Algorithm)
	}
	if cfg.ExcludedExtensions[0] != ".GIF" {
		t.Error("Normalize must not modify the receiver")
	}
}

func TestNormalize_RelativeExcludedFolder(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	got, err := ScanConfig{
		ScanPath:        "./photos",
		ExcludedFolders: []string{"./photos/raw", "photos/../photos/tmp/"},
	}.Normalize()
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if want := filepath.Join(cwd, "photos"); got.ScanPath != want {
		t.Errorf("scan path = %q, want %q", got.ScanPath, want)
	}
	want := []string{filepath.Join(cwd, "photos", "raw"), filepath.Join(cwd, "photos", "tmp")}
	if len(got.ExcludedFolders) != len(want) {
		t.Fatalf("excluded folders = %v, want %v", got.ExcludedFolders, want)
	}
	for i := range want {
		if got.ExcludedFolders[i] != want[i] {
			t.Errorf("excluded folder %d = %q, want %q", i, got.ExcludedFolders[i], want[i])
		}
		if !got.IsExcludedFolder(want[i]) {
			t.Errorf("%q should be excluded", want[i])
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*ScanConfig)
		wantErr bool
	}{
		{"valid", func(c *ScanConfig) {}, false},
		{"empty path", func(c *ScanConfig) { c.ScanPath = "" }, true},
		{"threshold below 0", func(c *ScanConfig) { c.SimilarityThreshold = -1 }, true},
		{"threshold above 100", func(c *ScanConfig) { c.SimilarityThreshold = 100.5 }, true},
		{"threshold 0", func(c *ScanConfig) { c.SimilarityThreshold = 0 }, false},
		{"threshold 100", func(c *ScanConfig) { c.SimilarityThreshold = 100 }, false},
		{"negative min size", func(c *ScanConfig) { c.MinFileSize = -1 }, true},
		{"max below min", func(c *ScanConfig) { c.MinFileSize = 100; c.MaxFileSize = 10 }, true},
		{"max equals min", func(c *ScanConfig) { c.MinFileSize = 100; c.MaxFileSize = 100 }, false},
		{"unknown algorithm", func(c *ScanConfig) { c.Algorithm = "fuzzy" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultScanConfig("/photos")
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSizeAllowed(t *testing.T) {
	cfg := ScanConfig{MinFileSize: 10, MaxFileSize: 20}
	tests := []struct {
		size int64
		want bool
	}{
		{9, false},
		{10, true},
		{20, true},
		{21, false},
	}
	for _, tt := range tests {
		if got := cfg.SizeAllowed(tt.size); got != tt.want {
			t.Errorf("SizeAllowed(%d) = %v, want %v", tt.size, got, tt.want)
		}
	}

	if !(ScanConfig{}).SizeAllowed(1 << 40) {
		t.Error("zero bounds should allow any size")
	}
}

func TestSimilarityGroup_Keep(t *testing.T) {
	a := &ImageFingerprint{FilePath: "/a.jpg", Size: 100}
	b := &ImageFingerprint{FilePath: "/b.jpg", Size: 200}
	c := &ImageFingerprint{FilePath: "/c.jpg", Size: 300}

	g := &SimilarityGroup{Images: []*ImageFingerprint{a, b, c}, RecommendedKeep: "/b.jpg"}
	if g.Keep() != b {
		t.Errorf("Keep() = %v, want b", g.Keep().FilePath)
	}
	if got := g.SpaceSaved(); got != 400 {
		t.Errorf("SpaceSaved() = %d, want 400", got)
	}

	g.RecommendedKeep = ""
	if g.Keep() != a {
		t.Error("without a recommendation the first image is kept")
	}
	if removable := g.Removable(); len(removable) != 2 || removable[0] != b || removable[1] != c {
		t.Errorf("Removable() = %v", removable)
	}
	if got := PotentialSpaceSaved([]*SimilarityGroup{g, g}); got != 1000 {
		t.Errorf("PotentialSpaceSaved = %d, want 1000", got)
	}
}

func TestScanStatus_Terminal(t *testing.T) {
	for _, s := range []ScanStatus{StatusCompleted, StatusCancelled, StatusError} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []ScanStatus{StatusScanning, StatusHashing, StatusComparing} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
