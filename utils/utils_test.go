package utils

import "testing"

func TestGenerateIDLength(t *testing.T) {
	for _, n := range []int{1, 10, 14} {
		if got := GenerateID(n); len(got) != n {
			t.Errorf("GenerateID(%d) returned %d chars", n, len(got))
		}
	}
}

func TestFormatSize(t *testing.T) {
	cases := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}
	for _, tc := range cases {
		if got := FormatSize(tc.bytes); got != tc.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tc.bytes, got, tc.want)
		}
	}
}

func TestSplitTags(t *testing.T) {
	got := SplitTags(" Release, beta ,RELEASE,,hotfix ")
	want := []string{"release", "beta", "hotfix"}
	if len(got) != len(want) {
		t.Fatalf("SplitTags returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SplitTags returned %v, want %v", got, want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"setup v2.exe", "setup_v2.exe"},
		{"../../etc/passwd", "passwd"},
		{"report-final.pdf", "report-final.pdf"},
		{"résumé.pdf", "r_sum_.pdf"},
	}
	for _, tc := range cases {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
