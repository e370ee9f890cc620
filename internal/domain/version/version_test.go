package version

import (
	"strings"
	"testing"
)

func TestNewAppVersion(t *testing.T) {
	tests := []struct {
		name  string
		major uint64
		minor uint64
		patch uint64
		build uint64
		want  string
	}{
		{"zero version", 0, 0, 0, 0, "0.0.0+0"},
		{"initial version", 0, 1, 0, 1, "0.1.0+1"},
		{"stable version", 1, 0, 0, 1, "1.0.0+1"},
		{"shipping version", 1, 13, 0, 31, "1.13.0+31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewAppVersion(tt.major, tt.minor, tt.patch, tt.build)
			if got := v.String(); got != tt.want {
				t.Errorf("NewAppVersion().String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"simple version", "1.2.3+45", "1.2.3+45", false},
		{"zero version", "0.0.0+0", "0.0.0+0", false},
		{"large numbers", "100.200.300+4000", "100.200.300+4000", false},
		{"single digit build", "1.0.0+1", "1.0.0+1", false},
		{"invalid - empty", "", "", true},
		{"invalid - not a version", "foo", "", true},
		{"invalid - missing build", "1.2.3", "", true},
		{"invalid - missing patch", "1.2+3", "", true},
		{"invalid - v prefix", "v1.2.3+45", "", true},
		{"invalid - letters in version", "1.a.3+4", "", true},
		{"invalid - letters in build", "1.2.3+abc", "", true},
		{"invalid - negative component", "1.-2.3+4", "", true},
		{"invalid - trailing text", "1.2.3+45-beta", "", true},
		{"invalid - whitespace", " 1.2.3+45", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got.String() != tt.want {
				t.Errorf("Parse().String() = %v, want %v", got.String(), tt.want)
			}
		})
	}
}

func TestParseErrorNamesExpectedFormat(t *testing.T) {
	_, err := Parse("1.2.3")
	if err == nil {
		t.Fatal("Parse() expected error for missing build number")
	}
	if got := err.Error(); !strings.Contains(got, "major.minor.patch+build") {
		t.Errorf("Parse() error %q should name the expected format", got)
	}
}

func TestAppVersion_Compare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v1   string
		v2   string
		want int
	}{
		{"equal versions", "1.0.0+1", "1.0.0+1", 0},
		{"major less", "1.0.0+1", "2.0.0+1", -1},
		{"major greater", "2.0.0+1", "1.0.0+1", 1},
		{"minor less", "1.1.0+1", "1.2.0+1", -1},
		{"minor greater", "1.2.0+1", "1.1.0+1", 1},
		{"patch less", "1.0.1+1", "1.0.2+1", -1},
		{"patch greater", "1.0.2+1", "1.0.1+1", 1},
		{"build less", "1.0.0+1", "1.0.0+2", -1},
		{"build greater", "1.0.0+2", "1.0.0+1", 1},
		{"triple outranks build", "1.0.1+1", "1.0.0+99", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v1 := MustParse(tt.v1)
			v2 := MustParse(tt.v2)
			if got := v1.Compare(v2); got != tt.want {
				t.Errorf("Compare() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppVersion_Strings(t *testing.T) {
	v := MustParse("1.13.0+31")

	if got := v.String(); got != "1.13.0+31" {
		t.Errorf("String() = %v, want 1.13.0+31", got)
	}
	if got := v.ReleaseString(); got != "1.13.0" {
		t.Errorf("ReleaseString() = %v, want 1.13.0", got)
	}
	if got := v.TagString(); got != "v1.13.0" {
		t.Errorf("TagString() = %v, want v1.13.0", got)
	}
}

func TestAppVersion_IsZero(t *testing.T) {
	if !Zero.IsZero() {
		t.Error("Zero.IsZero() = false, want true")
	}
	if Initial.IsZero() {
		t.Error("Initial.IsZero() = true, want false")
	}
	if MustParse("0.0.0+1").IsZero() {
		t.Error("IsZero() with non-zero build = true, want false")
	}
}

func TestMustParse_PanicsOnInvalid(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustParse() did not panic on invalid input")
		}
	}()
	MustParse("not-a-version")
}
