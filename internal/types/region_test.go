package types

import (
	"errors"
	"image"
	"testing"
)

func TestParseRegion(t *testing.T) {
	tests := []struct {
		in      string
		want    Region
		wantErr bool
	}{
		{"10,10,20,20", Region{10, 10, 20, 20}, false},
		{" 0, 5 ,7,9", Region{0, 5, 7, 9}, false},
		{"1,2,3", Region{}, true},
		{"a,b,c,d", Region{}, true},
		{"1,2,0,4", Region{}, true},
	}
	for _, tt := range tests {
		got, err := ParseRegion(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrBadRegion) {
				t.Errorf("ParseRegion(%q) error = %v, want ErrBadRegion", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRegion(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRegion(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestRegionIn(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)
	tests := []struct {
		name string
		r    Region
		want bool
	}{
		{"inside", Region{10, 10, 20, 20}, true},
		{"full", Region{0, 0, 100, 100}, true},
		{"overflow", Region{90, 90, 20, 20}, false},
		{"negative origin", Region{-1, 0, 10, 10}, false},
		{"empty", Region{10, 10, 0, 5}, false},
	}
	for _, tt := range tests {
		if got := tt.r.In(bounds); got != tt.want {
			t.Errorf("%s: In() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRegionRectRoundTrip(t *testing.T) {
	r := Region{X: 3, Y: 4, Width: 5, Height: 6}
	if got := RegionFromRect(r.Rect()); got != r {
		t.Errorf("RegionFromRect(Rect()) = %+v, want %+v", got, r)
	}
	if !r.Covers(image.Rect(3, 4, 8, 10)) {
		t.Error("Covers() = false for identical bounds")
	}
}

func TestScaleForDevice(t *testing.T) {
	r := Region{X: 10, Y: 20, Width: 30, Height: 40}
	if got := r.ScaleForDevice(1); got != r {
		t.Errorf("scale 1 changed region: %+v", got)
	}
	if got := r.ScaleForDevice(0.5); got != r {
		t.Errorf("scale 0.5 changed region: %+v", got)
	}
	want := Region{X: 20, Y: 40, Width: 60, Height: 80}
	if got := r.ScaleForDevice(2); got != want {
		t.Errorf("ScaleForDevice(2) = %+v, want %+v", got, want)
	}
}

func TestFromNormalized(t *testing.T) {
	frame := Region{Width: 200, Height: 100}
	// Box in the lower-left quarter in bottom-left coordinates.
	got := FromNormalized(0, 0, 0.5, 0.5, frame)
	want := Region{X: 0, Y: 50, Width: 100, Height: 50}
	if got != want {
		t.Errorf("FromNormalized() = %+v, want %+v", got, want)
	}

	offset := Region{X: 10, Y: 5, Width: 200, Height: 100}
	got = FromNormalized(0.25, 0.5, 0.25, 0.5, offset)
	want = Region{X: 60, Y: 5, Width: 50, Height: 50}
	if got != want {
		t.Errorf("FromNormalized(offset) = %+v, want %+v", got, want)
	}
}
