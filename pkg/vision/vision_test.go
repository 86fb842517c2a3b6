package vision

import (
	"image"
	"testing"

	"ClassVision/internal/entity"
)

func TestClampBox(t *testing.T) {
	tests := []struct {
		name   string
		rect   image.Rectangle
		width  int
		height int
		want   entity.BoundingBox
		ok     bool
	}{
		{
			name:   "fully inside",
			rect:   image.Rect(10, 20, 60, 80),
			width:  100,
			height: 100,
			want:   entity.BoundingBox{X: 10, Y: 20, Width: 50, Height: 60},
			ok:     true,
		},
		{
			name:   "overflows right and bottom",
			rect:   image.Rect(80, 90, 130, 140),
			width:  100,
			height: 100,
			want:   entity.BoundingBox{X: 80, Y: 90, Width: 20, Height: 10},
			ok:     true,
		},
		{
			name:   "negative origin",
			rect:   image.Rect(-10, -5, 40, 45),
			width:  100,
			height: 100,
			want:   entity.BoundingBox{X: 0, Y: 0, Width: 30, Height: 40},
			ok:     true,
		},
		{
			name:   "entirely outside",
			rect:   image.Rect(120, 120, 150, 150),
			width:  100,
			height: 100,
			ok:     false,
		},
		{
			name:   "clips to zero width",
			rect:   image.Rect(100, 10, 140, 50),
			width:  100,
			height: 100,
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := clampBox(tt.rect, tt.width, tt.height)
			if ok != tt.ok {
				t.Fatalf("clampBox ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if got != tt.want {
				t.Errorf("clampBox = %+v, want %+v", got, tt.want)
			}
			if got.X < 0 || got.Y < 0 || got.X+got.Width > tt.width || got.Y+got.Height > tt.height {
				t.Errorf("clamped box %+v escapes %dx%d image", got, tt.width, tt.height)
			}
		})
	}
}

func TestMockLocator(t *testing.T) {
	mock := NewMockLocator()

	faces := []entity.FaceCandidate{
		{BBox: entity.BoundingBox{X: 1, Y: 2, Width: 3, Height: 4}, Confidence: DefaultConfidence},
	}
	mock.SetFaces(faces)

	got, err := mock.Locate([]byte("irrelevant"))
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].Confidence != DefaultConfidence {
		t.Errorf("expected confidence %v, got %v", DefaultConfidence, got[0].Confidence)
	}

	mock.SetError(ErrImageDecode)
	if _, err := mock.Locate(nil); err == nil {
		t.Error("expected error after SetError")
	}
}
