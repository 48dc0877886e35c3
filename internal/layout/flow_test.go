package layout

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type placed struct {
	Text string
	X, Y float64
	Size float64
	Bold bool
}

func TestFlowPlace(t *testing.T) {
	t.Parallel()

	t.Run("cells are drawn on successive baselines", func(t *testing.T) {
		t.Parallel()

		f := NewFlow(100, 0, 9).Add(
			Text(40, "title", Style{Size: 12, Bold: true}, 14),
			Pair(40, "label", Style{Bold: true}, 130, "value", Style{}, 12),
			Gap(20),
			Text(40, "footer", Style{Size: 8}, 10),
		)

		var got []placed
		end, err := f.Place(func(c Cell, y float64) error {
			got = append(got, placed{c.Text, c.X, y, c.Style.Size, c.Style.Bold})
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []placed{
			{"title", 40, 100, 12, true},
			{"label", 40, 86, 9, true},
			{"value", 130, 86, 9, false},
			{"footer", 40, 54, 8, false},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("placement mismatch (-want +got):\n%s", diff)
		}
		if end != 44 {
			t.Errorf("end cursor = %v, want 44", end)
		}
	})

	t.Run("rows below the bottom limit report ErrOverflow", func(t *testing.T) {
		t.Parallel()

		f := NewFlow(30, 20, 9).Add(
			Text(0, "a", Style{}, 12),
			Text(0, "b", Style{}, 12),
		)
		drawn := 0
		_, err := f.Place(func(Cell, float64) error {
			drawn++
			return nil
		})
		if !errors.Is(err, ErrOverflow) {
			t.Fatalf("expected ErrOverflow, got %v", err)
		}
		if drawn != 1 {
			t.Errorf("expected 1 cell drawn before overflow, got %d", drawn)
		}
	})

	t.Run("trailing gaps below the limit are not an overflow", func(t *testing.T) {
		t.Parallel()

		f := NewFlow(25, 20, 9).Add(Text(0, "a", Style{}, 10), Gap(50))
		if _, err := f.Place(func(Cell, float64) error { return nil }); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("draw errors abort placement", func(t *testing.T) {
		t.Parallel()

		sentinel := errors.New("boom")
		f := NewFlow(100, 0, 9).Add(Text(0, "a", Style{}, 10), Text(0, "b", Style{}, 10))
		_, err := f.Place(func(Cell, float64) error { return sentinel })
		if !errors.Is(err, sentinel) {
			t.Errorf("expected draw error, got %v", err)
		}
	})
}

func TestFlowBaselines(t *testing.T) {
	t.Parallel()

	f := NewFlow(50, 0, 9).Add(Gap(10), Text(0, "x", Style{}, 5), Gap(1))
	want := []float64{50, 40, 35}
	if diff := cmp.Diff(want, f.Baselines()); diff != "" {
		t.Errorf("baselines mismatch (-want +got):\n%s", diff)
	}
}
