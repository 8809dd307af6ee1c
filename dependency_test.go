package mdstudio

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCheckDependencies(t *testing.T) {
	t.Parallel()

	t.Run("all present", func(t *testing.T) {
		t.Parallel()

		err := CheckDependencies(context.Background(),
			fakeDependency{name: "a"},
			fakeDependency{name: "b"},
		)
		if err != nil {
			t.Errorf("CheckDependencies() = %v, want nil", err)
		}
	})

	t.Run("none", func(t *testing.T) {
		t.Parallel()

		if err := CheckDependencies(context.Background()); err != nil {
			t.Errorf("CheckDependencies() = %v, want nil", err)
		}
	})

	t.Run("failures joined and wrapped", func(t *testing.T) {
		t.Parallel()

		err := CheckDependencies(context.Background(),
			fakeDependency{name: "Chrome", err: errors.New("not found")},
			fakeDependency{name: "ok"},
			fakeDependency{name: "Fonts", err: ErrDependencyMissing},
		)
		if !errors.Is(err, ErrDependencyMissing) {
			t.Fatalf("CheckDependencies() = %v, want ErrDependencyMissing", err)
		}
		msg := err.Error()
		for _, name := range []string{"Chrome", "Fonts"} {
			if !strings.Contains(msg, name) {
				t.Errorf("error %q does not name %s", msg, name)
			}
		}
		if strings.Contains(msg, "ok:") {
			t.Errorf("error %q names a present dependency", msg)
		}
	})
}
