package mdstudio

import (
	"context"
	"errors"
	"fmt"
)

// DependencyErrorMessage is shown in the preview when a collaborator is
// missing at startup.
const DependencyErrorMessage = "Error: No se pudieron cargar las librerías externas."

// Dependency is an external collaborator that must be present before the
// editor accepts exports.
type Dependency interface {
	Name() string
	Check(ctx context.Context) error
}

// CheckDependencies checks every dependency and joins the failures.
// Each failure wraps ErrDependencyMissing.
func CheckDependencies(ctx context.Context, deps ...Dependency) error {
	var errs []error
	for _, d := range deps {
		if err := d.Check(ctx); err != nil {
			if !errors.Is(err, ErrDependencyMissing) {
				err = fmt.Errorf("%w: %v", ErrDependencyMissing, err)
			}
			errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
		}
	}
	return errors.Join(errs...)
}
