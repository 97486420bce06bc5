package fattybrewing

import (
	"errors"
	"fmt"
)

var (
	ErrUnit             = errors.New("unit error")
	ErrConversion       = errors.New("conversion error")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrNotFound         = errors.New("not found")
	ErrFermentation     = errors.New("fermentation error")
	ErrPackaging        = errors.New("packaging error")
	ErrKind             = errors.New("wrong container type")
	ErrInvalid          = errors.New("invalid argument")
)

// UnitError reports a unit that is unsupported or not allowed in this place.
type UnitError struct {
	Unit   string
	Reason string
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("%s: %q", e.Reason, e.Unit)
}

func (e *UnitError) Is(target error) bool { return target == ErrUnit }

// ConversionError reports a unit pair with no conversion rule.
type ConversionError struct {
	From Unit
	To   Unit
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("unable to convert from %s (%s) into %s (%s)",
		e.From.Symbol, e.From.Category, e.To.Symbol, e.To.Category)
}

func (e *ConversionError) Is(target error) bool { return target == ErrConversion }

// CapacityExceededError is returned when an addition overflows a container.
// Accepted has already been committed to the container; Remainder was not.
type CapacityExceededError struct {
	Container string
	Substance string
	Accepted  Quantity
	Remainder Quantity
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("container %s: trying to add too much %s, only %s added (%s not added)",
		e.Container, e.Substance, e.Accepted, e.Remainder)
}

func (e *CapacityExceededError) Is(target error) bool { return target == ErrCapacityExceeded }

// NotFoundError reports a substance, or a stored container, that isn't there.
type NotFoundError struct {
	Container string
	Substance string
	ID        string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("container %s not found", e.ID)
	}
	return fmt.Sprintf("container %s holds no %s", e.Container, e.Substance)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

type FermentationError struct {
	Container string
	Worts     int
}

func (e *FermentationError) Error() string {
	if e.Worts == 0 {
		return fmt.Sprintf("no wort found in fermenter %s, unable to ferment", e.Container)
	}
	return fmt.Sprintf("unable to ferment %d worts at one time in fermenter %s", e.Worts, e.Container)
}

func (e *FermentationError) Is(target error) bool { return target == ErrFermentation }

// PackagingError reports a kegging precondition failure or beer left over
// after every keg was filled.
type PackagingError struct {
	Container  string
	Beers      int
	Unpackaged Quantity
	Err        error
}

func (e *PackagingError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("fermenter %s: unable to package beer: %v", e.Container, e.Err)
	case e.Beers != 1:
		return fmt.Sprintf("fermenter %s must hold exactly one beer to transfer into kegs, found %d", e.Container, e.Beers)
	}
	return fmt.Sprintf("insufficient kegs to package remaining beer from %s: %s", e.Container, e.Unpackaged)
}

func (e *PackagingError) Is(target error) bool { return target == ErrPackaging }

func (e *PackagingError) Unwrap() error { return e.Err }

type KindError struct {
	Container string
	Want      Kind
	Got       Kind
}

func (e *KindError) Error() string {
	return fmt.Sprintf("container %s is a %s, not a %s", e.Container, e.Got, e.Want)
}

func (e *KindError) Is(target error) bool { return target == ErrKind }
