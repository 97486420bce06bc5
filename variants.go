package fattybrewing

import "time"

// WortConverter turns a finished mash into wort.
type WortConverter interface {
	ConvertToWort() ([]Entry, error)
}

// Fermentable turns wort into beer over a duration.
type Fermentable interface {
	FermentWort(d time.Duration) ([]Removed, error)
}

// Packageable moves beer into kegs.
type Packageable interface {
	IntoKegs(kegs ...*Keg) error
}

type MashTun struct{ *Container }

type Fermenter struct{ *Container }

type Storage struct{ *Container }

type Keg struct{ *Container }

type Bottle struct{ *Container }

var (
	_ WortConverter = (*MashTun)(nil)
	_ Fermentable   = (*Fermenter)(nil)
	_ Packageable   = (*Fermenter)(nil)
)

func NewMashTun(name string, size Quantity) (*MashTun, error) {
	c, err := New(KindMashTun, name, size)
	if err != nil {
		return nil, err
	}
	return &MashTun{c}, nil
}

func NewFermenter(name string, size Quantity) (*Fermenter, error) {
	c, err := New(KindFermenter, name, size)
	if err != nil {
		return nil, err
	}
	return &Fermenter{c}, nil
}

func NewStorage(name string, size Quantity) (*Storage, error) {
	c, err := New(KindStorage, name, size)
	if err != nil {
		return nil, err
	}
	return &Storage{c}, nil
}

func NewKeg(name string, size Quantity) (*Keg, error) {
	c, err := New(KindKeg, name, size)
	if err != nil {
		return nil, err
	}
	return &Keg{c}, nil
}

func NewBottle(name string, size Quantity) (*Bottle, error) {
	c, err := New(KindBottle, name, size)
	if err != nil {
		return nil, err
	}
	return &Bottle{c}, nil
}

func checkKind(c *Container, want Kind) error {
	if c.Kind() != want {
		return &KindError{Container: c.ID(), Want: want, Got: c.Kind()}
	}
	return nil
}

func AsMashTun(c *Container) (*MashTun, error) {
	if err := checkKind(c, KindMashTun); err != nil {
		return nil, err
	}
	return &MashTun{c}, nil
}

func AsFermenter(c *Container) (*Fermenter, error) {
	if err := checkKind(c, KindFermenter); err != nil {
		return nil, err
	}
	return &Fermenter{c}, nil
}

func AsKeg(c *Container) (*Keg, error) {
	if err := checkKind(c, KindKeg); err != nil {
		return nil, err
	}
	return &Keg{c}, nil
}
